package atlas

import "log/slog"

// Config holds the geometry and format of atlas pages.
type Config struct {
	// Width is the page width in pixels.
	// Default: 1024
	Width int

	// Height is the page height in pixels.
	// Default: 512
	Height int

	// Format is the pixel format of every page.
	// Default: FormatR8
	Format PixelFormat

	// Logger receives placement diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// DefaultConfig returns the default page configuration: a 1024x512
// single-channel page.
func DefaultConfig() Config {
	return Config{
		Width:  1024,
		Height: 512,
		Format: FormatR8,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Width < 8 {
		return &ConfigError{Field: "Width", Reason: "must be at least 8"}
	}
	if c.Width > 16384 {
		return &ConfigError{Field: "Width", Reason: "must be at most 16384"}
	}
	if c.Height < 8 {
		return &ConfigError{Field: "Height", Reason: "must be at least 8"}
	}
	if c.Height > 16384 {
		return &ConfigError{Field: "Height", Reason: "must be at most 16384"}
	}
	if !c.Format.valid() {
		return &ConfigError{Field: "Format", Reason: "unknown pixel format"}
	}
	return nil
}
