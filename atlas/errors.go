package atlas

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFit is the sentinel matched by every placement failure.
	// Placement failures are not fatal: the caller may open another page.
	ErrNoFit = errors.New("atlas: glyph does not fit")

	// ErrPoolExhausted is returned when every page is full and the pool may
	// not open another page.
	ErrPoolExhausted = errors.New("atlas: page limit reached")

	// ErrInvalidSize is returned for non-positive reservation sizes.
	ErrInvalidSize = errors.New("atlas: invalid reservation size")
)

// PlacementReason explains why a reservation failed.
type PlacementReason uint8

const (
	// ReasonPageFull means no free block could hold the glyph.
	ReasonPageFull PlacementReason = iota

	// ReasonTooTall means the glyph plus its border is taller than the page.
	ReasonTooTall

	// ReasonIncompatibleFormat means the glyph format cannot be stored in
	// the page's pixel format.
	ReasonIncompatibleFormat
)

// String returns a human-readable name for the reason.
func (r PlacementReason) String() string {
	switch r {
	case ReasonPageFull:
		return "page full"
	case ReasonTooTall:
		return "glyph too tall"
	case ReasonIncompatibleFormat:
		return "incompatible format"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// PlacementError describes a failed reservation.
type PlacementError struct {
	PageID int
	Width  int
	Height int
	Reason PlacementReason
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("atlas: page %d cannot place %dx%d glyph: %s", e.PageID, e.Width, e.Height, e.Reason)
}

// Unwrap makes errors.Is(err, ErrNoFit) report true.
func (e *PlacementError) Unwrap() error {
	return ErrNoFit
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
