package fonts

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch is matched by every font resolution failure.
	ErrNoMatch = errors.New("fonts: no matching font")

	// ErrInvalidShorthand is returned for malformed font shorthand strings.
	ErrInvalidShorthand = errors.New("fonts: invalid font shorthand")
)

// ResolutionError describes a failed family or character lookup.
type ResolutionError struct {
	// Family is the requested family, empty for character fallback.
	Family string
	// Rune is the character that needed coverage, 0 for family lookups.
	Rune   rune
	Locale string
	Style  Style
}

func (e *ResolutionError) Error() string {
	if e.Family != "" {
		return fmt.Sprintf("fonts: no font for family %q (%s)", e.Family, e.Style)
	}
	return fmt.Sprintf("fonts: no font covers %U (locale %q)", e.Rune, e.Locale)
}

// Unwrap makes errors.Is(err, ErrNoMatch) report true.
func (e *ResolutionError) Unwrap() error { return ErrNoMatch }
