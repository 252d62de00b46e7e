package paragraph

import (
	"errors"
	"fmt"
)

// ErrInvalidRuns is returned when styled runs do not cover the text as an
// ordered, gap-free sequence.
var ErrInvalidRuns = errors.New("paragraph: invalid styled runs")

// MissingCollaboratorError reports a required collaborator left nil.
type MissingCollaboratorError struct {
	Name string
}

func (e *MissingCollaboratorError) Error() string {
	return fmt.Sprintf("paragraph: missing collaborator %s", e.Name)
}
