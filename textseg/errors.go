package textseg

import "fmt"

// ServiceError reports a failure of a Unicode algorithm. It aborts the
// layout pass that needed it.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("textseg: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
