package salary

import "errors"

var (
	ErrStructureNotFound   = errors.New("salary structure not found")
	ErrStructureNameExists = errors.New("salary structure name already exists")
	ErrAssignmentNotFound  = errors.New("salary assignment not found")
	ErrNoCurrentAssignment = errors.New("no salary assignment covers the requested date")
	// ErrAmbiguousAssignment signals an invariant violation: more than one
	// assignment covers the same instant. Surfaced to the caller, never
	// resolved by picking one.
	ErrAmbiguousAssignment = errors.New("multiple salary assignments cover the requested date")
)
