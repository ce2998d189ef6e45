package letid

import "fmt"

// DomainError is returned when an input is outside its physically
// meaningful range (negative lifetime, zero thickness, ...).
type DomainError struct {
	msg string
}

func (e *DomainError) Error() string {
	return "domain error: " + e.msg
}

func domain_errorf(format string, args ...interface{}) error {
	return &DomainError{msg: fmt.Sprintf(format, args...)}
}

// ConvergenceError is returned when the excess carrier density
// root find does not converge. Step and Transition identify where in
// the simulation the failure happened; both are -1 / empty when the
// failing call was made outside a simulation run.
type ConvergenceError struct {
	Step       int
	Transition string
	Iterations int
	msg        string
}

func (e *ConvergenceError) Error() string {
	s := fmt.Sprintf("convergence error: %s after %d iterations", e.msg, e.Iterations)
	if e.Transition != "" {
		s += fmt.Sprintf(" (transition %s)", e.Transition)
	}
	if e.Step >= 0 {
		s += fmt.Sprintf(" (timestep %d)", e.Step)
	}
	return s
}

func convergence_errorf(iterations int, format string, args ...interface{}) error {
	return &ConvergenceError{
		Step:       -1,
		Iterations: iterations,
		msg:        fmt.Sprintf(format, args...),
	}
}

// DataError is returned when an external resource (kinetics table,
// weather file, generation profile) is missing or malformed.
type DataError struct {
	Resource string
	msg      string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error: %s: %s", e.Resource, e.msg)
}

func data_errorf(resource string, format string, args ...interface{}) error {
	return &DataError{Resource: resource, msg: fmt.Sprintf(format, args...)}
}
