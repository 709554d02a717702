package retrievers

import "fmt"

// UnknownImplementationError is returned when no constructor is registered
// for an implementation name.
type UnknownImplementationError struct {
	// Implementation is the name that was looked up.
	Implementation string
}

// Error implements the error interface.
func (e *UnknownImplementationError) Error() string {
	return fmt.Sprintf("unknown retriever implementation %q", e.Implementation)
}

// ParamError reports an invalid adapter parameter.
type ParamError struct {
	// Param is the parameter name.
	Param string

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Message)
}
