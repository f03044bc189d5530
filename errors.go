package autowire

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTypeNotFound is returned when the requested type name (or type) is not known by the resolver.
	ErrTypeNotFound = errors.New("type not found")
	// ErrMethodNotPublic is returned when the selected entry point is declared but not exported.
	ErrMethodNotPublic = errors.New("could not resolve not public method")
	// ErrUnresolvableParameter is returned for a scalar parameter with no container value and no default.
	ErrUnresolvableParameter = errors.New("autowire of parameter failed")
	// ErrEntryPointNotFound is returned when the selected entry point does not exist on the type.
	ErrEntryPointNotFound = errors.New("entry point not found")
	// ErrConstructorArguments is returned when a bare construction hits a parameter without default.
	ErrConstructorArguments = errors.New("constructor requires arguments")
	// ErrParameterType is returned when a value cannot be assigned to the parameter type.
	ErrParameterType = errors.New("value does not match parameter type")

	// ErrInvalidRegistration is returned by Register for unsupported registrables or options.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrDuplicateType is returned by Register when a name is already taken.
	ErrDuplicateType = errors.New("type already registered")
)

// ResolutionError describes a failure of the resolver itself.
//
// Errors returned by constructors or methods of the autowired types are never wrapped in a ResolutionError.
type ResolutionError struct {
	// Path lists the names of the types being resolved, outermost first.
	Path []string
	// EntryPoint is the entry point being resolved on the last type of the path.
	EntryPoint string
	// Param is the name of the parameter being bound, if any.
	Param string
	// Err is one of the sentinel errors of this package, possibly wrapped with more context.
	Err error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("failed to autowire ")
	b.WriteString(strings.Join(e.Path, " -> "))
	if e.EntryPoint != "" && e.EntryPoint != Constructor {
		b.WriteString(fmt.Sprintf(" (entry point %q)", e.EntryPoint))
	}
	if e.Param != "" {
		b.WriteString(fmt.Sprintf(", parameter %q", e.Param))
	}
	b.WriteString(":\n\t")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
