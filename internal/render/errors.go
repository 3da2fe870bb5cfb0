package render

import (
	"errors"
	"fmt"
	"strings"

	"glscene/internal/shader"
)

var (
	// ErrNotLinked is returned by Init when the main program failed to link.
	ErrNotLinked = errors.New("shader program is not linked")
	// ErrHandleResolution matches a *HandleError.
	ErrHandleResolution = errors.New("failed to resolve shader handles")
)

// HandleError lists uniform and subroutine names that did not resolve in a
// program.
type HandleError struct {
	Program shader.Tag
	Names   []string
}

func (e *HandleError) Error() string {
	return fmt.Sprintf("%s in %s program: %s", ErrHandleResolution, e.Program, strings.Join(e.Names, ", "))
}

func (e *HandleError) Is(target error) bool {
	return target == ErrHandleResolution
}

// InvariantViolation is the panic value for programmer errors: exceeding the
// light ceiling, drawing before Init, registering a model twice.
type InvariantViolation struct {
	Msg string
}

func (v InvariantViolation) Error() string {
	return "render: invariant violation: " + v.Msg
}

func violate(format string, args ...any) {
	panic(InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}
