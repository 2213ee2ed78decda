package object

import (
	"bytes"
	"fmt"
	"lox/internal/token"
	"maps"
	"slices"
)

// RuntimeError is a user-visible failure located at a source token. The
// resolver reports its static errors with the same type.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Token.Location() + " " + e.Message
}

func NewRuntimeError(tok token.Token, format string, a ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, a...)}
}

// RenderEnvironment lists every frame from env out to the globals, one
// binding per line with names sorted inside each frame.
func RenderEnvironment(env *Environment) string {
	var buf bytes.Buffer

	depth := 0
	for e := env; e != nil; e = e.Outer {
		fmt.Fprintf(&buf, "[%d] env %d\n", depth, e.ID)
		for _, name := range slices.Sorted(maps.Keys(e.Bindings)) {
			fmt.Fprintf(&buf, "  %s = %s\n", name, e.Bindings[name].Inspect())
		}
		depth++
	}

	return buf.String()
}
