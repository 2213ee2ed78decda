package object

import (
	"fmt"
	"log/slog"
	"lox/internal/token"
	"sync/atomic"
)

var nextID atomic.Uint64

// Environment is one lexical scope frame. Frames are shared by pointer, so
// a closure and the block that created it see the same bindings.
type Environment struct {
	ID       uint64
	Bindings map[string]Object
	Outer    *Environment
}

func nextEnvID() uint64 {
	return nextID.Add(1)
}

// NewEnclosedEnvironment creates a frame whose enclosing frame is outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.Outer = outer
	slog.Debug("------ new env ------",
		slog.Uint64("id", env.ID),
		slog.Uint64("outer", outer.ID))
	return env
}

func NewEnvironment() *Environment {
	return &Environment{
		ID:       nextEnvID(),
		Bindings: make(map[string]Object),
	}
}

// Define binds name in this frame, replacing any existing binding.
func (e *Environment) Define(name string, val Object) {
	e.Bindings[name] = val
	slog.Debug("binding value",
		slog.Uint64("env", e.ID),
		slog.String("name", name),
		slog.Any("type", val.Type()))
}

// Get looks name up through the whole chain.
func (e *Environment) Get(name token.Token) (Object, error) {
	for env := e; env != nil; env = env.Outer {
		if val, ok := env.Bindings[name.Lexeme]; ok {
			slog.Debug("Found binding",
				slog.Uint64("env", env.ID),
				slog.String("name", name.Lexeme))
			return val, nil
		}
	}
	return nil, undefinedVariable(name)
}

// Assign rebinds the nearest existing binding of name. It never creates one.
func (e *Environment) Assign(name token.Token, val Object) error {
	for env := e; env != nil; env = env.Outer {
		if _, ok := env.Bindings[name.Lexeme]; ok {
			env.Bindings[name.Lexeme] = val
			slog.Debug("assigning bound value",
				slog.Uint64("env", env.ID),
				slog.String("name", name.Lexeme),
				slog.Any("type", val.Type()))
			return nil
		}
	}
	return undefinedVariable(name)
}

// GetAt reads name from the frame distance hops up the chain without
// searching. An error here means the resolution table and the frames
// disagree.
func (e *Environment) GetAt(distance int, name string) (Object, error) {
	env, err := e.ancestor(distance)
	if err != nil {
		return nil, err
	}
	val, ok := env.Bindings[name]
	if !ok {
		return nil, fmt.Errorf("no binding for '%s' in env %d at distance %d", name, env.ID, distance)
	}
	return val, nil
}

// AssignAt rebinds name in the frame distance hops up the chain. Like
// GetAt it never creates a binding.
func (e *Environment) AssignAt(distance int, name string, val Object) error {
	env, err := e.ancestor(distance)
	if err != nil {
		return err
	}
	if _, ok := env.Bindings[name]; !ok {
		return fmt.Errorf("no binding for '%s' in env %d at distance %d", name, env.ID, distance)
	}
	env.Bindings[name] = val
	slog.Debug("assigning resolved value",
		slog.Uint64("env", env.ID),
		slog.String("name", name),
		slog.Int("distance", distance))
	return nil
}

func (e *Environment) ancestor(distance int) (*Environment, error) {
	env := e
	for i := 0; i < distance; i++ {
		if env.Outer == nil {
			return nil, fmt.Errorf("env %d has no ancestor at distance %d", e.ID, distance)
		}
		env = env.Outer
	}
	return env, nil
}

func undefinedVariable(name token.Token) *RuntimeError {
	return &RuntimeError{
		Token:   name,
		Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme),
	}
}
