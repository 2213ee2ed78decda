package object

import (
	"fmt"
	"lox/internal/ast"
)

const (
	NIL_OBJ     = "NIL"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"

	FUNCTION_OBJ = "FUNCTION"
	NATIVE_OBJ   = "NATIVE"
	CLASS_OBJ    = "CLASS"
	INSTANCE_OBJ = "INSTANCE"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// EvaluatorContext is the part of the interpreter a callable needs in order
// to run. It keeps this package free of an import on the evaluator.
type EvaluatorContext interface {
	// ExecuteBody runs a function body in env and returns the value carried
	// by a return statement, or NIL when the body completes without one.
	ExecuteBody(body []ast.Statement, env *Environment) (Object, error)
}

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

// Callable is implemented by every value that can appear in callee position.
type Callable interface {
	Object
	Arity() int
	Call(ctx EvaluatorContext, arguments []Object) (Object, error)
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return ast.FormatNumber(n.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

// Function is a user-defined function together with the environment that
// was current where it was declared.
type Function struct {
	Declaration *ast.Function
	Closure     *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<fn " + f.Declaration.Name.Lexeme + ">" }
func (f *Function) Arity() int       { return len(f.Declaration.Params) }

func (f *Function) Call(ctx EvaluatorContext, arguments []Object) (Object, error) {
	env := NewEnclosedEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, arguments[i])
	}
	return ctx.ExecuteBody(f.Declaration.Body, env)
}

type NativeFunction func(ctx EvaluatorContext, arguments []Object) (Object, error)

// Native is a function implemented in Go. It runs without an environment of
// its own.
type Native struct {
	Name   string
	Params int
	Fn     NativeFunction
}

func (n *Native) Type() ObjectType { return NATIVE_OBJ }
func (n *Native) Inspect() string  { return "<native fn " + n.Name + ">" }
func (n *Native) Arity() int       { return n.Params }

func (n *Native) Call(ctx EvaluatorContext, arguments []Object) (Object, error) {
	return n.Fn(ctx, arguments)
}

// Class takes no constructor arguments. Calling one yields an empty
// Instance.
type Class struct {
	Name string
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "<class " + c.Name + ">" }
func (c *Class) Arity() int       { return 0 }

func (c *Class) Call(_ EvaluatorContext, _ []Object) (Object, error) {
	return &Instance{Class: c}, nil
}

type Instance struct {
	Class *Class
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return "<" + i.Class.Name + " instance>" }

// NativeBoolToBooleanObject maps a Go bool onto the shared singletons.
func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// IsTruthy reports false only for nil and false.
func IsTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return obj.Value
	default:
		return true
	}
}
