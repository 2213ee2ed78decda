package resolver

import (
	"errors"
	"log/slog"
	"lox/internal/ast"
	"lox/internal/object"
	"lox/internal/token"
)

type functionType int

const (
	functionNone functionType = iota
	functionBody
)

// Locals maps each resolved *ast.Variable or *ast.Assign to the number of
// frames between its use and the frame that holds the binding. References
// with no entry are globals and are looked up by name at runtime.
type Locals map[ast.Expression]int

// Resolver is a static pass that computes Locals for a program.
//
// Block and function scopes live on a stack of name → initialized maps.
// Top-level declarations never go on the stack. They are tracked in a
// separate set so a global read inside its own initializer is still caught,
// and that set persists across calls to Resolve so REPL lines see the
// globals declared by earlier lines.
type Resolver struct {
	scopes          []map[string]bool
	globals         map[string]bool
	currentFunction functionType
	locals          Locals
	errors          []error
}

func New() *Resolver {
	return &Resolver{globals: make(map[string]bool)}
}

// Resolve walks statements and returns the distances it found. All
// resolution errors are collected and returned joined. A reference that
// produced an error is left out of the table.
func (r *Resolver) Resolve(statements []ast.Statement) (Locals, error) {
	r.scopes = nil
	r.currentFunction = functionNone
	r.locals = make(Locals)
	r.errors = nil

	r.resolveStatements(statements)

	return r.locals, errors.Join(r.errors...)
}

func (r *Resolver) resolveStatements(statements []ast.Statement) {
	for _, stmt := range statements {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)

	case *ast.Function:
		// defined before the body so the function can call itself
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, functionBody)

	case *ast.Class:
		r.declare(s.Name)
		r.define(s.Name)

	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)

	case *ast.If:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStatement(s.ElseBranch)
		}

	case *ast.Print:
		r.resolveExpression(s.Expression)

	case *ast.Return:
		if r.currentFunction == functionNone {
			r.report(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpression(s.Value)
		}

	case *ast.While:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)

	case *ast.Break:
		// checked at runtime against the loop nesting depth
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosing }()

	r.beginScope()
	defer r.endScope()

	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Variable:
		if r.readsOwnInitializer(e.Name.Lexeme) {
			r.report(e.Name, "Can't read local variable in its own initializer.")
			return
		}
		r.resolveLocal(e, e.Name)

	case *ast.Assign:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Binary:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)

	case *ast.Logical:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)

	case *ast.Call:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}

	case *ast.Grouping:
		r.resolveExpression(e.Expression)

	case *ast.Unary:
		r.resolveExpression(e.Right)

	case *ast.Literal:
	}
}

// readsOwnInitializer reports whether name is declared but not yet defined
// in the innermost scope, or at top level when no scope is open.
func (r *Resolver) readsOwnInitializer(name string) bool {
	if len(r.scopes) == 0 {
		defined, ok := r.globals[name]
		return ok && !defined
	}
	defined, ok := r.scopes[len(r.scopes)-1][name]
	return ok && !defined
}

func (r *Resolver) resolveLocal(expr ast.Expression, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			distance := len(r.scopes) - 1 - i
			r.locals[expr] = distance
			slog.Debug("resolved local",
				slog.String("name", name.Lexeme),
				slog.Int("line", name.Line),
				slog.Int("distance", distance))
			return
		}
	}
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		// a global that is redeclared keeps its earlier value readable
		if _, ok := r.globals[name.Lexeme]; !ok {
			r.globals[name.Lexeme] = false
		}
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		r.globals[name.Lexeme] = true
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
	slog.Debug("resolver scope push", slog.Int("depth", len(r.scopes)))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
	slog.Debug("resolver scope pop", slog.Int("depth", len(r.scopes)))
}

func (r *Resolver) report(tok token.Token, message string) {
	r.errors = append(r.errors, &object.RuntimeError{Token: tok, Message: message})
}
