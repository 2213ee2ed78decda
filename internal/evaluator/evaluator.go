package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"lox/internal/ast"
	"lox/internal/object"
	"lox/internal/resolver"
)

var NIL = object.NIL

type flow int

const (
	flowNormal flow = iota
	flowBreak
	flowReturn
)

// outcome is how a statement finished. Break and return travel up as
// outcomes, never as errors, until the loop or call that owns them.
type outcome struct {
	flow  flow
	value object.Object
}

var normal = outcome{flow: flowNormal}

// Evaluator executes resolved programs against one global environment that
// lives as long as the Evaluator does.
type Evaluator struct {
	globals *object.Environment
	locals  resolver.Locals
	nest    int // enclosing while loops in the current call

	stdout io.Writer
	stderr io.Writer
}

func New(stdout, stderr io.Writer) *Evaluator {
	e := &Evaluator{
		globals: object.NewEnvironment(),
		locals:  make(resolver.Locals),
		stdout:  stdout,
		stderr:  stderr,
	}
	for name, native := range natives {
		e.globals.Define(name, native)
	}
	return e
}

func (e *Evaluator) Globals() *object.Environment {
	return e.globals
}

// Resolve merges distances from a resolver pass. Entries are keyed by node
// pointer, so tables from separate REPL lines never collide.
func (e *Evaluator) Resolve(locals resolver.Locals) {
	for expr, distance := range locals {
		e.locals[expr] = distance
	}
}

// Interpret runs statements in order. It stops at the first runtime error,
// writes it to stderr and returns false.
func (e *Evaluator) Interpret(statements []ast.Statement) bool {
	e.nest = 0

	for _, stmt := range statements {
		out, err := e.execute(stmt, e.globals)
		if err != nil {
			fmt.Fprintln(e.stderr, err)
			return false
		}
		if out.flow != flowNormal {
			slog.Warn("control flow signal reached top level",
				slog.Int("flow", int(out.flow)),
				slog.String("statement", stmt.String()))
		}
	}
	return true
}

// ExecuteBody runs a function body in env, the frame holding its
// parameters. The loop depth is reset for the duration so a break can only
// target loops inside the body.
func (e *Evaluator) ExecuteBody(body []ast.Statement, env *object.Environment) (object.Object, error) {
	enclosingNest := e.nest
	e.nest = 0
	defer func() { e.nest = enclosingNest }()

	out, err := e.executeStatements(body, env)
	if err != nil {
		return nil, err
	}
	if out.flow == flowReturn {
		return out.value, nil
	}
	return NIL, nil
}

func (e *Evaluator) execute(stmt ast.Statement, env *object.Environment) (outcome, error) {
	switch node := stmt.(type) {

	case *ast.ExpressionStatement:
		if _, err := e.evaluate(node.Expression, env); err != nil {
			return normal, err
		}

	case *ast.Print:
		val, err := e.evaluate(node.Expression, env)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(e.stdout, val.Inspect())

	case *ast.Var:
		var val object.Object = NIL
		if node.Initializer != nil {
			v, err := e.evaluate(node.Initializer, env)
			if err != nil {
				return normal, err
			}
			val = v
		}
		env.Define(node.Name.Lexeme, val)

	case *ast.Block:
		return e.executeStatements(node.Statements, object.NewEnclosedEnvironment(env))

	case *ast.If:
		cond, err := e.evaluate(node.Condition, env)
		if err != nil {
			return normal, err
		}
		if object.IsTruthy(cond) {
			return e.execute(node.ThenBranch, env)
		} else if node.ElseBranch != nil {
			return e.execute(node.ElseBranch, env)
		}

	case *ast.While:
		return e.evalWhileStatement(node, env)

	case *ast.Break:
		if e.nest == 0 {
			return normal, object.NewRuntimeError(node.Token, "Break outside of while/for loop.")
		}
		return outcome{flow: flowBreak}, nil

	case *ast.Return:
		var val object.Object = NIL
		if node.Value != nil {
			v, err := e.evaluate(node.Value, env)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return outcome{flow: flowReturn, value: val}, nil

	case *ast.Function:
		fn := &object.Function{Declaration: node, Closure: env}
		env.Define(node.Name.Lexeme, fn)

	case *ast.Class:
		env.Define(node.Name.Lexeme, &object.Class{Name: node.Name.Lexeme})

	default:
		return normal, fmt.Errorf("unknown statement %T", stmt)
	}

	return normal, nil
}

func (e *Evaluator) executeStatements(statements []ast.Statement, env *object.Environment) (outcome, error) {
	for _, stmt := range statements {
		out, err := e.execute(stmt, env)
		if err != nil || out.flow != flowNormal {
			return out, err
		}
	}
	return normal, nil
}

func (e *Evaluator) evalWhileStatement(node *ast.While, env *object.Environment) (outcome, error) {
	e.nest++
	defer func() { e.nest-- }()

	for {
		cond, err := e.evaluate(node.Condition, env)
		if err != nil {
			return normal, err
		}
		if !object.IsTruthy(cond) {
			return normal, nil
		}

		out, err := e.execute(node.Body, env)
		if err != nil {
			return normal, err
		}
		switch out.flow {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return out, nil
		}
	}
}

func (e *Evaluator) evaluate(expr ast.Expression, env *object.Environment) (object.Object, error) {
	switch node := expr.(type) {

	case *ast.Literal:
		return literalToObject(node.Value), nil

	case *ast.Grouping:
		return e.evaluate(node.Expression, env)

	case *ast.Variable:
		if distance, ok := e.locals[node]; ok {
			return env.GetAt(distance, node.Name.Lexeme)
		}
		return env.Get(node.Name)

	case *ast.Assign:
		val, err := e.evaluate(node.Value, env)
		if err != nil {
			return nil, err
		}
		if distance, ok := e.locals[node]; ok {
			err = env.AssignAt(distance, node.Name.Lexeme, val)
		} else {
			err = env.Assign(node.Name, val)
		}
		if err != nil {
			return nil, err
		}
		return val, nil

	case *ast.Unary:
		right, err := e.evaluate(node.Right, env)
		if err != nil {
			return nil, err
		}
		return e.evalPrefixExpression(node.Operator.Lexeme, right), nil

	case *ast.Binary:
		left, err := e.evaluate(node.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := e.evaluate(node.Right, env)
		if err != nil {
			return nil, err
		}
		result := e.evalInfixExpression(node.Operator.Lexeme, left, right)
		if result == illegal {
			return nil, object.NewRuntimeError(node.Operator, "Illegal expression.")
		}
		return result, nil

	case *ast.Logical:
		return e.evalLogicalExpression(node, env)

	case *ast.Call:
		return e.evalCallExpression(node, env)

	default:
		return nil, fmt.Errorf("unknown expression %T", expr)
	}
}

func (e *Evaluator) evalLogicalExpression(node *ast.Logical, env *object.Environment) (object.Object, error) {
	left, err := e.evaluate(node.Left, env)
	if err != nil {
		return nil, err
	}

	if node.Operator.Lexeme == "or" {
		if object.IsTruthy(left) {
			return left, nil
		}
	} else if !object.IsTruthy(left) {
		return left, nil
	}

	return e.evaluate(node.Right, env)
}

func (e *Evaluator) evalCallExpression(node *ast.Call, env *object.Environment) (object.Object, error) {
	callee, err := e.evaluate(node.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]object.Object, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		val, err := e.evaluate(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	fn, ok := callee.(object.Callable)
	if !ok {
		return nil, object.NewRuntimeError(node.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, object.NewRuntimeError(node.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	slog.Debug("calling",
		slog.String("callee", fn.Inspect()),
		slog.Int("line", node.Paren.Line),
		slog.Int("args", len(args)))
	return fn.Call(e, args)
}

func literalToObject(value any) object.Object {
	switch v := value.(type) {
	case float64:
		return &object.Number{Value: v}
	case string:
		return &object.String{Value: v}
	case bool:
		return object.NativeBoolToBooleanObject(v)
	default:
		return NIL
	}
}
