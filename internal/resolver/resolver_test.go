package resolver

import (
	"errors"
	"lox/internal/ast"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"testing"
)

func parse(t *testing.T, input string) []ast.Statement {
	t.Helper()
	tokens, err := lexer.New(input).ScanTokens()
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	p := parser.New(tokens)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return program.Statements
}

func TestBlockDistances(t *testing.T) {
	stmts := parse(t, "{ var a = 1; { print a; a = 2; } }")

	locals, err := New().Resolve(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inner := stmts[0].(*ast.Block).Statements[1].(*ast.Block)
	read := inner.Statements[0].(*ast.Print).Expression
	write := inner.Statements[1].(*ast.ExpressionStatement).Expression

	if d, ok := locals[read]; !ok || d != 1 {
		t.Errorf("read: expected distance 1, got %d (found=%t)", d, ok)
	}
	if d, ok := locals[write]; !ok || d != 1 {
		t.Errorf("write: expected distance 1, got %d (found=%t)", d, ok)
	}
}

func TestGlobalsAreNotRecorded(t *testing.T) {
	stmts := parse(t, "var g = 1; print g; g = 2; fun f() { return g; }")

	locals, err := New().Resolve(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locals) != 0 {
		t.Errorf("expected no local entries, got %d", len(locals))
	}
}

func TestFunctionScopes(t *testing.T) {
	stmts := parse(t, `
fun outer() {
  var c = 0;
  fun inner() { c = c + 1; return c; }
  return inner;
}`)

	locals, err := New().Resolve(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outer := stmts[0].(*ast.Function)
	inner := outer.Body[1].(*ast.Function)
	assign := inner.Body[0].(*ast.ExpressionStatement).Expression.(*ast.Assign)
	read := assign.Value.(*ast.Binary).Left
	ret := inner.Body[1].(*ast.Return).Value
	returnInner := outer.Body[2].(*ast.Return).Value

	tests := []struct {
		name     string
		expr     ast.Expression
		distance int
	}{
		{"assign captured", assign, 1},
		{"read captured", read, 1},
		{"return captured", ret, 1},
		{"return sibling function", returnInner, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := locals[tt.expr]
			if !ok {
				t.Fatalf("expected an entry")
			}
			if d != tt.distance {
				t.Errorf("expected distance %d, got %d", tt.distance, d)
			}
		})
	}
}

func TestParametersResolveAtDistanceZero(t *testing.T) {
	stmts := parse(t, "fun id(x) { return x; }")

	locals, err := New().Resolve(stmts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ret := stmts[0].(*ast.Function).Body[0].(*ast.Return).Value
	if d, ok := locals[ret]; !ok || d != 0 {
		t.Errorf("expected distance 0, got %d (found=%t)", d, ok)
	}
}

func TestResolutionErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		messages []string
	}{
		{"local self reference", "{ var a = a; }", []string{
			"line 1 at 'a' Can't read local variable in its own initializer.",
		}},
		{"global self reference", "var a = a;", []string{
			"line 1 at 'a' Can't read local variable in its own initializer.",
		}},
		{"top-level return", "return 1;", []string{
			"line 1 at 'return' Can't return from top-level code.",
		}},
		{"all errors are reported", "{ var a = a; }\nreturn;\n{ var b = b; }", []string{
			"line 1 at 'a' Can't read local variable in its own initializer.",
			"line 2 at 'return' Can't return from top-level code.",
			"line 3 at 'b' Can't read local variable in its own initializer.",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Resolve(parse(t, tt.input))
			if err == nil {
				t.Fatalf("expected errors")
			}
			joined, ok := err.(interface{ Unwrap() []error })
			if !ok {
				t.Fatalf("expected joined errors, got %T", err)
			}
			errs := joined.Unwrap()
			if len(errs) != len(tt.messages) {
				t.Fatalf("expected %d errors, got %v", len(tt.messages), errs)
			}
			for i, e := range errs {
				var rtErr *object.RuntimeError
				if !errors.As(e, &rtErr) {
					t.Errorf("error %d: expected RuntimeError, got %T", i, e)
				}
				if e.Error() != tt.messages[i] {
					t.Errorf("error %d: expected %q, got %q", i, tt.messages[i], e.Error())
				}
			}
		})
	}
}

func TestLegalSelfReferences(t *testing.T) {
	tests := []string{
		"var a = 1; var a = a;",
		"var a = 1; { var b = a; }",
		"{ var a = 1; { var b = a; } }",
		"fun f() { return f; }",
		"fun f() { return 1; } { fun g() { return g; } }",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := New().Resolve(parse(t, input)); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGlobalsPersistAcrossCalls(t *testing.T) {
	r := New()
	if _, err := r.Resolve(parse(t, "var a = 1;")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Resolve(parse(t, "var a = a + 1;")); err != nil {
		t.Errorf("a global from an earlier call must stay readable: %v", err)
	}
}
