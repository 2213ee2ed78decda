package ast

import (
	"bytes"
	"lox/internal/token"
	"strings"
)

// The base Node interface
type Node interface {
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

// Expressions

// Assign rebinds an existing variable. Like Variable, the node's pointer is
// the key the resolver uses to record the binding's scope distance.
type Assign struct {
	Name  token.Token
	Value Expression
}

func (a *Assign) expressionNode() {}
func (a *Assign) String() string  { return a.Name.Lexeme + " = " + a.Value.String() }

type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *Binary) expressionNode() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Operator.Lexeme + " " + b.Right.String() + ")"
}

type Call struct {
	Callee    Expression
	Paren     token.Token // closing paren, used to locate call errors
	Arguments []Expression
}

func (c *Call) expressionNode() {}
func (c *Call) String() string {
	args := []string{}
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

type Grouping struct {
	Expression Expression
}

func (g *Grouping) expressionNode() {}
func (g *Grouping) String() string  { return "(" + g.Expression.String() + ")" }

// Literal holds a float64, string, bool or nil.
type Literal struct {
	Value any
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string  { return FormatLiteral(l.Value) }

type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l *Logical) expressionNode() {}
func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + l.Operator.Lexeme + " " + l.Right.String() + ")"
}

type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u *Unary) expressionNode() {}
func (u *Unary) String() string  { return "(" + u.Operator.Lexeme + u.Right.String() + ")" }

type Variable struct {
	Name token.Token
}

func (v *Variable) expressionNode() {}
func (v *Variable) String() string  { return v.Name.Lexeme }

// Statements

type Block struct {
	Statements []Statement
}

func (b *Block) statementNode() {}
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

type Break struct {
	Token token.Token
}

func (b *Break) statementNode() {}
func (b *Break) String() string  { return "break;" }

// Class declares a class with no body. Calling it yields an empty instance.
type Class struct {
	Name token.Token
}

func (c *Class) statementNode() {}
func (c *Class) String() string  { return "class " + c.Name.Lexeme + " {}" }

type ExpressionStatement struct {
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) String() string  { return es.Expression.String() + ";" }

type Function struct {
	Name   token.Token
	Params []token.Token
	Body   []Statement
}

func (f *Function) statementNode() {}
func (f *Function) String() string {
	params := []string{}
	for _, p := range f.Params {
		params = append(params, p.Lexeme)
	}
	body := &Block{Statements: f.Body}
	return "fun " + f.Name.Lexeme + "(" + strings.Join(params, ", ") + ") " + body.String()
}

type If struct {
	Condition  Expression
	ThenBranch Statement
	ElseBranch Statement // nil when absent
}

func (i *If) statementNode() {}
func (i *If) String() string {
	out := "if (" + i.Condition.String() + ") " + i.ThenBranch.String()
	if i.ElseBranch != nil {
		out += " else " + i.ElseBranch.String()
	}
	return out
}

type Print struct {
	Expression Expression
}

func (p *Print) statementNode() {}
func (p *Print) String() string  { return "print " + p.Expression.String() + ";" }

type Return struct {
	Keyword token.Token
	Value   Expression // nil for a bare return
}

func (r *Return) statementNode() {}
func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

type Var struct {
	Name        token.Token
	Initializer Expression // nil when absent
}

func (v *Var) statementNode() {}
func (v *Var) String() string {
	if v.Initializer == nil {
		return "var " + v.Name.Lexeme + ";"
	}
	return "var " + v.Name.Lexeme + " = " + v.Initializer.String() + ";"
}

type While struct {
	Condition Expression
	Body      Statement
}

func (w *While) statementNode() {}
func (w *While) String() string {
	return "while (" + w.Condition.String() + ") " + w.Body.String()
}
