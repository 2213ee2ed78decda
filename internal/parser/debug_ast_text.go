package parser

import (
	"fmt"
	"lox/internal/ast"
	"reflect"
	"strings"
)

// RenderASTAsText produces an indented dump of the AST. Expressions are
// rendered in parenthesized prefix form, e.g. (* (- 123) (group 45.67)),
// which makes precedence and grouping explicit.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(RenderASTAsText(s, 0))
		}
		return sb.String()

	case *ast.Var:
		if n.Initializer == nil {
			return fmt.Sprintf("%s(var %s)", sp, n.Name.Lexeme)
		}
		return fmt.Sprintf("%s(var %s %s)", sp, n.Name.Lexeme, RenderASTAsText(n.Initializer, 0))

	case *ast.Print:
		return fmt.Sprintf("%s(print %s)", sp, RenderASTAsText(n.Expression, 0))

	case *ast.ExpressionStatement:
		return fmt.Sprintf("%s(; %s)", sp, RenderASTAsText(n.Expression, 0))

	case *ast.Return:
		if n.Value == nil {
			return sp + "(return)"
		}
		return fmt.Sprintf("%s(return %s)", sp, RenderASTAsText(n.Value, 0))

	case *ast.Break:
		return sp + "(break)"

	case *ast.Class:
		return fmt.Sprintf("%s(class %s)", sp, n.Name.Lexeme)

	case *ast.Block:
		return sp + renderBody("block", n.Statements, indent)

	case *ast.Function:
		params := []string{}
		for _, p := range n.Params {
			params = append(params, p.Lexeme)
		}
		head := fmt.Sprintf("fun %s(%s)", n.Name.Lexeme, strings.Join(params, " "))
		return sp + renderBody(head, n.Body, indent)

	case *ast.If:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s(if %s\n%s", sp, RenderASTAsText(n.Condition, 0), RenderASTAsText(n.ThenBranch, indent+1))
		if n.ElseBranch != nil {
			sb.WriteString("\n")
			sb.WriteString(RenderASTAsText(n.ElseBranch, indent+1))
		}
		sb.WriteString(")")
		return sb.String()

	case *ast.While:
		return fmt.Sprintf("%s(while %s\n%s)", sp, RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Body, indent+1))

	case *ast.Assign:
		return parenthesize("= "+n.Name.Lexeme, n.Value)

	case *ast.Binary:
		return parenthesize(n.Operator.Lexeme, n.Left, n.Right)

	case *ast.Logical:
		return parenthesize(n.Operator.Lexeme, n.Left, n.Right)

	case *ast.Unary:
		return parenthesize(n.Operator.Lexeme, n.Right)

	case *ast.Grouping:
		return parenthesize("group", n.Expression)

	case *ast.Call:
		return parenthesize("call "+RenderASTAsText(n.Callee, 0), n.Arguments...)

	case *ast.Literal:
		return ast.FormatLiteral(n.Value)

	case *ast.Variable:
		return n.Name.Lexeme

	default:
		return fmt.Sprintf("<<unknown node %T>>", node)
	}
}

func parenthesize(name string, exprs ...ast.Expression) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(name)
	for _, e := range exprs {
		sb.WriteString(" ")
		sb.WriteString(RenderASTAsText(e, 0))
	}
	sb.WriteString(")")
	return sb.String()
}

func renderBody(head string, statements []ast.Statement, indent int) string {
	var sb strings.Builder
	sb.WriteString("(" + head)
	for _, s := range statements {
		sb.WriteString("\n")
		sb.WriteString(RenderASTAsText(s, indent+1))
	}
	sb.WriteString(")")
	return sb.String()
}
