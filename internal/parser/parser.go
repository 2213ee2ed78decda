package parser

import (
	"fmt"
	"lox/internal/ast"
	"lox/internal/token"
)

const maxArguments = 255

// Error is a syntax error located at the offending token.
type Error struct {
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Token.Location(), e.Message)
}

/*
Parser grammar:

	program     => declaration* EOF
	declaration => classDecl | funDecl | varDecl | statement
	classDecl   => "class" IDENT "{" "}"
	funDecl     => "fun" IDENT "(" parameters? ")" block
	varDecl     => "var" IDENT ( "=" expression )? ";"
	statement   => exprStmt | forStmt | ifStmt | printStmt | returnStmt
	             | whileStmt | breakStmt | block
	expression  => assignment
	assignment  => IDENT "=" assignment | logic_or
	logic_or    => logic_and ( "or" logic_and )*
	logic_and   => equality ( "and" equality )*
	equality    => comparison ( ( "!=" | "==" ) comparison )*
	comparison  => term ( ( ">" | ">=" | "<" | "<=" ) term )*
	term        => factor ( ( "-" | "+" ) factor )*
	factor      => unary ( ( "/" | "*" ) unary )*
	unary       => ( "!" | "-" ) unary | call
	call        => primary ( "(" arguments? ")" )*
	primary     => NUMBER | STRING | "true" | "false" | "nil" | IDENT | "(" expression ")"
*/
type Parser struct {
	tokens  []token.Token
	current int
	errors  []error
}

func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, token.Token{Type: token.EOF, Line: line})
	}
	return &Parser{tokens: tokens}
}

func (p *Parser) Errors() []error {
	return p.errors
}

// ParseProgram parses every declaration it can. On a syntax error the
// parser records it, skips to the next statement boundary and carries on, so
// the program returned with errors is incomplete and must not be run.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}

	return program
}

func (p *Parser) declaration() (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			parseErr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			p.errors = append(p.errors, parseErr)
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUNCTION):
		return p.function()
	case p.match(token.VAR):
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) classDeclaration() ast.Statement {
	name := p.consume(token.IDENT, "Expect class name.")
	p.consume(token.LBRACE, "Expect '{' before class body.")
	p.consume(token.RBRACE, "Expect '}' after class body.")
	return &ast.Class{Name: name}
}

func (p *Parser) function() *ast.Function {
	name := p.consume(token.IDENT, "Expect function name.")
	p.consume(token.LPAREN, "Expect '(' after function name.")

	params := []token.Token{}
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxArguments {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArguments))
			}
			params = append(params, p.consume(token.IDENT, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Expect ')' after parameters.")

	p.consume(token.LBRACE, "Expect '{' before function body.")
	body := p.block()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Statement {
	name := p.consume(token.IDENT, "Expect variable name.")

	var initializer ast.Expression
	if p.match(token.ASSIGN) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.BREAK):
		keyword := p.previous()
		p.consume(token.SEMICOLON, "Expect ';' after 'break'.")
		return &ast.Break{Token: keyword}
	case p.match(token.LBRACE):
		return &ast.Block{Statements: p.block()}
	}
	return p.expressionStatement()
}

// forStatement desugars into a while loop wrapped in blocks so the
// initializer gets its own scope.
func (p *Parser) forStatement() ast.Statement {
	p.consume(token.LPAREN, "Expect '(' after 'for'.")

	var initializer ast.Statement
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expression
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expression
	if !p.check(token.RPAREN) {
		increment = p.expression()
	}
	p.consume(token.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Statements: []ast.Statement{body, &ast.ExpressionStatement{Expression: increment}}}
	}
	if condition == nil {
		condition = &ast.Literal{Value: true}
	}
	body = &ast.While{Condition: condition, Body: body}
	if initializer != nil {
		body = &ast.Block{Statements: []ast.Statement{initializer, body}}
	}
	return body
}

func (p *Parser) ifStatement() ast.Statement {
	p.consume(token.LPAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RPAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) printStatement() ast.Statement {
	value := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.Print{Expression: value}
}

func (p *Parser) returnStatement() ast.Statement {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() ast.Statement {
	p.consume(token.LPAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RPAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Condition: condition, Body: body}
}

func (p *Parser) block() []ast.Statement {
	statements := []ast.Statement{}
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(token.RBRACE, "Expect '}' after block.")
	return statements
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.ExpressionStatement{Expression: expr}
}

func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expression {
	expr := p.or()

	if p.match(token.ASSIGN) {
		equals := p.previous()
		value := p.assignment()

		if variable, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: variable.Name, Value: value}
		}
		// reported without unwinding: the parser is not confused
		p.report(equals, "Invalid assignment target.")
	}

	return expr
}

func (p *Parser) or() ast.Expression {
	expr := p.and()
	for p.match(token.OR) {
		operator := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()
	for p.match(token.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expression {
	return p.binary(p.comparison, token.NOT_EQ, token.EQ)
}

func (p *Parser) comparison() ast.Expression {
	return p.binary(p.term, token.GT, token.GT_EQ, token.LT, token.LT_EQ)
}

func (p *Parser) term() ast.Expression {
	return p.binary(p.factor, token.MINUS, token.PLUS)
}

func (p *Parser) factor() ast.Expression {
	return p.binary(p.unary, token.SLASH, token.ASTERISK)
}

// binary parses a left-associative chain of operands joined by any of the
// given operators.
func (p *Parser) binary(operand func() ast.Expression, operators ...token.TokenType) ast.Expression {
	expr := operand()
	for p.match(operators...) {
		operator := p.previous()
		right := operand()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.BANG, token.MINUS) {
		operator := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: operator, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()
	for p.match(token.LPAREN) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	arguments := []ast.Expression{}
	if !p.check(token.RPAREN) {
		for {
			if len(arguments) >= maxArguments {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArguments))
			}
			arguments = append(arguments, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RPAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: arguments}
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}
	case p.match(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous().Literal}
	case p.match(token.IDENT):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LPAREN):
		expr := p.expression()
		p.consume(token.RPAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expression: expr}
	}

	panic(&Error{Token: p.peek(), Message: "Expect expression."})
}

// synchronize discards tokens until it reaches what is probably the start
// of the next statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}

		switch p.peek().Type {
		case token.CLASS, token.FUNCTION, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN, token.BREAK:
			return
		}

		p.advance()
	}
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, tokenType := range types {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tokenType token.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) consume(tokenType token.TokenType, message string) token.Token {
	if p.check(tokenType) {
		return p.advance()
	}
	panic(&Error{Token: p.peek(), Message: message})
}

func (p *Parser) report(tok token.Token, message string) {
	p.errors = append(p.errors, &Error{Token: tok, Message: message})
}
