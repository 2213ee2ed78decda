package lexer

import (
	"errors"
	"lox/internal/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
var ten = 10.5;

fun add(x, y) {
  return x + y;
}

var result = add(five, ten);
!-/*5;
5 < 10 > 5;
5 <= 10 >= 5;
// comment
if (5 != 10) { print "foo bar"; } else { break; }
10 == 10; // comment at eol
true and false or nil;
class Foo {}
while (x) for
`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
		expectedLine   int
	}{
		{token.VAR, "var", 1},
		{token.IDENT, "five", 1},
		{token.ASSIGN, "=", 1},
		{token.NUMBER, "5", 1},
		{token.SEMICOLON, ";", 1},
		{token.VAR, "var", 2},
		{token.IDENT, "ten", 2},
		{token.ASSIGN, "=", 2},
		{token.NUMBER, "10.5", 2},
		{token.SEMICOLON, ";", 2},
		{token.FUNCTION, "fun", 4},
		{token.IDENT, "add", 4},
		{token.LPAREN, "(", 4},
		{token.IDENT, "x", 4},
		{token.COMMA, ",", 4},
		{token.IDENT, "y", 4},
		{token.RPAREN, ")", 4},
		{token.LBRACE, "{", 4},
		{token.RETURN, "return", 5},
		{token.IDENT, "x", 5},
		{token.PLUS, "+", 5},
		{token.IDENT, "y", 5},
		{token.SEMICOLON, ";", 5},
		{token.RBRACE, "}", 6},
		{token.VAR, "var", 8},
		{token.IDENT, "result", 8},
		{token.ASSIGN, "=", 8},
		{token.IDENT, "add", 8},
		{token.LPAREN, "(", 8},
		{token.IDENT, "five", 8},
		{token.COMMA, ",", 8},
		{token.IDENT, "ten", 8},
		{token.RPAREN, ")", 8},
		{token.SEMICOLON, ";", 8},
		{token.BANG, "!", 9},
		{token.MINUS, "-", 9},
		{token.SLASH, "/", 9},
		{token.ASTERISK, "*", 9},
		{token.NUMBER, "5", 9},
		{token.SEMICOLON, ";", 9},
		{token.NUMBER, "5", 10},
		{token.LT, "<", 10},
		{token.NUMBER, "10", 10},
		{token.GT, ">", 10},
		{token.NUMBER, "5", 10},
		{token.SEMICOLON, ";", 10},
		{token.NUMBER, "5", 11},
		{token.LT_EQ, "<=", 11},
		{token.NUMBER, "10", 11},
		{token.GT_EQ, ">=", 11},
		{token.NUMBER, "5", 11},
		{token.SEMICOLON, ";", 11},
		{token.IF, "if", 13},
		{token.LPAREN, "(", 13},
		{token.NUMBER, "5", 13},
		{token.NOT_EQ, "!=", 13},
		{token.NUMBER, "10", 13},
		{token.RPAREN, ")", 13},
		{token.LBRACE, "{", 13},
		{token.PRINT, "print", 13},
		{token.STRING, `"foo bar"`, 13},
		{token.SEMICOLON, ";", 13},
		{token.RBRACE, "}", 13},
		{token.ELSE, "else", 13},
		{token.LBRACE, "{", 13},
		{token.BREAK, "break", 13},
		{token.SEMICOLON, ";", 13},
		{token.RBRACE, "}", 13},
		{token.NUMBER, "10", 14},
		{token.EQ, "==", 14},
		{token.NUMBER, "10", 14},
		{token.SEMICOLON, ";", 14},
		{token.TRUE, "true", 15},
		{token.AND, "and", 15},
		{token.FALSE, "false", 15},
		{token.OR, "or", 15},
		{token.NIL, "nil", 15},
		{token.SEMICOLON, ";", 15},
		{token.CLASS, "class", 16},
		{token.IDENT, "Foo", 16},
		{token.LBRACE, "{", 16},
		{token.RBRACE, "}", 16},
		{token.WHILE, "while", 17},
		{token.LPAREN, "(", 17},
		{token.IDENT, "x", 17},
		{token.RPAREN, ")", 17},
		{token.FOR, "for", 17},
		{token.EOF, "", 18},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q '%q', got=%q: '%q'",
				i, tt.expectedType, tt.expectedLexeme, tok.Type, tok.Lexeme)
		}

		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q",
				i, tt.expectedLexeme, tok.Lexeme)
		}

		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong for %q. expected=%d, got=%d",
				i, tok.Lexeme, tt.expectedLine, tok.Line)
		}
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{`123`, 123.0},
		{`0.25`, 0.25},
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\tb\n"`, "a\tb\n"},
		{`"say \"hi\""`, `say "hi"`},
		{"\"two\nlines\"", "two\nlines"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := New(tt.input).ScanTokens()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tokens) != 2 {
				t.Fatalf("expected literal and EOF, got %v", tokens)
			}
			if tokens[0].Literal != tt.expected {
				t.Errorf("expected literal %#v, got %#v", tt.expected, tokens[0].Literal)
			}
		})
	}
}

func TestTrailingDotIsSeparateToken(t *testing.T) {
	tokens, err := New("12.").ScanTokens()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 3 || tokens[0].Lexeme != "12" || tokens[1].Type != token.PERIOD {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		messages []string
	}{
		{"unexpected character", "var a = 1 @ 2;", []string{"[line 1] Error: Unexpected character."}},
		{"unterminated string", "print \"abc\n", []string{"[line 2] Error: Unterminated string."}},
		{"several errors", "#\n$", []string{
			"[line 1] Error: Unexpected character.",
			"[line 2] Error: Unexpected character.",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := New(tt.input).ScanTokens()
			if err == nil {
				t.Fatal("expected an error")
			}
			if tokens[len(tokens)-1].Type != token.EOF {
				t.Errorf("token stream must still end in EOF")
			}

			joined, ok := err.(interface{ Unwrap() []error })
			if !ok {
				t.Fatalf("expected joined errors, got %T", err)
			}
			errs := joined.Unwrap()
			if len(errs) != len(tt.messages) {
				t.Fatalf("expected %d errors, got %d: %v", len(tt.messages), len(errs), err)
			}
			for i, e := range errs {
				var lexErr *Error
				if !errors.As(e, &lexErr) {
					t.Fatalf("expected *Error, got %T", e)
				}
				if lexErr.Error() != tt.messages[i] {
					t.Errorf("expected %q, got %q", tt.messages[i], lexErr.Error())
				}
			}
		})
	}
}
