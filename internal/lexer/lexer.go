package lexer

import (
	"errors"
	"fmt"
	"lox/internal/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error is a lexical error. Scanning continues past it so a single pass
// reports every bad character in the source.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
	line         int

	errors []error
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// ScanTokens consumes the whole input. The returned slice always ends with
// an EOF token, even when errors were found; err joins every *Error seen.
func (l *Lexer) ScanTokens() ([]token.Token, error) {
	tokens := make([]token.Token, 0)
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, errors.Join(l.errors...)
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '=':
		tok = l.handleCompoundToken(token.ASSIGN, '=', token.EQ)
	case '!':
		tok = l.handleCompoundToken(token.BANG, '=', token.NOT_EQ)
	case '<':
		tok = l.handleCompoundToken(token.LT, '=', token.LT_EQ)
	case '>':
		tok = l.handleCompoundToken(token.GT, '=', token.GT_EQ)
	case '+':
		tok = l.newToken(token.PLUS)
	case '-':
		tok = l.newToken(token.MINUS)
	case '*':
		tok = l.newToken(token.ASTERISK)
	case '/':
		tok = l.newToken(token.SLASH)
	case ';':
		tok = l.newToken(token.SEMICOLON)
	case ',':
		tok = l.newToken(token.COMMA)
	case '.':
		tok = l.newToken(token.PERIOD)
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	case '{':
		tok = l.newToken(token.LBRACE)
	case '}':
		tok = l.newToken(token.RBRACE)
	case '"':
		return l.readString()
	case 0:
		return token.Token{Type: token.EOF, Lexeme: "", Line: l.line}
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Line: l.line}
		} else if isDigit(l.ch) {
			return l.readNumber()
		}
		l.addError("Unexpected character.")
		tok = l.newToken(token.ILLEGAL)
	}

	l.readChar()
	return tok
}

func (l *Lexer) handleCompoundToken(t token.TokenType, ch1 rune, t1 token.TokenType) token.Token {
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		return token.Token{Type: t1, Lexeme: string(first) + string(l.ch), Line: l.line}
	}
	return l.newToken(t)
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.readChar()
		case '\n':
			l.line++
			l.readChar()
		case '/':
			if l.peekChar() == '/' {
				l.skipToLineEnd()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipToLineEnd() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// readIdentifier returns the substring (bytes) covering the identifier runes
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads an integer part and an optional fraction. A trailing '.'
// without digits is left for the next token.
func (l *Lexer) readNumber() token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.addError(fmt.Sprintf("Invalid number '%s'.", lexeme))
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Line: l.line}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: value, Line: l.line}
}

// readString assumes l.ch is the opening quote. Strings may span lines.
func (l *Lexer) readString() token.Token {
	var result strings.Builder
	start := l.position
	startLine := l.line

	l.readChar() // consume the opening `"`
	for l.ch != '"' {
		if l.ch == 0 {
			l.addError("Unterminated string.")
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: l.line}
		}
		if l.ch == '\n' {
			l.line++
		}
		if l.ch == '\\' {
			l.readChar() // Move to the escaped character
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case '\\':
				result.WriteRune('\\')
			case '"':
				result.WriteRune('"')
			case 0:
				continue
			default:
				result.WriteRune('\\')
				result.WriteRune(l.ch)
			}
		} else {
			result.WriteRune(l.ch)
		}
		l.readChar()
	}
	l.readChar() // consume the closing `"`

	return token.Token{
		Type:    token.STRING,
		Lexeme:  l.input[start:l.position],
		Literal: result.String(),
		Line:    startLine,
	}
}

func (l *Lexer) newToken(tokenType token.TokenType) token.Token {
	return token.Token{Type: tokenType, Lexeme: string(l.ch), Line: l.line}
}

func (l *Lexer) addError(message string) {
	l.errors = append(l.errors, &Error{Line: l.line, Message: message})
}

// Unicode-aware helpers
func isLetter(ch rune) bool {
	// Letters, underscore, and categories like Letter and Mark to support identifiers like café,变量
	return ch == '_' || unicode.IsLetter(ch) || unicode.Is(unicode.Mn, ch) || unicode.Is(unicode.Mc, ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
