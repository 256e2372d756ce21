package expr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes a single expression source string.
type Lexer struct {
	source  string
	pos     int  // current position in source
	readPos int  // next position to read
	ch      rune // current character
	line    int  // current line (1-based)
	column  int  // current column (1-based)

	// Track the start position of the current token
	tokenLine     int
	tokenColumn   int
	tokenStartPos int

	err *ParseError // first lexing error, if any
}

// NewLexer creates a new Lexer for the given source.
func NewLexer(source string) *Lexer {
	l := &Lexer{
		source: source,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Err returns the first error encountered during lexing, or nil.
func (l *Lexer) Err() *ParseError {
	return l.err
}

// readChar advances to the next character in the source.
func (l *Lexer) readChar() {
	prevWasNewline := l.ch == '\n'

	if l.readPos >= len(l.source) {
		l.ch = 0 // EOF
		l.pos = l.readPos
		if prevWasNewline {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		return
	}

	r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size

	if prevWasNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.readPos:])
	return r
}

// startToken marks the beginning of a new token.
func (l *Lexer) startToken() {
	l.tokenLine = l.line
	l.tokenColumn = l.column
	l.tokenStartPos = l.pos
}

// makeToken creates a token with the current start position.
func (l *Lexer) makeToken(typ TokenType, literal string) Token {
	return Token{
		Type:     typ,
		Literal:  literal,
		Line:     l.tokenLine,
		Column:   l.tokenColumn,
		StartPos: l.tokenStartPos,
	}
}

// position returns the current token's Position for error reporting.
func (l *Lexer) position() Position {
	return Position{
		Line:   l.tokenLine,
		Column: l.tokenColumn,
		Offset: l.tokenStartPos,
	}
}

// errorToken records a lexing error and returns an error token.
func (l *Lexer) errorToken(msg string) Token {
	if l.err == nil {
		l.err = newParseError(l.source, l.position(), msg)
	}
	return l.makeToken(TokenError, string(l.ch))
}

// skipWhitespaceAndComments skips spaces, newlines, and // line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

// Next returns the next token from the source.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()
	l.startToken()

	switch l.ch {
	case 0:
		return l.makeToken(TokenEOF, "")

	case '(':
		l.readChar()
		return l.makeToken(TokenLParen, "(")

	case ')':
		l.readChar()
		return l.makeToken(TokenRParen, ")")

	case ',':
		l.readChar()
		return l.makeToken(TokenComma, ",")

	case '.':
		// A leading dot on a digit is a numeric literal (.5)
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		l.readChar()
		return l.makeToken(TokenDot, ".")

	case '+':
		l.readChar()
		return l.makeToken(TokenPlus, "+")

	case '-':
		l.readChar()
		return l.makeToken(TokenMinus, "-")

	case '*':
		l.readChar()
		return l.makeToken(TokenStar, "*")

	case '/':
		l.readChar()
		return l.makeToken(TokenSlash, "/")

	case '%':
		l.readChar()
		return l.makeToken(TokenMod, "%")

	case '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.makeToken(TokenNotEq, "!=")
		}
		return l.makeToken(TokenBang, "!")

	case '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.makeToken(TokenEq, "==")
		}
		return l.errorToken("unexpected '='; did you mean '=='?")

	case '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.makeToken(TokenLtEq, "<=")
		}
		return l.makeToken(TokenLt, "<")

	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return l.makeToken(TokenGtEq, ">=")
		}
		return l.makeToken(TokenGt, ">")

	case '&':
		l.readChar()
		if l.ch == '&' {
			l.readChar()
			return l.makeToken(TokenAnd, "&&")
		}
		return l.errorToken("unexpected '&'; did you mean '&&'?")

	case '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			return l.makeToken(TokenOr, "||")
		}
		return l.errorToken("unexpected '|'; did you mean '||'?")

	case '?':
		l.readChar()
		if l.ch == '?' {
			l.readChar()
			return l.makeToken(TokenCoalesce, "??")
		}
		return l.makeToken(TokenQuestion, "?")

	case ':':
		l.readChar()
		return l.makeToken(TokenColon, ":")

	case '\'', '"':
		return l.readString(l.ch)

	case '#':
		return l.readColor()

	default:
		if isDigit(l.ch) {
			return l.readNumber()
		}
		if isIdentStart(l.ch) {
			return l.readIdent()
		}
		return l.errorToken("unexpected character '" + string(l.ch) + "'")
	}
}

// readString reads a quoted string with escape sequences.
// Both single and double quotes are accepted; the opening quote terminates.
func (l *Lexer) readString(quote rune) Token {
	l.readChar() // consume opening quote

	var sb strings.Builder
	for l.ch != quote {
		if l.ch == 0 {
			return l.errorToken("unterminated string literal")
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '\\':
				sb.WriteRune('\\')
			case '\'':
				sb.WriteRune('\'')
			case '"':
				sb.WriteRune('"')
			case 0:
				return l.errorToken("unterminated string literal")
			default:
				return l.errorToken("invalid escape sequence '\\" + string(l.ch) + "'")
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	return l.makeToken(TokenString, sb.String())
}

// readNumber reads a decimal numeric literal, optionally followed by a
// '%' suffix which tags it as a percentage literal. The '%' must be
// adjacent to the digits: "50%" is a percentage, "50 % x" is a remainder.
func (l *Lexer) readNumber() Token {
	start := l.pos
	sawDot := false
	for isDigit(l.ch) || (l.ch == '.' && !sawDot && isDigit(l.peekChar())) {
		if l.ch == '.' {
			sawDot = true
		}
		l.readChar()
	}
	literal := l.source[start:l.pos]
	if l.ch == '.' {
		return l.errorToken("malformed numeric literal")
	}
	if l.ch == '%' {
		l.readChar()
		return l.makeToken(TokenPercent, literal)
	}
	return l.makeToken(TokenNumber, literal)
}

// readColor reads a #-prefixed hex color literal.
func (l *Lexer) readColor() Token {
	l.readChar() // consume '#'
	start := l.pos
	for isHexDigit(l.ch) {
		l.readChar()
	}
	literal := l.source[start:l.pos]
	switch len(literal) {
	case 3, 4, 6, 8:
		return l.makeToken(TokenColor, literal)
	default:
		return l.errorToken("malformed color literal '#" + literal + "'")
	}
}

// readIdent reads an identifier.
func (l *Lexer) readIdent() Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.makeToken(TokenIdent, l.source[start:l.pos])
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
