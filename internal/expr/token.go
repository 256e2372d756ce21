package expr

import "fmt"

// TokenType identifies the kind of a lexed token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenNumber  // 12, 3.5
	TokenPercent // 50% (numeric literal with a % suffix)
	TokenString  // 'abc' or "abc"
	TokenColor   // #fff, #ff0000cc
	TokenIdent   // foo, true, auto

	// Operators
	TokenPlus     // +
	TokenMinus    // -
	TokenStar     // *
	TokenSlash    // /
	TokenMod      // %
	TokenBang     // !
	TokenEq       // ==
	TokenNotEq    // !=
	TokenLt       // <
	TokenLtEq     // <=
	TokenGt       // >
	TokenGtEq     // >=
	TokenAnd      // &&
	TokenOr       // ||
	TokenCoalesce // ??
	TokenQuestion // ?
	TokenColon    // :
	TokenDot      // .
	TokenComma    // ,
	TokenLParen   // (
	TokenRParen   // )
)

var tokenNames = map[TokenType]string{
	TokenEOF:      "EOF",
	TokenError:    "error",
	TokenNumber:   "number",
	TokenPercent:  "percent",
	TokenString:   "string",
	TokenColor:    "color",
	TokenIdent:    "identifier",
	TokenPlus:     "'+'",
	TokenMinus:    "'-'",
	TokenStar:     "'*'",
	TokenSlash:    "'/'",
	TokenMod:      "'%'",
	TokenBang:     "'!'",
	TokenEq:       "'=='",
	TokenNotEq:    "'!='",
	TokenLt:       "'<'",
	TokenLtEq:     "'<='",
	TokenGt:       "'>'",
	TokenGtEq:     "'>='",
	TokenAnd:      "'&&'",
	TokenOr:       "'||'",
	TokenCoalesce: "'??'",
	TokenQuestion: "'?'",
	TokenColon:    "':'",
	TokenDot:      "'.'",
	TokenComma:    "','",
	TokenLParen:   "'('",
	TokenRParen:   "')'",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a single lexical unit of an expression source string.
type Token struct {
	Type     TokenType
	Literal  string
	Line     int // 1-based
	Column   int // 1-based
	StartPos int // byte offset into the source
}

// Position identifies a location in expression source for error reporting.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
