package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Expression is an immutable parsed representation of a property source
// string. Identical source always parses to a structurally identical tree,
// which makes process-wide caching safe (see Cached).
type Expression struct {
	source   string
	root     Node // nil for an empty (no-op) expression
	template bool
	symbols  []string
}

// Source returns the original source text.
func (e *Expression) Source() string { return e.source }

// Root returns the root of the parsed operator tree, or nil for a no-op.
func (e *Expression) Root() Node { return e.root }

// IsEmpty reports whether this is the no-op expression (empty source).
// An empty expression evaluates to nil and means "omit this property".
func (e *Expression) IsEmpty() bool { return e.root == nil }

// IsTemplate reports whether this expression was parsed in template mode.
func (e *Expression) IsTemplate() bool { return e.template }

// Symbols returns the sorted set of identifier roots the expression reads.
// Function names are not symbols; for dotted paths only the root is
// reported ("parent.width" reads "parent").
func (e *Expression) Symbols() []string { return e.symbols }

// ReadsSymbol reports whether the expression reads the given root symbol.
func (e *Expression) ReadsSymbol(name string) bool {
	for _, s := range e.symbols {
		if s == name {
			return true
		}
	}
	return false
}

// Parser implements a recursive descent parser for property expressions
// with standard C-family operator precedence.
type Parser struct {
	lexer   *Lexer
	source  string
	current Token
	peek    Token
}

// NewParser creates a parser for the given source.
func NewParser(source string) *Parser {
	p := &Parser{
		lexer:  NewLexer(source),
		source: source,
	}
	p.current = p.lexer.Next()
	p.peek = p.lexer.Next()
	return p
}

// Parse parses source in expression mode. Empty source (including
// comment/whitespace-only source) yields the no-op expression.
func Parse(source string) (*Expression, error) {
	p := NewParser(source)

	if p.current.Type == TokenEOF {
		if err := p.lexer.Err(); err != nil {
			return nil, err
		}
		return &Expression{source: source}, nil
	}

	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, p.errorf("unexpected trailing token %s", p.current.Type)
	}
	if err := p.lexer.Err(); err != nil {
		return nil, err
	}

	return &Expression{source: source, root: root, symbols: collectSymbols(root)}, nil
}

// ParseTemplate parses source in template mode: the whole string is a
// literal unless it embeds {...} blocks, each of which is parsed with the
// expression grammar. The final value is the concatenation of literal
// segments and stringified block results, left to right.
func ParseTemplate(source string) (*Expression, error) {
	if source == "" {
		return &Expression{source: source, template: true}, nil
	}

	var segments []Segment
	var literal strings.Builder
	i := 0
	for i < len(source) {
		c := source[i]
		if c != '{' {
			literal.WriteByte(c)
			i++
			continue
		}

		end, err := findBlockEnd(source, i)
		if err != nil {
			return nil, err
		}
		if literal.Len() > 0 {
			segments = append(segments, Segment{Literal: literal.String()})
			literal.Reset()
		}
		inner, err := Parse(source[i+1 : end])
		if err != nil {
			return nil, fmt.Errorf("in expression block at offset %d: %w", i, err)
		}
		if !inner.IsEmpty() {
			segments = append(segments, Segment{Expr: inner.root})
		}
		i = end + 1
	}
	if literal.Len() > 0 {
		segments = append(segments, Segment{Literal: literal.String()})
	}

	root := &Template{Segments: segments, Position: Position{Line: 1, Column: 1}}
	return &Expression{source: source, root: root, template: true, symbols: collectSymbols(root)}, nil
}

// findBlockEnd locates the '}' closing the block opened at start,
// skipping over quoted strings inside the block.
func findBlockEnd(source string, start int) (int, error) {
	var quote byte
	for i := start + 1; i < len(source); i++ {
		c := source[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '}':
			return i, nil
		}
	}
	return 0, &ParseError{
		Pos:     Position{Line: 1, Column: start + 1, Offset: start},
		Msg:     "unterminated expression block",
		Snippet: snippetAt(source, Position{Line: 1, Column: start + 1}),
	}
}

// Operator binding power. Higher values bind more tightly.
var precedence = map[TokenType]int{
	TokenCoalesce: 1,
	TokenOr:       2,
	TokenAnd:      3,
	TokenEq:       4,
	TokenNotEq:    4,
	TokenLt:       5,
	TokenLtEq:     5,
	TokenGt:       5,
	TokenGtEq:     5,
	TokenPlus:     6,
	TokenMinus:    6,
	TokenStar:     7,
	TokenSlash:    7,
	TokenMod:      7,
}

// binaryPrecedence returns the binding power of an operator AST node.
// Used by the printer to decide where parentheses are required.
func binaryPrecedence(op string) int {
	switch op {
	case "??":
		return 1
	case "||":
		return 2
	case "&&":
		return 3
	case "==", "!=":
		return 4
	case "<", "<=", ">", ">=":
		return 5
	case "+", "-":
		return 6
	case "*", "/", "%":
		return 7
	default:
		return 0
	}
}

func (p *Parser) advance() {
	p.current = p.peek
	p.peek = p.lexer.Next()
}

func (p *Parser) position() Position {
	return Position{Line: p.current.Line, Column: p.current.Column, Offset: p.current.StartPos}
}

func (p *Parser) errorf(format string, args ...any) error {
	if lexErr := p.lexer.Err(); lexErr != nil {
		return lexErr
	}
	return newParseError(p.source, p.position(), fmt.Sprintf(format, args...))
}

func (p *Parser) expect(typ TokenType) error {
	if p.current.Type != typ {
		return p.errorf("expected %s, got %s", typ, p.current.Type)
	}
	p.advance()
	return nil
}

// parseExpression parses a full expression including the ternary operator,
// which has the lowest precedence and associates to the right.
func (p *Parser) parseExpression() (Node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenQuestion {
		return cond, nil
	}

	pos := p.position()
	p.advance()
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	els, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Conditional{Cond: cond, Then: then, Else: els, Position: pos}, nil
}

// parseBinary parses binary operator chains at or above minPrec,
// associating to the left.
func (p *Parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		prec, ok := precedence[p.current.Type]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := p.current
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &Binary{
			Op:       binaryOpLiteral(op.Type),
			Left:     left,
			Right:    right,
			Position: Position{Line: op.Line, Column: op.Column, Offset: op.StartPos},
		}
	}
}

func binaryOpLiteral(typ TokenType) string {
	switch typ {
	case TokenCoalesce:
		return "??"
	case TokenOr:
		return "||"
	case TokenAnd:
		return "&&"
	case TokenEq:
		return "=="
	case TokenNotEq:
		return "!="
	case TokenLt:
		return "<"
	case TokenLtEq:
		return "<="
	case TokenGt:
		return ">"
	case TokenGtEq:
		return ">="
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenMod:
		return "%"
	default:
		return "?"
	}
}

// parseUnary parses prefix operators, which nest: !!x, --x.
func (p *Parser) parseUnary() (Node, error) {
	switch p.current.Type {
	case TokenBang, TokenMinus:
		pos := p.position()
		op := p.current.Literal
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand, Position: pos}, nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary followed by any chain of .member accesses.
func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current.Type == TokenDot {
		pos := p.position()
		p.advance()
		if p.current.Type != TokenIdent {
			return nil, p.errorf("expected member name after '.', got %s", p.current.Type)
		}
		node = &Member{Base: node, Name: p.current.Literal, Position: pos}
		p.advance()
	}
	return node, nil
}

// parsePrimary parses literals, identifiers, calls, and groupings.
func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current
	pos := p.position()

	switch tok.Type {
	case TokenNumber, TokenPercent:
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf("malformed numeric literal %q", tok.Literal)
		}
		p.advance()
		return &NumberLit{Value: f, IsPercent: tok.Type == TokenPercent, Position: pos}, nil

	case TokenString:
		p.advance()
		return &StringLit{Value: tok.Literal, Position: pos}, nil

	case TokenColor:
		c, err := ParseHexColor(tok.Literal)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		p.advance()
		return &ColorLit{Value: c, Position: pos}, nil

	case TokenIdent:
		switch tok.Literal {
		case "true":
			p.advance()
			return &BoolLit{Value: true, Position: pos}, nil
		case "false":
			p.advance()
			return &BoolLit{Value: false, Position: pos}, nil
		}
		p.advance()
		if p.current.Type == TokenLParen {
			return p.parseCall(tok.Literal, pos)
		}
		return &Ident{Name: tok.Literal, Position: pos}, nil

	case TokenLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenEOF:
		return nil, p.errorf("unexpected end of expression")

	default:
		return nil, p.errorf("unexpected token %s", tok.Type)
	}
}

// parseCall parses the argument list of name(...). The name token has
// already been consumed and current is the opening paren.
func (p *Parser) parseCall(name string, pos Position) (Node, error) {
	p.advance() // consume '('

	var args []Node
	if p.current.Type != TokenRParen {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current.Type != TokenComma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return &Call{Name: name, Args: args, Position: pos}, nil
}

// collectSymbols walks the tree gathering root identifier names.
func collectSymbols(root Node) []string {
	seen := map[string]bool{}
	var walk func(Node)
	walk = func(n Node) {
		switch t := n.(type) {
		case *Ident:
			seen[t.Name] = true
		case *Member:
			walk(t.Base)
		case *Unary:
			walk(t.Operand)
		case *Binary:
			walk(t.Left)
			walk(t.Right)
		case *Conditional:
			walk(t.Cond)
			walk(t.Then)
			walk(t.Else)
		case *Call:
			for _, a := range t.Args {
				walk(a)
			}
		case *Template:
			for _, s := range t.Segments {
				if s.Expr != nil {
					walk(s.Expr)
				}
			}
		}
	}
	if root != nil {
		walk(root)
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
