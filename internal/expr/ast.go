package expr

// Node is the interface implemented by all AST nodes.
type Node interface {
	node()         // marker method to ensure type safety
	Pos() Position // returns the source position of the node
}

// NumberLit is a decimal numeric literal. IsPercent tags literals written
// with a '%' suffix; they resolve against a reference dimension at
// evaluation time, not parse time.
type NumberLit struct {
	Value     float64
	IsPercent bool
	Position  Position
}

// BoolLit is a true/false literal.
type BoolLit struct {
	Value    bool
	Position Position
}

// StringLit is a quoted string literal.
type StringLit struct {
	Value    string
	Position Position
}

// ColorLit is a #-prefixed hex color literal.
type ColorLit struct {
	Value    Color
	Position Position
}

// Ident is a bare identifier resolved through the scope chain.
type Ident struct {
	Name     string
	Position Position
}

// Member is a dotted member access: Base.Name.
type Member struct {
	Base     Node
	Name     string
	Position Position
}

// Unary is a prefix operator application: !x or -x.
type Unary struct {
	Op       string
	Operand  Node
	Position Position
}

// Binary is an infix operator application.
type Binary struct {
	Op          string
	Left, Right Node
	Position    Position
}

// Conditional is the ternary operator: Cond ? Then : Else.
type Conditional struct {
	Cond, Then, Else Node
	Position         Position
}

// Call is a function invocation: Name(Args...).
type Call struct {
	Name     string
	Args     []Node
	Position Position
}

// Template is the root of a template-mode parse: literal text with
// embedded {...} expression blocks, concatenated left to right.
type Template struct {
	Segments []Segment
	Position Position
}

// Segment is one piece of a Template: either literal text or an
// embedded expression, never both.
type Segment struct {
	Literal string
	Expr    Node
}

func (*NumberLit) node()   {}
func (*BoolLit) node()     {}
func (*StringLit) node()   {}
func (*ColorLit) node()    {}
func (*Ident) node()       {}
func (*Member) node()      {}
func (*Unary) node()       {}
func (*Binary) node()      {}
func (*Conditional) node() {}
func (*Call) node()        {}
func (*Template) node()    {}

func (n *NumberLit) Pos() Position   { return n.Position }
func (n *BoolLit) Pos() Position     { return n.Position }
func (n *StringLit) Pos() Position   { return n.Position }
func (n *ColorLit) Pos() Position    { return n.Position }
func (n *Ident) Pos() Position       { return n.Position }
func (n *Member) Pos() Position      { return n.Position }
func (n *Unary) Pos() Position       { return n.Position }
func (n *Binary) Pos() Position      { return n.Position }
func (n *Conditional) Pos() Position { return n.Position }
func (n *Call) Pos() Position        { return n.Position }
func (n *Template) Pos() Position    { return n.Position }
