package expr

import (
	"strings"
)

// String returns a canonical source form of the expression. Reparsing the
// printed form yields a structurally identical tree.
func (e *Expression) String() string {
	if e.root == nil {
		return ""
	}
	if e.template {
		return printTemplate(e.root.(*Template))
	}
	var sb strings.Builder
	printNode(&sb, e.root, 0)
	return sb.String()
}

// printNode writes the canonical form of n. parentPrec is the binding
// power of the enclosing operator; sub-expressions binding less tightly
// are parenthesized.
func printNode(sb *strings.Builder, n Node, parentPrec int) {
	switch t := n.(type) {
	case *NumberLit:
		sb.WriteString(formatNumber(t.Value))
		if t.IsPercent {
			sb.WriteByte('%')
		}

	case *BoolLit:
		if t.Value {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}

	case *StringLit:
		sb.WriteString(quoteString(t.Value))

	case *ColorLit:
		sb.WriteString(t.Value.String())

	case *Ident:
		sb.WriteString(t.Name)

	case *Member:
		printNode(sb, t.Base, postfixPrec)
		sb.WriteByte('.')
		sb.WriteString(t.Name)

	case *Unary:
		sb.WriteString(t.Op)
		printNode(sb, t.Operand, unaryPrec)

	case *Binary:
		prec := binaryPrecedence(t.Op)
		if prec < parentPrec {
			sb.WriteByte('(')
		}
		printNode(sb, t.Left, prec)
		sb.WriteByte(' ')
		sb.WriteString(t.Op)
		sb.WriteByte(' ')
		// Left-associative: the right child needs parens at equal precedence.
		printNode(sb, t.Right, prec+1)
		if prec < parentPrec {
			sb.WriteByte(')')
		}

	case *Conditional:
		if parentPrec > 0 {
			sb.WriteByte('(')
		}
		printNode(sb, t.Cond, 1)
		sb.WriteString(" ? ")
		printNode(sb, t.Then, 0)
		sb.WriteString(" : ")
		printNode(sb, t.Else, 0)
		if parentPrec > 0 {
			sb.WriteByte(')')
		}

	case *Call:
		sb.WriteString(t.Name)
		sb.WriteByte('(')
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			printNode(sb, arg, 0)
		}
		sb.WriteByte(')')
	}
}

// Precedence levels above all binary operators.
const (
	unaryPrec   = 8
	postfixPrec = 9
)

func printTemplate(t *Template) string {
	var sb strings.Builder
	for _, seg := range t.Segments {
		if seg.Expr != nil {
			sb.WriteByte('{')
			printNode(&sb, seg.Expr, 0)
			sb.WriteByte('}')
			continue
		}
		sb.WriteString(seg.Literal)
	}
	return sb.String()
}

// quoteString renders a single-quoted string literal with escapes.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString("\\'")
		case '\\':
			sb.WriteString("\\\\")
		case '\n':
			sb.WriteString("\\n")
		case '\t':
			sb.WriteString("\\t")
		case '\r':
			sb.WriteString("\\r")
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
