package layout

import (
	"github.com/exprkit/layout/internal/expr"
)

// propRef identifies one (node, property) evaluation.
type propRef struct {
	node *LayoutNode
	prop string
}

func (r propRef) String() string {
	return r.node.DebugName() + "." + r.prop
}

// evalPass tracks the set of (node, property) pairs currently being
// evaluated. Re-entering a pair means the dependency graph has a cycle;
// evaluation fails immediately instead of recursing unboundedly. The
// engine is single-threaded, so one pass per update suffices.
type evalPass struct {
	stack   []propRef
	onStack map[propRef]bool
}

func newEvalPass() *evalPass {
	return &evalPass{onStack: make(map[propRef]bool)}
}

// push registers a pair as in-progress, failing with the full dependency
// chain if it already is.
func (p *evalPass) push(ref propRef) error {
	if p.onStack[ref] {
		return &CircularReferenceError{Chain: p.chainFrom(ref)}
	}
	p.stack = append(p.stack, ref)
	p.onStack[ref] = true
	return nil
}

func (p *evalPass) pop() {
	last := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	delete(p.onStack, last)
}

// chainFrom renders the cycle starting at the first occurrence of ref and
// closing back on it.
func (p *evalPass) chainFrom(ref propRef) []string {
	start := 0
	for i, r := range p.stack {
		if r == ref {
			start = i
			break
		}
	}
	chain := make([]string, 0, len(p.stack)-start+1)
	for _, r := range p.stack[start:] {
		chain = append(chain, r.String())
	}
	return append(chain, ref.String())
}

// valueFor evaluates (and memoizes) one property of this node. Geometry
// properties without an expression fall back to derivation rules in
// frame.go. Re-entrant requests for a value still being computed fail
// with a CircularReferenceError.
func (n *LayoutNode) valueFor(prop string, pass *evalPass) (Value, error) {
	if v, ok := n.memo[prop]; ok {
		return v, nil
	}
	ref := propRef{node: n, prop: prop}
	if err := pass.push(ref); err != nil {
		return Value{}, err
	}
	defer pass.pop()

	v, err := n.computeValue(prop, pass)
	if err != nil {
		return Value{}, err
	}
	n.memo[prop] = v
	return v, nil
}

func (n *LayoutNode) computeValue(prop string, pass *evalPass) (Value, error) {
	e := n.exprs[prop]
	if e == nil || e.IsEmpty() {
		if isGeometryProp(prop) {
			f, err := n.derivedGeometry(prop, pass)
			if err != nil {
				return Value{}, err
			}
			return Number(f), nil
		}
		return Nil(), nil
	}

	ctx := &expr.Context{
		Lookup: func(name string) (Value, error) {
			return n.resolveSymbol(name, prop, pass)
		},
		Member: func(base Value, name string) (Value, bool, error) {
			return scopeMember(base, name, pass)
		},
		Funcs: n.funcRegistry(),
		PercentBase: func() (float64, error) {
			return n.percentBase(prop, pass)
		},
	}
	return expr.Eval(e, ctx, n.expectedKind(prop))
}

// expectedKind reports the kind a property's value must coerce to.
// Geometry is always numeric; other properties consult the host's table.
func (n *LayoutNode) expectedKind(prop string) ValueKind {
	if isGeometryProp(prop) {
		return KindNumber
	}
	if host := n.hostRef(); host != nil {
		if kind, ok := host.PropertyKind(n.viewKind, prop); ok {
			return kind
		}
	}
	return KindAny
}

// resolveSymbol resolves a bare identifier for an expression evaluated on
// this node. Resolution order, first match wins:
//
//  1. the node's own property expressions (memoized results);
//  2. the node's state, then constants;
//  3. derived geometry of this node (width of a node that only declares
//     left/right, and so on);
//  4. ancestor state and constants, nearest first;
//  5. the parent/previous/next keywords, as one-more-level scopes;
//  6. the host view's current property value.
//
// Cross-node expression results never propagate through ancestor lookup:
// only state and constants do.
func (n *LayoutNode) resolveSymbol(name, forProp string, pass *evalPass) (Value, error) {
	// "auto" is only meaningful while sizing width or height.
	if name == "auto" && (forProp == propWidth || forProp == propHeight) {
		f, err := n.autoDimension(forProp == propWidth, pass)
		if err != nil {
			return Value{}, err
		}
		return Number(f), nil
	}

	if e, ok := n.exprs[name]; ok && !e.IsEmpty() {
		return n.valueFor(name, pass)
	}
	if v, ok := n.state[name]; ok {
		return FromAny(v), nil
	}
	if v, ok := n.constants[name]; ok {
		return FromAny(v), nil
	}
	if isGeometryProp(name) {
		return n.valueFor(name, pass)
	}

	for p := n.parent; p != nil; p = p.parent {
		if v, ok := p.state[name]; ok {
			return FromAny(v), nil
		}
		if v, ok := p.constants[name]; ok {
			return FromAny(v), nil
		}
	}

	switch name {
	case "parent":
		return nodeScopeValue(n.parent), nil
	case "previous":
		return nodeScopeValue(n.previousSibling()), nil
	case "next":
		return nodeScopeValue(n.nextSibling()), nil
	}

	if host := n.hostRef(); host != nil {
		if v, ok := host.GetProperty(n, name); ok {
			return v, nil
		}
	}
	return Value{}, &expr.UndefinedSymbolError{Name: name}
}

// nodeScope roots a member lookup at another node: parent.width,
// previous.right. One level of dotted access is supported.
type nodeScope struct {
	node *LayoutNode
}

// nodeScopeValue wraps a node for member access; a missing node yields
// nil so expressions can recover with ?? (e.g. "parent.width ?? 320").
func nodeScopeValue(n *LayoutNode) Value {
	if n == nil {
		return Nil()
	}
	return Object(&nodeScope{node: n})
}

// scopeMember resolves member access on node scopes. Non-scope bases
// defer to the evaluator's built-in member rules.
func scopeMember(base Value, name string, pass *evalPass) (Value, bool, error) {
	ns, ok := base.Obj().(*nodeScope)
	if !ok {
		return Value{}, false, nil
	}
	t := ns.node

	if e, ok := t.exprs[name]; (ok && !e.IsEmpty()) || isGeometryProp(name) {
		v, err := t.valueFor(name, pass)
		return v, true, err
	}
	if v, ok := t.state[name]; ok {
		return FromAny(v), true, nil
	}
	if v, ok := t.constants[name]; ok {
		return FromAny(v), true, nil
	}
	if host := t.hostRef(); host != nil {
		if v, ok := host.GetProperty(t, name); ok {
			return v, true, nil
		}
	}
	return Value{}, true, &expr.UndefinedSymbolError{Name: name}
}

// defaultFuncs is the shared builtin function table.
var defaultFuncs = expr.Builtins()

// funcRegistry returns the function table for expressions in this tree.
func (n *LayoutNode) funcRegistry() map[string]expr.Func {
	if f := n.root().funcs; f != nil {
		return f
	}
	return defaultFuncs
}
