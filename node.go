package layout

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/exprkit/layout/internal/expr"
)

// Phase is a node's position in the evaluation lifecycle.
type Phase uint8

const (
	// PhaseUninitialized means the node has never been mounted.
	PhaseUninitialized Phase = iota
	// PhaseReady means the node's expressions evaluated cleanly.
	PhaseReady
	// PhaseEvaluating means an update pass is evaluating this node.
	PhaseEvaluating
	// PhaseFailed means at least one property failed in the last pass.
	// Recoverable: a corrected re-evaluation returns the node to Ready.
	PhaseFailed
)

// LayoutNode represents one view-equivalent in the hierarchy. It owns its
// children exclusively; the parent back-reference does not imply
// ownership. Nodes are created with initial expressions, state, and
// constants, mutated via SetState/SetConstants and child insert/remove,
// and destroyed when removed from their parent (cascading to children).
type LayoutNode struct {
	id       uuid.UUID
	viewKind string
	outlet   string

	// Property expressions: source text and (once parsed) the shared
	// immutable parse result. Geometry sources parse at construction;
	// the rest parse at mount, when the host's property table is known.
	sources map[string]string
	exprs   map[string]*expr.Expression

	state     map[string]any
	constants map[string]any

	children []*LayoutNode
	parent   *LayoutNode

	// memo caches evaluated property values. Geometry entries live for a
	// single update pass; other entries persist until invalidated.
	memo     map[string]Value
	propErrs map[string]error
	dirty    bool
	phase    Phase

	frame   Rect
	frameOK bool

	events map[string][]*eventSink

	// Root-only fields, set by Mount/Update.
	host   Host
	logger *zap.Logger
	funcs  map[string]expr.Func
	availW float64
	availH float64
}

// NewNode creates a LayoutNode with the given view kind and options.
// Geometry expressions (top/left/width/height/bottom/right) are parsed
// here, fail fast; a state/constants key collision is a ConfigurationError.
func NewNode(viewKind string, opts ...Option) (*LayoutNode, error) {
	n := &LayoutNode{
		id:       uuid.New(),
		viewKind: viewKind,
		sources:  make(map[string]string),
		exprs:    make(map[string]*expr.Expression),
		memo:     make(map[string]Value),
		propErrs: make(map[string]error),
		dirty:    true,
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	if err := n.checkKeyCollision(n.state, n.constants); err != nil {
		return nil, err
	}

	for _, prop := range sortedKeys(n.sources) {
		if !isGeometryProp(prop) {
			continue
		}
		e, err := expr.Cached(n.sources[prop], false)
		if err != nil {
			return nil, &NodeError{Node: n, Property: prop, Err: err}
		}
		n.exprs[prop] = e
	}
	return n, nil
}

// checkKeyCollision rejects keys defined in both state and constants on
// the same node. Shadowing between the two maps would be ambiguous, so it
// fails fast instead.
func (n *LayoutNode) checkKeyCollision(state, constants map[string]any) error {
	for key := range state {
		if _, clash := constants[key]; clash {
			return configErrorf("%s: key %q defined in both state and constants", n.DebugName(), key)
		}
	}
	return nil
}

// ID returns the node's stable identity, assigned at construction.
func (n *LayoutNode) ID() uuid.UUID { return n.id }

// ViewKind returns the host view-kind tag this node was created with.
func (n *LayoutNode) ViewKind() string { return n.viewKind }

// Outlet returns the node's outlet identifier, or "".
func (n *LayoutNode) Outlet() string { return n.outlet }

// Phase returns the node's evaluation lifecycle phase.
func (n *LayoutNode) Phase() Phase { return n.phase }

// PropertyError returns the error recorded for a property in the last
// update pass, or nil.
func (n *LayoutNode) PropertyError(property string) error {
	return n.propErrs[property]
}

// Properties returns the names of all properties with attached
// expressions, sorted.
func (n *LayoutNode) Properties() []string {
	return sortedKeys(n.sources)
}

// ExpressionSource returns the source string attached to a property, and
// whether one is attached at all.
func (n *LayoutNode) ExpressionSource(property string) (string, bool) {
	s, ok := n.sources[property]
	return s, ok
}

// DebugName identifies the node in errors and logs: the outlet when one
// is set, otherwise the view kind plus a short id prefix.
func (n *LayoutNode) DebugName() string {
	if n.outlet != "" {
		return n.outlet
	}
	return n.viewKind + "#" + n.id.String()[:8]
}

// root walks to the hierarchy root.
func (n *LayoutNode) root() *LayoutNode {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// hostRef returns the host attached at the root, or nil if unmounted.
func (n *LayoutNode) hostRef() Host {
	return n.root().host
}

// log returns the logger attached at the root, never nil.
func (n *LayoutNode) log() *zap.Logger {
	if l := n.root().logger; l != nil {
		return l
	}
	return zap.NewNop()
}

// Geometry property names. bottom and right derive from top+height and
// left+width (or the reverse, when bottom/right are the authored pair).
const (
	propTop    = "top"
	propLeft   = "left"
	propWidth  = "width"
	propHeight = "height"
	propBottom = "bottom"
	propRight  = "right"
)

func isGeometryProp(name string) bool {
	switch name {
	case propTop, propLeft, propWidth, propHeight, propBottom, propRight:
		return true
	}
	return false
}

// horizontalProp reports whether a property resolves percentages against
// the parent's width. Vertical properties use the height; anything else
// (host-specific numeric properties) defaults to the width axis.
func horizontalProp(name string) bool {
	switch name {
	case propTop, propHeight, propBottom:
		return false
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
