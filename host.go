package layout

// IntrinsicSize is a view's natural content size. Either axis may be
// absent: a text view knows both, an image may know neither until loaded.
type IntrinsicSize struct {
	Width     float64
	Height    float64
	HasWidth  bool
	HasHeight bool
}

// Host is the engine's window onto the real view hierarchy. The core
// never inspects views itself; property discovery, reads, writes, and
// intrinsic sizing all go through this interface.
//
// All methods are called synchronously on the thread that calls Mount,
// Update, or SetState.
type Host interface {
	// PropertyKind reports the expected value kind for a property of the
	// given view kind, and whether the property exists at all.
	PropertyKind(viewKind, property string) (ValueKind, bool)

	// GetProperty reads the view's current value for a property. Used as
	// the last resort of the scope chain.
	GetProperty(node *LayoutNode, property string) (Value, bool)

	// SetProperty applies an evaluated value to the view.
	SetProperty(node *LayoutNode, property string, value Value) error

	// SetFrame applies resolved geometry to the view.
	SetFrame(node *LayoutNode, frame Rect) error

	// IntrinsicSize reports the view's natural content size, if any.
	IntrinsicSize(node *LayoutNode) IntrinsicSize

	// ChildMounted is invoked after a node becomes part of a mounted
	// hierarchy, parent-before-child. The root mounts with a nil parent.
	ChildMounted(parent, child *LayoutNode)

	// ChildUnmounted is invoked after a node is removed from a mounted
	// hierarchy, child-before-parent.
	ChildUnmounted(parent, child *LayoutNode)
}

// Registry maps stable view-kind tags to their property tables. It is the
// explicit replacement for runtime property discovery: populated once at
// startup and passed by reference into hosts.
type Registry struct {
	kinds map[string]map[string]ValueKind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]map[string]ValueKind)}
}

// Register adds (or extends) the property table for a view kind.
func (r *Registry) Register(viewKind string, props map[string]ValueKind) {
	table := r.kinds[viewKind]
	if table == nil {
		table = make(map[string]ValueKind, len(props))
		r.kinds[viewKind] = table
	}
	for name, kind := range props {
		table[name] = kind
	}
}

// PropertyKind looks up the expected kind for a view-kind property.
func (r *Registry) PropertyKind(viewKind, property string) (ValueKind, bool) {
	kind, ok := r.kinds[viewKind][property]
	return kind, ok
}

// HasKind reports whether a view kind is registered.
func (r *Registry) HasKind(viewKind string) bool {
	_, ok := r.kinds[viewKind]
	return ok
}
