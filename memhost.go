package layout

// MountEvent records one mount/unmount notification, in order.
type MountEvent struct {
	Parent  *LayoutNode
	Child   *LayoutNode
	Mounted bool
}

// MemHost is an in-memory Host backed by a Registry. It stores applied
// property values and frames instead of driving real views, which makes
// it the host for tests, tools, and headless evaluation.
type MemHost struct {
	registry  *Registry
	props     map[*LayoutNode]map[string]Value
	frames    map[*LayoutNode]Rect
	intrinsic map[*LayoutNode]IntrinsicSize

	// Mounts is the ordered mount/unmount notification log.
	Mounts []MountEvent

	// PropertyWrites counts SetProperty calls; SetFrameCalls counts
	// SetFrame calls.
	PropertyWrites int
	SetFrameCalls  int
}

var _ Host = (*MemHost)(nil)

// NewMemHost creates a MemHost over the given registry.
func NewMemHost(registry *Registry) *MemHost {
	return &MemHost{
		registry:  registry,
		props:     make(map[*LayoutNode]map[string]Value),
		frames:    make(map[*LayoutNode]Rect),
		intrinsic: make(map[*LayoutNode]IntrinsicSize),
	}
}

// SetIntrinsicSize declares a node's intrinsic content size.
func (h *MemHost) SetIntrinsicSize(node *LayoutNode, size IntrinsicSize) {
	h.intrinsic[node] = size
}

// Property returns the last applied value for a node property.
func (h *MemHost) Property(node *LayoutNode, property string) (Value, bool) {
	v, ok := h.props[node][property]
	return v, ok
}

// Frame returns the last applied frame for a node.
func (h *MemHost) Frame(node *LayoutNode) (Rect, bool) {
	r, ok := h.frames[node]
	return r, ok
}

// PropertyKind implements Host.
func (h *MemHost) PropertyKind(viewKind, property string) (ValueKind, bool) {
	return h.registry.PropertyKind(viewKind, property)
}

// GetProperty implements Host.
func (h *MemHost) GetProperty(node *LayoutNode, property string) (Value, bool) {
	return h.Property(node, property)
}

// SetProperty implements Host.
func (h *MemHost) SetProperty(node *LayoutNode, property string, value Value) error {
	m := h.props[node]
	if m == nil {
		m = make(map[string]Value)
		h.props[node] = m
	}
	m[property] = value
	h.PropertyWrites++
	return nil
}

// SetFrame implements Host.
func (h *MemHost) SetFrame(node *LayoutNode, frame Rect) error {
	h.frames[node] = frame
	h.SetFrameCalls++
	return nil
}

// IntrinsicSize implements Host.
func (h *MemHost) IntrinsicSize(node *LayoutNode) IntrinsicSize {
	return h.intrinsic[node]
}

// ChildMounted implements Host.
func (h *MemHost) ChildMounted(parent, child *LayoutNode) {
	h.Mounts = append(h.Mounts, MountEvent{Parent: parent, Child: child, Mounted: true})
}

// ChildUnmounted implements Host.
func (h *MemHost) ChildUnmounted(parent, child *LayoutNode) {
	h.Mounts = append(h.Mounts, MountEvent{Parent: parent, Child: child, Mounted: false})
	delete(h.props, child)
	delete(h.frames, child)
	delete(h.intrinsic, child)
}
