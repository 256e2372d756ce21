package layout

import "go.uber.org/zap"

// Option configures a LayoutNode at construction.
type Option func(*LayoutNode) error

// WithExpression attaches a property expression source string. Geometry
// properties parse immediately; the rest parse at mount, when the host's
// property table determines the parse mode (template for string-like
// properties, expression grammar otherwise).
func WithExpression(property, source string) Option {
	return func(n *LayoutNode) error {
		if _, dup := n.sources[property]; dup {
			return configErrorf("%s: property %q declared twice", n.DebugName(), property)
		}
		n.sources[property] = source
		return nil
	}
}

// WithExpressions attaches several property expressions at once.
func WithExpressions(props map[string]string) Option {
	return func(n *LayoutNode) error {
		for _, prop := range sortedKeys(props) {
			if err := WithExpression(prop, props[prop])(n); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithState sets the node's initial local state.
func WithState(state map[string]any) Option {
	return func(n *LayoutNode) error {
		n.state = copyMap(state)
		return nil
	}
}

// WithConstants sets the node's local constants.
func WithConstants(constants map[string]any) Option {
	return func(n *LayoutNode) error {
		n.constants = copyMap(constants)
		return nil
	}
}

// WithOutlet assigns the node's outlet identifier.
func WithOutlet(outlet string) Option {
	return func(n *LayoutNode) error {
		n.outlet = outlet
		return nil
	}
}

// WithChildren appends child nodes.
func WithChildren(children ...*LayoutNode) Option {
	return func(n *LayoutNode) error {
		for _, child := range children {
			if child.parent != nil {
				return configErrorf("%s: child %s already has a parent", n.DebugName(), child.DebugName())
			}
			child.parent = n
			n.children = append(n.children, child)
		}
		return nil
	}
}

// WithLogger attaches a structured logger. Only meaningful on the root
// node; descendants log through their root.
func WithLogger(logger *zap.Logger) Option {
	return func(n *LayoutNode) error {
		n.logger = logger
		return nil
	}
}

// WithFunctions extends the builtin expression function registry for the
// whole tree. Only meaningful on the root node. Builtins keep their names
// unless explicitly overridden.
func WithFunctions(funcs map[string]Func) Option {
	return func(n *LayoutNode) error {
		merged := Builtins()
		for name, fn := range funcs {
			merged[name] = fn
		}
		n.funcs = merged
		return nil
	}
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
