package layout

import (
	"fmt"
	"strings"
)

// CircularReferenceError reports a dependency cycle between property
// expressions. Chain lists the (node, property) pairs in evaluation order,
// ending with the reference that closed the cycle.
type CircularReferenceError struct {
	Chain []string
}

func (e *CircularReferenceError) Error() string {
	return "circular reference: " + strings.Join(e.Chain, " -> ")
}

// ConfigurationError reports an invalid node configuration, such as a
// state/constants key collision or a reference to a property the host
// does not expose. Raised eagerly, before any evaluation.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// NodeError attributes an evaluation failure to the specific node and
// property that produced it. One failing property does not abort
// evaluation of unrelated properties.
type NodeError struct {
	Node     *LayoutNode
	Property string
	Err      error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: property %q: %v", e.Node.DebugName(), e.Property, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
