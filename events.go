package layout

// EventHandler receives an event dispatched to (or bubbled up through) a
// node. Payload is host-defined.
type EventHandler func(node *LayoutNode, event string, payload any)

// eventSink is one registered handler.
type eventSink struct {
	fn     EventHandler
	active bool
}

// On registers a typed event sink on this node. Returns a removal handle.
// Registration is explicit: there is no runtime probing for handler
// methods anywhere in the engine.
func (n *LayoutNode) On(event string, fn EventHandler) (remove func()) {
	if n.events == nil {
		n.events = make(map[string][]*eventSink)
	}
	sink := &eventSink{fn: fn, active: true}
	n.events[event] = append(n.events[event], sink)
	return func() { sink.active = false }
}

// DispatchEvent delivers an event to this node, walking up through its
// ancestors until some node has at least one active sink for it. Returns
// true if a handler ran.
func (n *LayoutNode) DispatchEvent(event string, payload any) bool {
	for node := n; node != nil; node = node.parent {
		if node.fireEvent(event, payload) {
			return true
		}
	}
	return false
}

// fireEvent runs this node's active sinks for the event, pruning removed
// ones. Returns true if any ran.
func (n *LayoutNode) fireEvent(event string, payload any) bool {
	sinks := n.events[event]
	if len(sinks) == 0 {
		return false
	}
	active := sinks[:0]
	for _, s := range sinks {
		if s.active {
			active = append(active, s)
		}
	}
	n.events[event] = active

	for _, s := range active {
		s.fn(n, event, payload)
	}
	return len(active) > 0
}
