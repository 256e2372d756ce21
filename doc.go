// Package layout is a runtime expression-driven layout engine.
//
// Users import this single package for the complete public API:
// node construction, expression values, host interfaces, and the
// update/invalidation scheduler. Property source strings are parsed once
// (cached process-wide), evaluated against a scoped symbol table with
// circular-reference detection, and applied to a host-provided view
// hierarchy.
package layout
