// Package layoutdef loads layout hierarchies from YAML definitions and
// builds the corresponding node trees.
package layoutdef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/exprkit/layout"
)

// Definition is one node of a YAML layout document.
type Definition struct {
	Kind       string            `yaml:"kind"`
	Outlet     string            `yaml:"outlet,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty"`
	State      map[string]any    `yaml:"state,omitempty"`
	Constants  map[string]any    `yaml:"constants,omitempty"`
	Children   []*Definition     `yaml:"children,omitempty"`
}

// Parse decodes a YAML layout document.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing layout definition: %w", err)
	}
	if def.Kind == "" {
		return nil, fmt.Errorf("layout definition has no kind")
	}
	return &def, nil
}

// ParseFile decodes a YAML layout document from disk.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout definition: %w", err)
	}
	return Parse(data)
}

// Build constructs the node tree the definition describes. Extra options
// apply to the root node only (logger, custom functions).
func (d *Definition) Build(opts ...layout.Option) (*layout.LayoutNode, error) {
	return d.build(opts)
}

func (d *Definition) build(rootOpts []layout.Option) (*layout.LayoutNode, error) {
	if d.Kind == "" {
		return nil, fmt.Errorf("layout definition has no kind")
	}

	children := make([]*layout.LayoutNode, 0, len(d.Children))
	for i, cd := range d.Children {
		child, err := cd.build(nil)
		if err != nil {
			return nil, fmt.Errorf("child %d of %q: %w", i, d.Kind, err)
		}
		children = append(children, child)
	}

	opts := []layout.Option{
		layout.WithExpressions(d.Properties),
		layout.WithState(d.State),
		layout.WithConstants(d.Constants),
		layout.WithChildren(children...),
	}
	if d.Outlet != "" {
		opts = append(opts, layout.WithOutlet(d.Outlet))
	}
	opts = append(opts, rootOpts...)

	return layout.NewNode(d.Kind, opts...)
}

// Marshal renders a definition back to YAML.
func (d *Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
