// Command layout-eval evaluates layout expressions and renders YAML
// layout definitions against an in-memory host.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/exprkit/layout"
	"github.com/exprkit/layout/internal/expr"
	"github.com/exprkit/layout/layoutdef"
)

var (
	verbose bool
	width   float64
	height  float64
	states  []string
)

func main() {
	root := &cobra.Command{
		Use:           "layout-eval",
		Short:         "evaluate layout expressions and render layout definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	eval := &cobra.Command{
		Use:   "eval <expression>",
		Short: "evaluate a single expression and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runEval,
	}
	eval.Flags().StringArrayVarP(&states, "state", "s", nil, "state binding, name=value (repeatable)")
	eval.Flags().Float64Var(&width, "base", 100, "reference dimension for percentage literals")

	render := &cobra.Command{
		Use:   "render <definition.yaml>",
		Short: "build a layout definition, run an update pass, print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	render.Flags().Float64Var(&width, "width", 800, "available width")
	render.Flags().Float64Var(&height, "height", 600, "available height")

	root.AddCommand(eval, render)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func runEval(cmd *cobra.Command, args []string) error {
	bindings := make(map[string]layout.Value, len(states))
	for _, s := range states {
		name, raw, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("malformed --state %q, want name=value", s)
		}
		v, err := parseStateValue(raw)
		if err != nil {
			return fmt.Errorf("state %q: %w", name, err)
		}
		bindings[name] = v
	}

	e, err := layout.ParseExpression(args[0])
	if err != nil {
		return err
	}

	ctx := &expr.Context{
		Lookup: func(name string) (layout.Value, error) {
			if v, ok := bindings[name]; ok {
				return v, nil
			}
			return layout.Value{}, &layout.UndefinedSymbolError{Name: name}
		},
		Funcs:       layout.Builtins(),
		PercentBase: func() (float64, error) { return width, nil },
	}
	v, err := expr.Eval(e, ctx, layout.KindAny)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.Stringify())
	return nil
}

// parseStateValue interprets a --state value the way an expression
// literal would: number, bool, color, else string.
func parseStateValue(raw string) (layout.Value, error) {
	e, err := layout.ParseExpression(raw)
	if err != nil {
		return layout.String(raw), nil
	}
	ctx := &expr.Context{
		Lookup: func(name string) (layout.Value, error) {
			return layout.Value{}, &layout.UndefinedSymbolError{Name: name}
		},
		Funcs: layout.Builtins(),
	}
	v, err := expr.Eval(e, ctx, layout.KindAny)
	if err != nil {
		return layout.String(raw), nil
	}
	return v, nil
}

// defaultRegistry covers the view kinds the render command understands.
func defaultRegistry() *layout.Registry {
	r := layout.NewRegistry()
	r.Register("view", map[string]layout.ValueKind{
		"backgroundColor": layout.KindColor,
		"borderColor":     layout.KindColor,
		"borderWidth":     layout.KindNumber,
		"cornerRadius":    layout.KindNumber,
		"opacity":         layout.KindNumber,
		"hidden":          layout.KindBool,
	})
	r.Register("label", map[string]layout.ValueKind{
		"text":            layout.KindString,
		"textColor":       layout.KindColor,
		"backgroundColor": layout.KindColor,
		"font":            layout.KindFont,
		"opacity":         layout.KindNumber,
		"hidden":          layout.KindBool,
	})
	r.Register("image", map[string]layout.ValueKind{
		"source":          layout.KindObject,
		"tintColor":       layout.KindColor,
		"backgroundColor": layout.KindColor,
		"opacity":         layout.KindNumber,
		"hidden":          layout.KindBool,
	})
	return r
}

func runRender(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	def, err := layoutdef.ParseFile(args[0])
	if err != nil {
		return err
	}
	root, err := def.Build(layout.WithLogger(logger))
	if err != nil {
		return err
	}

	host := layout.NewMemHost(defaultRegistry())
	if err := root.Mount(host, width, height); err != nil {
		return err
	}

	printNode(cmd, host, root, 0)
	return nil
}

func printNode(cmd *cobra.Command, host *layout.MemHost, n *layout.LayoutNode, depth int) {
	indent := strings.Repeat("  ", depth)
	frame, _ := host.Frame(n)
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s\n", indent, n.DebugName(), frame)

	var props []string
	for prop := range propsOf(host, n) {
		props = append(props, prop)
	}
	sort.Strings(props)
	for _, prop := range props {
		v, _ := host.Property(n, prop)
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s: %s\n", indent, prop, v.Stringify())
	}

	for _, child := range n.Children() {
		printNode(cmd, host, child, depth+1)
	}
}

func propsOf(host *layout.MemHost, n *layout.LayoutNode) map[string]layout.Value {
	out := make(map[string]layout.Value)
	for _, prop := range n.Properties() {
		if v, ok := host.Property(n, prop); ok {
			out[prop] = v
		}
	}
	return out
}
