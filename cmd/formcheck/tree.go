package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dshills/rehance/internal/state"
	"github.com/dshills/rehance/internal/value"
)

type treeOptions struct {
	sets       []string
	selector   string
	jsonOutput bool
}

func newTreeCmd(a *app) *cobra.Command {
	var opts treeOptions

	cmd := &cobra.Command{
		Use:   "tree SCHEMA [VALUES]",
		Short: "Print the form tree",
		Long: `Print every node of the form with its address, kind and value.

With --json the aggregated value is printed instead. --select picks part of
that value with a gjson path such as "contacts.#.name".`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load(sourceArgs(args, opts.sets))
			if err != nil {
				return err
			}
			defer f.Close()

			if opts.jsonOutput || opts.selector != "" {
				data, err := json.Marshal(f.root.Value())
				if err != nil {
					return err
				}
				out := string(data)
				if opts.selector != "" {
					res := gjson.Get(out, opts.selector)
					if !res.Exists() {
						return fmt.Errorf("select %q: no match", opts.selector)
					}
					out = res.Raw
				}
				_, err = fmt.Fprintln(a.stdout, out)
				return err
			}
			return state.Walk(f.root, func(n state.Node) error {
				_, err := fmt.Fprintln(a.stdout, describe(n))
				return err
			})
		},
	}

	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Set a field value (path=value, repeatable)")
	cmd.Flags().StringVar(&opts.selector, "select", "", "Print the part of the value matching a gjson path")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the aggregated value as JSON")
	return cmd
}

// describe renders one line per node, indented by depth.
func describe(n state.Node) string {
	path := n.Path()
	depth := 0
	if path != "" {
		depth = strings.Count(path, ".") + 1
	}
	name := n.Name()
	if name == "" {
		name = "(root)"
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&b, "%s %s %s", name, n.Kind(), n.ID())
	switch v := n.(type) {
	case *state.ValueNode:
		fmt.Fprintf(&b, " = %s", value.String(v.Value()))
		if len(v.Errors()) > 0 {
			fmt.Fprintf(&b, " (%s)", v.Error())
		}
	case *state.CollectionNode:
		fmt.Fprintf(&b, " [%d]", v.Len())
	}
	return b.String()
}
