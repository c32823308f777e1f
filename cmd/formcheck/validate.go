package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/rehance/internal/metrics"
	"github.com/dshills/rehance/internal/state"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "formcheck"

type validateOptions struct {
	sets        []string
	jsonOutput  bool
	showMetrics bool
}

func newValidateCmd(a *app) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate SCHEMA [VALUES]",
		Short: "Validate values against a schema",
		Long: `Build the form described by SCHEMA, fill it from VALUES, touch every
field and report the failures by key path.

Values are read from VALUES (YAML, TOML or JSON), then from FORMCHECK_VALUE_*
environment variables, then from --set flags.

Exits 1 when the form is invalid and 2 on any other error.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load(sourceArgs(args, opts.sets))
			if err != nil {
				return err
			}
			defer f.Close()

			r := check(f.root)
			if opts.jsonOutput {
				err = r.writeJSON(a.stdout)
			} else {
				err = r.writeText(a.stdout)
			}
			if err != nil {
				return err
			}
			if opts.showMetrics {
				if err := writeMetrics(a.stderr, f.root); err != nil {
					return err
				}
			}
			if !r.Valid {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "Set a field value (path=value, repeatable)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Write the report as JSON")
	cmd.Flags().BoolVar(&opts.showMetrics, "metrics", false, "Write metrics to stderr after validating")
	return cmd
}

// report is the outcome of validating a whole form.
type report struct {
	Valid    bool
	Failures []state.FieldFailure
}

// check touches every field of root and collects the failures.
func check(root *state.TrieNode) report {
	root.TouchAll()
	failures := root.Validate()
	return report{Valid: root.IsValid(), Failures: failures}
}

func (r report) writeText(w io.Writer) error {
	for _, f := range r.Failures {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Path, f.Message); err != nil {
			return err
		}
	}
	var err error
	switch n := len(r.Failures); {
	case r.Valid:
		_, err = fmt.Fprintln(w, "valid")
	case n == 1:
		_, err = fmt.Fprintln(w, "invalid: 1 failure")
	default:
		_, err = fmt.Fprintf(w, "invalid: %d failures\n", n)
	}
	return err
}

func (r report) writeJSON(w io.Writer) error {
	out, err := r.json()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func (r report) json() (string, error) {
	out, err := sjson.Set("", "valid", r.Valid)
	if err != nil {
		return "", err
	}
	if out, err = sjson.SetRaw(out, "failures", "[]"); err != nil {
		return "", err
	}
	for _, f := range r.Failures {
		out, err = sjson.Set(out, "failures.-1", map[string]string{
			"path":    f.Path,
			"key":     f.Key,
			"message": f.Message,
		})
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

// writeMetrics writes the bus and tree metrics of root in the Prometheus
// text format.
func writeMetrics(w io.Writer, root *state.TrieNode) error {
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(metrics.NewCollector(metricsNamespace, root.Events(), root)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
