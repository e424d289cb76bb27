// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and may only reference known metrics.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/terrenos/tools/dashgen/rules"
)

// Result collects validation findings.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

// Err returns the errors joined into one, or nil.
func (r *Result) Err() error {
	if r.Ok() {
		return nil
	}
	return errors.New(strings.Join(r.Errors, "; "))
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Dashboard validates the expressions of a dashboard encoded as JSON.
func Dashboard(data []byte, known map[string]bool) *Result {
	r := &Result{}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		r.errorf("decoding dashboard: %v", err)
		return r
	}

	exprs := collectExprs(doc, nil)
	if len(exprs) == 0 {
		r.Warnings = append(r.Warnings, "dashboard has no queries")
	}
	for _, e := range exprs {
		checkExpr(r, e, known)
	}
	return r
}

// Rules validates a PrometheusRule. Recording rule names must themselves be
// known so dashboards can reference them.
func Rules(cr rules.PrometheusRule, known map[string]bool) *Result {
	r := &Result{}
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			switch {
			case rule.Record != "" && rule.Alert != "":
				r.errorf("rule %q sets both record and alert", rule.Record)
			case rule.Record == "" && rule.Alert == "":
				r.errorf("rule in group %q has neither record nor alert", g.Name)
			case rule.Record != "" && !known[rule.Record]:
				r.errorf("recording rule %q is not a known metric", rule.Record)
			case rule.Alert != "" && rule.Labels["severity"] == "":
				r.Warnings = append(r.Warnings, fmt.Sprintf("alert %q has no severity", rule.Alert))
			}
			checkExpr(r, rule.Expr, known)
		}
	}
	return r
}

func checkExpr(r *Result, expr string, known map[string]bool) {
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		r.errorf("parsing %q: %v", expr, err)
		return
	}
	for _, name := range metricNames(parsed) {
		if !known[name] && !known[baseName(name)] {
			r.errorf("unknown metric %q in %q", name, expr)
		}
	}
}

func metricNames(expr parser.Expr) []string {
	seen := map[string]bool{}
	parser.Inspect(expr, func(node parser.Node, _ []parser.Node) error {
		if vs, ok := node.(*parser.VectorSelector); ok && vs.Name != "" {
			seen[vs.Name] = true
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// baseName strips the histogram series suffixes.
func baseName(name string) string {
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if s, ok := strings.CutSuffix(name, suffix); ok {
			return s
		}
	}
	return name
}

func collectExprs(v any, out []string) []string {
	switch t := v.(type) {
	case map[string]any:
		if e, ok := t["expr"].(string); ok {
			out = append(out, e)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = collectExprs(t[k], out)
		}
	case []any:
		for _, e := range t {
			out = collectExprs(e, out)
		}
	}
	return out
}
