// Package standardize normalizes string columns: whitespace trimming,
// lowercasing, regex replacement, and value mapping.
package standardize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// applyString rebuilds one string column applying fn to every non-null
// cell; the input table is left untouched. A missing column follows the
// policy; a non-string column is an error.
func applyString(op string, t *table.Table, column string, policy pipetab.MissingPolicy, fn func(string) string) (*table.Table, error) {
	spec := pipetab.ColumnSpec{Columns: []string{column}, OnMissing: policy}
	effective, err := spec.Resolve(op, t.Columns())
	if err != nil {
		return nil, err
	}
	if len(effective) == 0 {
		return t.Select(t.Columns())
	}
	if kind, _ := t.KindOf(column); kind != table.KindString {
		return nil, fmt.Errorf("%s: column %s is %s, want string", op, column, kind)
	}
	vals, valid, err := t.Strings(column)
	if err != nil {
		return nil, err
	}
	changed := false
	for i := range vals {
		if !valid[i] {
			continue
		}
		if out := fn(vals[i]); out != vals[i] {
			vals[i] = out
			changed = true
		}
	}
	if !changed {
		return t.Select(t.Columns())
	}
	col, err := table.NewCol(column, vals, valid, nil)
	if err != nil {
		return nil, err
	}
	return t.SetColumn(col)
}

// Trim removes leading and trailing whitespace.
type Trim struct {
	Column    string
	OnMissing pipetab.MissingPolicy
}

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Fit(ctx context.Context, tbl *table.Table) error {
	pipetab.NothingToFit(t.Name())
	return nil
}

func (t *Trim) Transform(ctx context.Context, tbl *table.Table) (*table.Table, error) {
	return applyString(t.Name(), tbl, t.Column, t.OnMissing, strings.TrimSpace)
}

// Lower lowercases every value.
type Lower struct {
	Column    string
	OnMissing pipetab.MissingPolicy
}

func (l *Lower) Name() string { return "lower" }

func (l *Lower) Fit(ctx context.Context, tbl *table.Table) error {
	pipetab.NothingToFit(l.Name())
	return nil
}

func (l *Lower) Transform(ctx context.Context, tbl *table.Table) (*table.Table, error) {
	return applyString(l.Name(), tbl, l.Column, l.OnMissing, strings.ToLower)
}

// RegexReplace substitutes every match of Pattern with Replace.
type RegexReplace struct {
	Column    string
	Pattern   *regexp.Regexp
	Replace   string
	OnMissing pipetab.MissingPolicy
}

// NewRegexReplace compiles the pattern, failing construction on a bad
// expression.
func NewRegexReplace(column, pattern, replace string, onMissing pipetab.MissingPolicy) (*RegexReplace, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexReplace{Column: column, Pattern: re, Replace: replace, OnMissing: onMissing}, nil
}

func (r *RegexReplace) Name() string { return "regex_replace" }

func (r *RegexReplace) Fit(ctx context.Context, tbl *table.Table) error {
	pipetab.NothingToFit(r.Name())
	return nil
}

func (r *RegexReplace) Transform(ctx context.Context, tbl *table.Table) (*table.Table, error) {
	return applyString(r.Name(), tbl, r.Column, r.OnMissing, func(s string) string {
		return r.Pattern.ReplaceAllString(s, r.Replace)
	})
}

// MapValues replaces exact values per a lookup map; unmapped values pass
// through unchanged.
type MapValues struct {
	Column    string
	Map       map[string]string
	OnMissing pipetab.MissingPolicy
}

func (m *MapValues) Name() string { return "map_values" }

func (m *MapValues) Fit(ctx context.Context, tbl *table.Table) error {
	pipetab.NothingToFit(m.Name())
	return nil
}

func (m *MapValues) Transform(ctx context.Context, tbl *table.Table) (*table.Table, error) {
	return applyString(m.Name(), tbl, m.Column, m.OnMissing, func(s string) string {
		if out, ok := m.Map[s]; ok {
			return out
		}
		return s
	})
}
