package impute

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// Constant fills nulls in one column with a fixed value. Stateless.
type Constant struct {
	Column    string
	Value     any
	OnMissing pipetab.MissingPolicy
}

func (c *Constant) Name() string { return "impute_constant" }

func (c *Constant) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(c.Name())
	return nil
}

func (c *Constant) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	spec := pipetab.ColumnSpec{Columns: []string{c.Column}, OnMissing: c.OnMissing}
	effective, err := spec.Resolve(c.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	if len(effective) == 0 {
		return t.Select(t.Columns())
	}

	kind, _ := t.KindOf(c.Column)
	switch kind {
	case table.KindString:
		s, err := asString(c.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name(), err)
		}
		vals, valid, err := t.Strings(c.Column)
		if err != nil {
			return nil, err
		}
		changed := false
		for i := range vals {
			if !valid[i] {
				vals[i], valid[i] = s, true
				changed = true
			}
		}
		if !changed {
			return t.Select(t.Columns())
		}
		col, err := table.NewCol(c.Column, vals, valid, nil)
		if err != nil {
			return nil, err
		}
		return t.SetColumn(col)
	case table.KindBool:
		b, ok := c.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: column %s expects a bool value, got %T", c.Name(), c.Column, c.Value)
		}
		vals, valid, err := t.Bools(c.Column)
		if err != nil {
			return nil, err
		}
		changed := false
		for i := range vals {
			if !valid[i] {
				vals[i], valid[i] = b, true
				changed = true
			}
		}
		if !changed {
			return t.Select(t.Columns())
		}
		col, err := table.NewCol(c.Column, vals, valid, nil)
		if err != nil {
			return nil, err
		}
		return t.SetColumn(col)
	default:
		f, err := asFloat(c.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: column %s: %w", c.Name(), c.Column, err)
		}
		return fillNumeric(t, c.Column, f)
	}
}

func asString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case fmt.Stringer:
		return t.String(), nil
	case int, int32, int64, float32, float64, bool:
		return fmt.Sprintf("%v", t), nil
	default:
		return "", fmt.Errorf("cannot use %T as a string fill value", v)
	}
}

func asFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		return strconv.ParseFloat(t, 64)
	default:
		return 0, fmt.Errorf("cannot use %T as a numeric fill value", v)
	}
}
