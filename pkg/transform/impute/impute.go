// Package impute fills null cells. Constant is stateless; Mean and Median
// learn their fill value during Fit and refuse to transform unfitted.
package impute

import (
	"fmt"

	"github.com/pipetab/pipetab/pkg/table"
)

// fillNumeric rebuilds the named numeric column with nulls replaced by
// value, preserving the column's kind (integer columns round to nearest).
func fillNumeric(t *table.Table, name string, value float64) (*table.Table, error) {
	kind, ok := t.KindOf(name)
	if !ok {
		return nil, fmt.Errorf("column %s not found", name)
	}
	vals, valid, err := t.Float64s(name)
	if err != nil {
		return nil, err
	}
	filled := 0
	for i := range vals {
		if !valid[i] {
			vals[i] = value
			valid[i] = true
			filled++
		}
	}
	if filled == 0 {
		return t.Select(t.Columns())
	}
	col, err := table.NewNumericCol(name, kind, vals, valid, nil)
	if err != nil {
		return nil, err
	}
	return t.SetColumn(col)
}
