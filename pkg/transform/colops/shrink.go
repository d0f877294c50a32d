package colops

import (
	"context"
	"math"

	"github.com/pipetab/pipetab/pkg/logging"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/profile"
	"github.com/pipetab/pipetab/pkg/table"
)

// Shrink downcasts wide numeric columns that fit a narrower type:
// int64→int32 when every value is in range, float64→float32 when every
// value round-trips exactly. Lossy shrinks are never applied.
type Shrink struct {
	Spec pipetab.ColumnSpec
}

func (s *Shrink) Name() string { return "shrink" }

func (s *Shrink) Fit(ctx context.Context, t *table.Table) error {
	pipetab.NothingToFit(s.Name())
	return nil
}

func (s *Shrink) Transform(ctx context.Context, t *table.Table) (*table.Table, error) {
	effective, err := s.Spec.Resolve(s.Name(), t.Columns())
	if err != nil {
		return nil, err
	}
	cur := t
	var saved int64
	for _, col := range effective {
		kind, _ := cur.KindOf(col)
		switch kind {
		case table.KindInt64:
			vals, valid, err := cur.Int64s(col)
			if err != nil {
				return nil, err
			}
			if !allInt32(vals, valid) {
				continue
			}
			next, err := cur.Cast(col, table.KindInt32)
			if err != nil {
				return nil, err
			}
			cur = next
			saved += 4 * int64(cur.NumRows())
		case table.KindFloat64:
			vals, valid, err := cur.Float64s(col)
			if err != nil {
				return nil, err
			}
			if !allFloat32(vals, valid) {
				continue
			}
			next, err := cur.Cast(col, table.KindFloat32)
			if err != nil {
				return nil, err
			}
			cur = next
			saved += 4 * int64(cur.NumRows())
		}
	}
	if saved > 0 {
		logging.L.Infow("shrunk table", "saved", profile.FormatBytes(saved))
	}
	return cur, nil
}

func allInt32(vals []int64, valid []bool) bool {
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		if v > math.MaxInt32 || v < math.MinInt32 {
			return false
		}
	}
	return true
}

func allFloat32(vals []float64, valid []bool) bool {
	for i, v := range vals {
		if !valid[i] {
			continue
		}
		if float64(float32(v)) != v {
			return false
		}
	}
	return true
}
