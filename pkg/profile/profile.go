// Package profile computes lightweight per-column statistics over a table,
// for pipeline diagnostics and the CLI's describe output.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pipetab/pipetab/pkg/table"
)

type NumStats struct {
	Count int
	Nulls int
	Min   float64
	Max   float64
	Sum   float64
}

func (s NumStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

type BoolStats struct {
	Count int
	Nulls int
	True  int
	False int
}

type StringStats struct {
	Count int
	Nulls int
	Freqs map[string]int
}

type ColumnProfile struct {
	Name string
	Kind table.Kind
	Num  *NumStats
	Bool *BoolStats
	Str  *StringStats
}

// Collect profiles every column of t.
func Collect(t *table.Table) ([]ColumnProfile, error) {
	out := make([]ColumnProfile, 0, t.NumCols())
	for _, name := range t.Columns() {
		kind, _ := t.KindOf(name)
		cp := ColumnProfile{Name: name, Kind: kind}
		switch kind {
		case table.KindInt32, table.KindInt64, table.KindFloat32, table.KindFloat64:
			vals, valid, err := t.Float64s(name)
			if err != nil {
				return nil, err
			}
			st := &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
			for i, v := range vals {
				if !valid[i] {
					st.Nulls++
					continue
				}
				st.Count++
				st.Sum += v
				if v < st.Min {
					st.Min = v
				}
				if v > st.Max {
					st.Max = v
				}
			}
			cp.Num = st
		case table.KindBool:
			vals, valid, err := t.Bools(name)
			if err != nil {
				return nil, err
			}
			st := &BoolStats{}
			for i, v := range vals {
				if !valid[i] {
					st.Nulls++
					continue
				}
				st.Count++
				if v {
					st.True++
				} else {
					st.False++
				}
			}
			cp.Bool = st
		default:
			vals, valid, err := t.Strings(name)
			if err != nil {
				return nil, err
			}
			st := &StringStats{Freqs: make(map[string]int)}
			for i, v := range vals {
				if !valid[i] {
					st.Nulls++
					continue
				}
				st.Count++
				st.Freqs[v]++
			}
			cp.Str = st
		}
		out = append(out, cp)
	}
	return out, nil
}

// ReportText renders profiles one line per column.
func ReportText(profiles []ColumnProfile, topK int) string {
	var b strings.Builder
	b.WriteString("Profile Summary\n")
	for _, cp := range profiles {
		fmt.Fprintf(&b, "- %s (%s): ", cp.Name, cp.Kind)
		switch {
		case cp.Num != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d min=%.6g max=%.6g mean=%.6g\n",
				cp.Num.Count, cp.Num.Nulls, cp.Num.Min, cp.Num.Max, cp.Num.Mean())
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n",
				cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		default:
			fmt.Fprintf(&b, "count=%d nulls=%d", cp.Str.Count, cp.Str.Nulls)
			if topK > 0 {
				fmt.Fprintf(&b, " top=%v", topValues(cp.Str.Freqs, topK))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func topValues(freqs map[string]int, k int) []string {
	type vf struct {
		v string
		n int
	}
	all := make([]vf, 0, len(freqs))
	for v, n := range freqs {
		all = append(all, vf{v, n})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].n != all[j].n {
			return all[i].n > all[j].n
		}
		return all[i].v < all[j].v
	})
	if len(all) > k {
		all = all[:k]
	}
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = fmt.Sprintf("%s(%d)", e.v, e.n)
	}
	return out
}

// FormatBytes renders a byte count in binary units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
