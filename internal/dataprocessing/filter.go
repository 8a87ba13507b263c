package dataprocessing

import (
	"athletepulse/pkg/contracts/domain"
)

// FilterAvailable drops rows in which every tracked column is missing. A
// tracked column the table does not have counts as missing. It returns the
// filtered table and the number of dropped rows.
func FilterAvailable(t Table) (Table, int) {
	return FilterAllMissing(t, domain.TrackedColumns)
}

// FilterAllMissing drops rows whose columns in subset are all missing. Rows
// with at least one present value in subset are kept, in order.
func FilterAllMissing(t Table, subset []string) (Table, int) {
	idx := make([]int, 0, len(subset))
	for _, name := range subset {
		if i := t.Index(name); i >= 0 {
			idx = append(idx, i)
		}
	}

	out := Table{Name: t.Name, Columns: append([]Column(nil), t.Columns...)}
	dropped := 0
	for _, row := range t.Rows {
		keep := false
		for _, i := range idx {
			if !row[i].IsMissing() {
				keep = true
				break
			}
		}
		if !keep {
			dropped++
			continue
		}
		out.Rows = append(out.Rows, append([]domain.Value(nil), row...))
	}
	return out, dropped
}
