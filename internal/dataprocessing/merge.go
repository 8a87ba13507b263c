package dataprocessing

import (
	"fmt"

	"athletepulse/pkg/contracts/domain"
)

// joinKey is the normalized (first name, last name) pair. Missing parts compare
// equal to each other.
type joinKey struct {
	first domain.Value
	last  domain.Value
}

// Collision records a non-key column present on both sides of a merge and the
// names it was given in the output.
type Collision struct {
	Column    string `json:"column"`
	LeftName  string `json:"left_name"`
	RightName string `json:"right_name"`
}

// MergeReport describes one or more merges.
type MergeReport struct {
	Inputs     []string    `json:"inputs"`
	Rows       int         `json:"rows"`
	Keys       int         `json:"keys"`
	Collisions []Collision `json:"collisions,omitempty"`
}

// Merge outer-joins left and right on the name key columns.
//
// Output columns are the key columns, then left's other columns, then right's
// other columns. A non-key column name found on both sides is renamed on both
// sides to "<name>_<source>"; a numeric suffix is added if that is still taken.
//
// Row order: keys in first-seen order of left, followed by keys only present in
// right in their order. Within a key the left rows (in order) are crossed with
// the right rows (in order). A key absent from one side yields missing values
// for every column of that side.
func Merge(left, right Table) (Table, MergeReport) {
	leftCols := nonKeyColumns(left)
	rightCols := nonKeyColumns(right)

	leftNames := make(map[string]bool, len(leftCols))
	for _, c := range leftCols {
		leftNames[left.Columns[c].Name] = true
	}

	out := Table{Name: left.Name + "+" + right.Name}
	for _, key := range KeyColumns {
		out.Columns = append(out.Columns, Column{Name: key, Source: "key"})
	}

	report := MergeReport{Inputs: []string{left.Name, right.Name}}
	renamedLeft := make(map[string]string)
	renamedRight := make(map[string]string)
	for _, c := range rightCols {
		col := right.Columns[c]
		if !leftNames[col.Name] {
			continue
		}
		renamedLeft[col.Name] = col.Name + "_" + sourceOf(left, col.Name)
		renamedRight[col.Name] = col.Name + "_" + col.Source
	}

	taken := make(map[string]bool)
	for _, c := range out.Columns {
		taken[c.Name] = true
	}
	claim := func(name string) string {
		candidate := name
		for n := 2; taken[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		taken[candidate] = true
		return candidate
	}

	finalLeft := make(map[string]string)
	for _, c := range leftCols {
		col := left.Columns[c]
		name := col.Name
		if renamed, ok := renamedLeft[name]; ok {
			name = renamed
		}
		name = claim(name)
		finalLeft[col.Name] = name
		out.Columns = append(out.Columns, Column{Name: name, Source: col.Source})
	}
	for _, c := range rightCols {
		col := right.Columns[c]
		name := col.Name
		if renamed, ok := renamedRight[name]; ok {
			name = renamed
		}
		name = claim(name)
		if _, collided := renamedRight[col.Name]; collided {
			report.Collisions = append(report.Collisions, Collision{
				Column:    col.Name,
				LeftName:  finalLeft[col.Name],
				RightName: name,
			})
		}
		out.Columns = append(out.Columns, Column{Name: name, Source: col.Source})
	}

	leftOrder, leftGroups := groupByKey(left)
	rightOrder, rightGroups := groupByKey(right)

	emit := func(k joinKey, l, r int) {
		row := make([]domain.Value, 0, len(out.Columns))
		row = append(row, k.first, k.last)
		for _, c := range leftCols {
			if l < 0 {
				row = append(row, domain.Missing)
			} else {
				row = append(row, left.Rows[l][c])
			}
		}
		for _, c := range rightCols {
			if r < 0 {
				row = append(row, domain.Missing)
			} else {
				row = append(row, right.Rows[r][c])
			}
		}
		out.Rows = append(out.Rows, row)
	}

	for _, k := range leftOrder {
		rs, matched := rightGroups[k]
		for _, l := range leftGroups[k] {
			if !matched {
				emit(k, l, -1)
				continue
			}
			for _, r := range rs {
				emit(k, l, r)
			}
		}
	}
	for _, k := range rightOrder {
		if _, seen := leftGroups[k]; seen {
			continue
		}
		for _, r := range rightGroups[k] {
			emit(k, -1, r)
		}
	}

	report.Rows = out.Len()
	report.Keys = len(keySet(out))
	return out, report
}

// MergeAll folds Merge left-associatively: merge(merge(a, b), c).
func MergeAll(tables ...Table) (Table, MergeReport) {
	if len(tables) == 0 {
		return Table{}, MergeReport{}
	}
	acc := tables[0]
	report := MergeReport{Inputs: []string{acc.Name}}
	if len(tables) == 1 {
		acc = acc.Clone()
	}
	for _, next := range tables[1:] {
		var step MergeReport
		acc, step = Merge(acc, next)
		report.Inputs = append(report.Inputs, next.Name)
		report.Collisions = append(report.Collisions, step.Collisions...)
	}
	report.Rows = acc.Len()
	report.Keys = len(keySet(acc))
	return acc, report
}

func nonKeyColumns(t Table) []int {
	var cols []int
	for i, c := range t.Columns {
		if c.Name == domain.ColFirstName || c.Name == domain.ColLastName {
			continue
		}
		cols = append(cols, i)
	}
	return cols
}

func sourceOf(t Table, name string) string {
	if idx := t.Index(name); idx >= 0 && t.Columns[idx].Source != "" {
		return t.Columns[idx].Source
	}
	return t.Name
}

func rowKey(t Table, i int) joinKey {
	return joinKey{
		first: t.Cell(i, domain.ColFirstName),
		last:  t.Cell(i, domain.ColLastName),
	}
}

func groupByKey(t Table) ([]joinKey, map[joinKey][]int) {
	var order []joinKey
	groups := make(map[joinKey][]int)
	for i := range t.Rows {
		k := rowKey(t, i)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	return order, groups
}

func keySet(t Table) map[joinKey]struct{} {
	set := make(map[joinKey]struct{}, t.Len())
	for i := range t.Rows {
		set[rowKey(t, i)] = struct{}{}
	}
	return set
}
