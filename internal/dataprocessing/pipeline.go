package dataprocessing

import (
	"time"

	"github.com/samber/lo"

	"athletepulse/pkg/contracts/domain"
)

// Table names of the three spreadsheet exports. They double as collision suffixes.
const (
	TableGlobal    = "global"
	TablePhysical  = "physical"
	TableAfterGame = "after_game"
)

// BuildReport summarizes a pipeline run.
type BuildReport struct {
	MergeReport
	Merged   int       `json:"merged_rows"`
	Filtered int       `json:"filtered_rows"`
	Dropped  int       `json:"dropped_rows"`
	Athletes int       `json:"athletes"`
	Columns  []string  `json:"columns"`
	BuiltAt  time.Time `json:"built_at"`
}

// Dataset is the immutable result of a pipeline run. Accessors return copies,
// so a Dataset can be shared between goroutines without locking.
type Dataset struct {
	merged   Table
	filtered Table
	athletes []string
	report   BuildReport
}

// Build runs normalize, merge, filter and derive over the three tables.
func Build(global, physical, afterGame Table) *Dataset {
	merged, mr := MergeAll(
		NormalizeNames(global),
		NormalizeNames(physical),
		NormalizeNames(afterGame),
	)
	filtered, dropped := FilterAvailable(merged)
	filtered = filtered.WithColumn(Column{Name: domain.ColFullName, Source: "derived"}, func(i int) domain.Value {
		return FullName(filtered.Cell(i, domain.ColFirstName), filtered.Cell(i, domain.ColLastName))
	})

	names := make([]string, 0, filtered.Len())
	for i := range filtered.Rows {
		if v := filtered.Cell(i, domain.ColFullName); !v.IsMissing() {
			names = append(names, v.Text)
		}
	}
	athletes := lo.Uniq(names)

	return &Dataset{
		merged:   merged,
		filtered: filtered,
		athletes: athletes,
		report: BuildReport{
			MergeReport: mr,
			Merged:      merged.Len(),
			Filtered:    filtered.Len(),
			Dropped:     dropped,
			Athletes:    len(athletes),
			Columns:     filtered.ColumnNames(),
			BuiltAt:     time.Now().UTC(),
		},
	}
}

// Merged returns a copy of the merged, unfiltered table.
func (d *Dataset) Merged() Table {
	return d.merged.Clone()
}

// Filtered returns a copy of the filtered table including the full_name column.
func (d *Dataset) Filtered() Table {
	return d.filtered.Clone()
}

// Athletes returns the selectable full names in first-seen order.
func (d *Dataset) Athletes() []string {
	return append([]string(nil), d.athletes...)
}

// Report returns the build summary.
func (d *Dataset) Report() BuildReport {
	r := d.report
	r.Columns = append([]string(nil), d.report.Columns...)
	r.Collisions = append([]Collision(nil), d.report.Collisions...)
	r.Inputs = append([]string(nil), d.report.Inputs...)
	return r
}

// Project selects one athlete's rows from the filtered table.
func (d *Dataset) Project(fullName string) Projection {
	return Project(d.filtered, fullName)
}
