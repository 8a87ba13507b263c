package dataprocessing

import (
	"athletepulse/pkg/contracts/domain"
)

// Projection is one athlete's slice of the filtered table, in table order.
type Projection struct {
	Athlete string
	Records []domain.AthleteRecord
}

// Project selects the rows whose derived full name equals fullName exactly and
// parses their game dates. No match is a valid, empty projection.
func Project(t Table, fullName string) Projection {
	p := Projection{Athlete: fullName}
	idx := t.Index(domain.ColFullName)
	for i := range t.Rows {
		var name domain.Value
		if idx >= 0 {
			name = t.Rows[i][idx]
		} else {
			name = FullName(t.Cell(i, domain.ColFirstName), t.Cell(i, domain.ColLastName))
		}
		if name.IsMissing() || name.Text != fullName {
			continue
		}
		p.Records = append(p.Records, RecordAt(t, i))
	}
	return p
}

// Empty reports whether no row matched.
func (p Projection) Empty() bool {
	return len(p.Records) == 0
}

// HasDates reports whether at least one row has a parsable game date.
func (p Projection) HasDates() bool {
	for _, r := range p.Records {
		if r.HasDate() {
			return true
		}
	}
	return false
}

// Injuries returns the injury annotations of every row, in order.
func (p Projection) Injuries() []domain.Value {
	out := make([]domain.Value, 0, len(p.Records))
	for _, r := range p.Records {
		out = append(out, r.Injuries.Value)
	}
	return out
}

// Profile returns the player info from the first row.
func (p Projection) Profile() domain.Profile {
	if p.Empty() {
		return domain.Profile{FullName: p.Athlete}
	}
	first := p.Records[0]
	return domain.Profile{
		FullName: p.Athlete,
		Age:      first.Age,
		Height:   first.Height,
		Weight:   first.Weight,
		Foot:     first.Foot,
		Position: first.Position,
	}
}

// RecordAt maps row i of a merged table onto an AthleteRecord by column name.
func RecordAt(t Table, i int) domain.AthleteRecord {
	cell := func(name string) domain.Value { return t.Cell(i, name) }
	first, last := cell(domain.ColFirstName), cell(domain.ColLastName)
	full := cell(domain.ColFullName)
	if !t.Has(domain.ColFullName) {
		full = FullName(first, last)
	}
	rawDate := cell(domain.ColGameDate)
	return domain.AthleteRecord{
		Index:            i,
		FirstName:        domain.LabelOf(first),
		LastName:         domain.LabelOf(last),
		FullName:         domain.LabelOf(full),
		Age:              cell(domain.ColAge),
		Height:           cell(domain.ColHeight),
		Weight:           cell(domain.ColWeight),
		Foot:             domain.LabelOf(cell(domain.ColFoot)),
		Position:         domain.LabelOf(cell(domain.ColPosition)),
		GameDateRaw:      domain.LabelOf(rawDate),
		GameDate:         ParseDate(rawDate),
		MinutesPlayed:    cell(domain.ColTimePlayed),
		Result:           domain.LabelOf(cell(domain.ColGameResults)),
		Goals:            cell(domain.ColGoalsScored),
		Assists:          cell(domain.ColAssist),
		FoulsCommitted:   cell(domain.ColFoulsCommitted),
		FoulsReceived:    cell(domain.ColTimesFouled),
		OverallFeeling:   cell(domain.ColOverallFeeling),
		PhysicalFeeling:  cell(domain.ColPhysicalFeeling),
		ExertionTraining: cell(domain.ColExertionTraining),
		ExertionGame:     cell(domain.ColExertionGames),
		SprintTime:       cell(domain.ColSprintTime),
		SleepQuality:     cell(domain.ColSleepQuality),
		Flexibility:      cell(domain.ColFlexibility),
		VerticalJump:     cell(domain.ColVerticalJump),
		Injuries:         domain.LabelOf(cell(domain.ColInjuries)),
	}
}
