package domain

import (
	"time"
)

// Source column headers of the three spreadsheet exports.
const (
	ColFirstName = "First Name"
	ColLastName  = "Last Name"

	// Global data
	ColAge      = "Age"
	ColHeight   = "Height(cm)"
	ColWeight   = "Weight(kg)"
	ColFoot     = "Foot"
	ColPosition = "Position"

	// Physical data
	ColExertionTraining = "Exertion Training"
	ColExertionGames    = "Exertion Games"
	ColSprintTime       = "30m Sprint time (seconds)"
	ColSleepQuality     = "Sleep Quality"
	ColFlexibility      = "Flexibility (cm)"
	ColVerticalJump     = "Vertical Jump (in cm)"

	// After game data
	ColGameDate        = "Date of the game"
	ColTimePlayed      = "Time played(min)"
	ColGameResults     = "Game Results"
	ColGoalsScored     = "Goals Scored"
	ColAssist          = "Assist"
	ColFoulsCommitted  = "Fouls Commited"
	ColTimesFouled     = "Numbers of Times Fouled"
	ColOverallFeeling  = "Overall Feeling"
	ColPhysicalFeeling = "Physical Feeling"
	ColInjuries        = "Injuries"

	// ColFullName is derived after filtering.
	ColFullName = "full_name"
)

// TrackedColumns decide whether a merged row carries any real data.
var TrackedColumns = []string{
	ColAge, ColHeight, ColWeight, ColFoot, ColPosition, ColGameDate, ColGameResults,
}

// AthleteRecord is one merged row: one athlete observation.
type AthleteRecord struct {
	// Index is the row position in the filtered table.
	Index int `json:"index"`

	FirstName Label `json:"first_name"`
	LastName  Label `json:"last_name"`
	FullName  Label `json:"full_name"`

	Age      Value `json:"age"`
	Height   Value `json:"height_cm"`
	Weight   Value `json:"weight_kg"`
	Foot     Label `json:"foot"`
	Position Label `json:"position"`

	GameDateRaw     Label      `json:"game_date_raw"`
	GameDate        *time.Time `json:"game_date,omitempty"`
	MinutesPlayed   Value      `json:"minutes_played"`
	Result          Label      `json:"result"`
	Goals           Value      `json:"goals"`
	Assists         Value      `json:"assists"`
	FoulsCommitted  Value      `json:"fouls_committed"`
	FoulsReceived   Value      `json:"fouls_received"`
	OverallFeeling  Value      `json:"overall_feeling"`
	PhysicalFeeling Value      `json:"physical_feeling"`

	ExertionTraining Value `json:"exertion_training"`
	ExertionGame     Value `json:"exertion_game"`
	SprintTime       Value `json:"sprint_time_s"`
	SleepQuality     Value `json:"sleep_quality"`
	Flexibility      Value `json:"flexibility_cm"`
	VerticalJump     Value `json:"vertical_jump_cm"`

	Injuries Label `json:"injuries"`
}

// HasDate reports whether the game date parsed.
func (r AthleteRecord) HasDate() bool {
	return r.GameDate != nil
}

// Profile is the "Player Info" block, taken from an athlete's first row.
type Profile struct {
	FullName string `json:"full_name"`
	Age      Value  `json:"age"`
	Height   Value  `json:"height_cm"`
	Weight   Value  `json:"weight_kg"`
	Foot     Label  `json:"foot"`
	Position Label  `json:"position"`
}

// GameLine is one row of the recent game performance table.
type GameLine struct {
	Date           Label `json:"date"`
	MinutesPlayed  Value `json:"minutes_played"`
	Result         Label `json:"result"`
	Goals          Value `json:"goals_scored"`
	Assists        Value `json:"assists"`
	FoulsCommitted Value `json:"fouls_committed"`
	FoulsReceived  Value `json:"fouls_received"`
}

// GameLineOf extracts the recent game columns from a record.
func GameLineOf(r AthleteRecord) GameLine {
	return GameLine{
		Date:           r.GameDateRaw,
		MinutesPlayed:  r.MinutesPlayed,
		Result:         r.Result,
		Goals:          r.Goals,
		Assists:        r.Assists,
		FoulsCommitted: r.FoulsCommitted,
		FoulsReceived:  r.FoulsReceived,
	}
}
