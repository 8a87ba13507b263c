package domain

// AthleteView is everything the dashboard shows after an athlete is selected.
type AthleteView struct {
	Athlete           string             `json:"athlete"`
	Profile           Profile            `json:"profile"`
	PhysicalCondition PhysicalCondition  `json:"physical_condition"`
	RecentGames       []GameLine         `json:"recent_games"`
	Satisfaction      SatisfactionScores `json:"satisfaction"`
	Monthly           []PeriodMean       `json:"monthly"`
	Rows              int                `json:"rows"`
	// HasGameData is false when no row carries a parsable game date.
	HasGameData bool `json:"has_game_data"`
}

// InsightReport is the answer to an insights request.
type InsightReport struct {
	Athlete      string             `json:"athlete"`
	Satisfaction SatisfactionScores `json:"satisfaction"`
	Insights     []Insight          `json:"insights"`
}
