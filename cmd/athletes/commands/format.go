package commands

import (
	"strconv"

	"athletepulse/pkg/contracts/domain"
)

const placeholder = "-"

func show(v domain.Value) string {
	if v.IsMissing() {
		return placeholder
	}
	return v.Text
}

func showMean(m domain.Mean) string {
	if !m.Valid {
		return placeholder
	}
	return strconv.FormatFloat(m.Value, 'f', 2, 64)
}

func showScore(s domain.Score) string {
	if !s.Valid {
		return placeholder
	}
	return strconv.FormatFloat(s.Value, 'f', 1, 64) + "%"
}
