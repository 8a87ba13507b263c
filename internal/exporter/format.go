package exporter

import (
	"strconv"

	"athletepulse/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatMean leaves a mean without any present value blank
func formatMean(m domain.Mean) string {
	if !m.Valid {
		return ""
	}
	return formatFloat(m.Value)
}

// cellValue is what a workbook cell holds for v: nothing when missing, a
// number when the text is numeric, the text otherwise.
func cellValue(v domain.Value) interface{} {
	if v.IsMissing() {
		return nil
	}
	if f, ok := v.Float(); ok {
		return f
	}
	return v.Text
}

// labelCell keeps free text as text
func labelCell(l domain.Label) interface{} {
	if l.IsMissing() {
		return nil
	}
	return l.Text
}

// meanCell is cellValue for means
func meanCell(m domain.Mean) interface{} {
	if !m.Valid {
		return nil
	}
	return m.Value
}
