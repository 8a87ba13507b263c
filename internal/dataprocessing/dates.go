package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"athletepulse/pkg/contracts/domain"
)

// dateLayouts are tried in order. Month-first wins over day-first for
// slash-separated dates, matching how the spreadsheets are exported.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"02.01.2006",
	"2.1.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate parses a game date. Unparsable or missing values return nil; the
// caller treats nil as the missing-date marker. Bare numbers are read as Excel
// serial day numbers.
func ParseDate(v domain.Value) *time.Time {
	if v.IsMissing() {
		return nil
	}
	s := strings.TrimSpace(v.Text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
