package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a single spreadsheet cell. A Value is either present text or missing.
// Missing values are never substituted with zero.
type Value struct {
	Text  string
	Valid bool
}

// Missing is the missing-value marker.
var Missing = Value{}

// Text returns a present value holding s.
func Text(s string) Value {
	return Value{Text: s, Valid: true}
}

// CellValue converts a raw cell into a Value. Empty or whitespace-only cells
// and the usual spreadsheet NA spellings are missing.
func CellValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "nan", "nat", "n/a", "na", "null", "none", "#n/a":
		return Missing
	}
	return Value{Text: raw, Valid: true}
}

// IsMissing reports whether the value is missing.
func (v Value) IsMissing() bool {
	return !v.Valid
}

// String returns the text, or an empty string for a missing value.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return v.Text
}

// Float coerces the value to a finite number. Missing, unparsable, infinite and
// NaN values report ok=false.
func (v Value) Float() (float64, bool) {
	if !v.Valid {
		return 0, false
	}
	s := strings.ReplaceAll(strings.TrimSpace(v.Text), ",", "")
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Equal reports key equality: two missing values are equal to each other.
func (v Value) Equal(o Value) bool {
	if v.Valid != o.Valid {
		return false
	}
	return !v.Valid || v.Text == o.Text
}

// MarshalJSON encodes missing values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	if f, ok := v.Float(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(v.Text)
}

// Label is a free-text cell such as a name, foot, result or raw date. It always
// encodes as a JSON string, so "007" stays "007".
type Label struct {
	Value
}

// LabelOf wraps v as a Label.
func LabelOf(v Value) Label {
	return Label{Value: v}
}

// MarshalJSON encodes missing labels as null and present ones as strings.
func (l Label) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(l.Text)
}
