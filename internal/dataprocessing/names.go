package dataprocessing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"athletepulse/pkg/contracts/domain"
)

// KeyColumns are the join-key columns shared by all three tables.
var KeyColumns = []string{domain.ColFirstName, domain.ColLastName}

// NormalizeName trims surrounding whitespace and lower-cases a name. A missing
// name stays missing.
func NormalizeName(v domain.Value) domain.Value {
	if v.IsMissing() {
		return domain.Missing
	}
	return domain.Text(strings.ToLower(strings.TrimSpace(v.Text)))
}

// NormalizeNames returns a copy of t with both key columns normalized.
func NormalizeNames(t Table) Table {
	out := t.Clone()
	for _, key := range KeyColumns {
		idx := out.Index(key)
		if idx < 0 {
			continue
		}
		for _, row := range out.Rows {
			row[idx] = NormalizeName(row[idx])
		}
	}
	return out
}

// Capitalize upper-cases the first rune and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

// FullName derives the display name used to select an athlete. It is missing
// when either part is missing.
func FullName(first, last domain.Value) domain.Value {
	if first.IsMissing() || last.IsMissing() {
		return domain.Missing
	}
	return domain.Text(Capitalize(first.Text) + " " + Capitalize(last.Text))
}
