package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athletepulse/pkg/contracts/domain"
)

func TestFilterAvailable(t *testing.T) {
	in := NewTable("t",
		[]string{domain.ColFirstName, domain.ColLastName, domain.ColAge, domain.ColGameDate, domain.ColSleepQuality},
		[][]string{
			{"a", "a", "20", "", ""},
			{"b", "b", "", "", "7"},
			{"c", "c", "", "2024-01-01", ""},
			{"d", "d", "NaN", " ", ""},
		})

	out, dropped := FilterAvailable(in)

	require.Equal(t, 2, out.Len())
	assert.Equal(t, 2, dropped)
	assert.Equal(t, "a", out.Cell(0, domain.ColFirstName).Text)
	assert.Equal(t, "c", out.Cell(1, domain.ColFirstName).Text)
	assert.Equal(t, 4, in.Len(), "input untouched")
}

func TestFilterAvailableAbsentColumnsCountAsMissing(t *testing.T) {
	in := NewTable("t", []string{domain.ColFirstName, domain.ColLastName, domain.ColSleepQuality}, [][]string{{"a", "a", "7"}})

	out, dropped := FilterAvailable(in)

	assert.Zero(t, out.Len())
	assert.Equal(t, 1, dropped)
}
