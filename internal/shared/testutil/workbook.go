package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Sheet is a header plus data rows of a fixture workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// WriteWorkbook saves the sheets as an .xlsx file in dir and returns its path.
// The first sheet replaces the default "Sheet1".
func WriteWorkbook(t *testing.T, dir, name string, sheets ...Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), s.Name))
		} else {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}

		header := make([]interface{}, len(s.Header))
		for j, h := range s.Header {
			header[j] = h
		}
		require.NoError(t, f.SetSheetRow(s.Name, "A1", &header))
		for j, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(s.Name, cell, &row))
		}
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// AthleteWorkbooks writes Global_data.xlsx, Physical_data.xlsx and
// After_Game_data.xlsx with two athletes into dir and returns dir.
func AthleteWorkbooks(t *testing.T, dir string) string {
	t.Helper()

	WriteWorkbook(t, dir, "Global_data.xlsx", Sheet{
		Name:   "Global",
		Header: []string{"First Name", "Last Name", "Age", "Height(cm)", "Weight(kg)", "Foot", "Position"},
		Rows: [][]interface{}{
			{"Alex", "Smith", 24, 180, 75, "Right", "Midfielder"},
			{"sam ", "TAYLOR", 19, 172, 68, "Left", "Defender"},
		},
	})
	WriteWorkbook(t, dir, "Physical_data.xlsx", Sheet{
		Name: "Physical",
		Header: []string{"First Name", "Last Name", "Exertion Training", "Exertion Games",
			"30m Sprint time (seconds)", "Sleep Quality", "Flexibility (cm)", "Vertical Jump (in cm)"},
		Rows: [][]interface{}{
			{"alex", "smith", 7, 8, 4.1, 6, 30, 50},
			{"Sam", "Taylor", 5, 6, 4.4, 8, 28, 46},
		},
	})
	WriteWorkbook(t, dir, "After_Game_data.xlsx", Sheet{
		Name: "After Game",
		Header: []string{"First Name", "Last Name", "Date of the game", "Time played(min)", "Game Results",
			"Goals Scored", "Assist", "Fouls Commited", "Numbers of Times Fouled", "Overall Feeling",
			"Physical Feeling", "Injuries"},
		Rows: [][]interface{}{
			{"Alex", "Smith", "2024-03-02", 90, "Win", 1, 0, 2, 1, 0.4, 0.5, "Major ACL tear"},
			{"Alex", "Smith", "2024-03-09", 70, "Loss", 0, 1, 1, 3, 0.5, 0.9, ""},
			{"Sam", "Taylor", "2024-04-10", 60, "Draw", 0, 0, 0, 0, 0.9, 0.9, ""},
		},
	})
	return dir
}
