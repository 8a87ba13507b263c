package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"athletepulse/internal/dataprocessing"
)

// Workbooks are the three spreadsheet file paths.
type Workbooks struct {
	Global    string
	Physical  string
	AfterGame string
}

// Default workbook file names.
const (
	GlobalWorkbook    = "Global_data.xlsx"
	PhysicalWorkbook  = "Physical_data.xlsx"
	AfterGameWorkbook = "After_Game_data.xlsx"
)

var workbookKeys = map[string]string{
	canonical(GlobalWorkbook):    dataprocessing.TableGlobal,
	canonical(PhysicalWorkbook):  dataprocessing.TablePhysical,
	canonical(AfterGameWorkbook): dataprocessing.TableAfterGame,
}

// canonical folds case and treats '-', '_' and spaces as the same separator.
func canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
}

// Discover finds the three workbooks in dir. An explicit path in fixed wins
// over discovery.
func Discover(dir string, fixed Workbooks) (Workbooks, error) {
	found := fixed
	if found.Global != "" && found.Physical != "" && found.AfterGame != "" {
		return found, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Workbooks{}, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		switch workbookKeys[canonical(entry.Name())] {
		case dataprocessing.TableGlobal:
			if found.Global == "" {
				found.Global = path
			}
		case dataprocessing.TablePhysical:
			if found.Physical == "" {
				found.Physical = path
			}
		case dataprocessing.TableAfterGame:
			if found.AfterGame == "" {
				found.AfterGame = path
			}
		}
	}

	var missing []string
	if found.Global == "" {
		missing = append(missing, GlobalWorkbook)
	}
	if found.Physical == "" {
		missing = append(missing, PhysicalWorkbook)
	}
	if found.AfterGame == "" {
		missing = append(missing, AfterGameWorkbook)
	}
	if len(missing) > 0 {
		return found, fmt.Errorf("workbooks not found in %s: %s", dir, strings.Join(missing, ", "))
	}
	return found, nil
}

// Sources returns excel sources for the workbooks, reading their first sheet.
func (w Workbooks) Sources() (global, physical, afterGame Source) {
	return ExcelSource{Table: dataprocessing.TableGlobal, Path: w.Global},
		ExcelSource{Table: dataprocessing.TablePhysical, Path: w.Physical},
		ExcelSource{Table: dataprocessing.TableAfterGame, Path: w.AfterGame}
}
