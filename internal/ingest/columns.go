package ingest

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"athletepulse/internal/dataprocessing"
	apperrors "athletepulse/internal/errors"
	"athletepulse/pkg/contracts/domain"
)

// RequiredColumns lists the headers each input table must carry. Injuries is
// optional and not listed.
var RequiredColumns = map[string][]string{
	dataprocessing.TableGlobal: {
		domain.ColFirstName, domain.ColLastName, domain.ColAge, domain.ColHeight,
		domain.ColWeight, domain.ColFoot, domain.ColPosition,
	},
	dataprocessing.TablePhysical: {
		domain.ColFirstName, domain.ColLastName, domain.ColExertionTraining, domain.ColExertionGames,
		domain.ColSprintTime, domain.ColSleepQuality, domain.ColFlexibility, domain.ColVerticalJump,
	},
	dataprocessing.TableAfterGame: {
		domain.ColFirstName, domain.ColLastName, domain.ColGameDate, domain.ColTimePlayed,
		domain.ColGameResults, domain.ColGoalsScored, domain.ColAssist, domain.ColFoulsCommitted,
		domain.ColTimesFouled, domain.ColOverallFeeling, domain.ColPhysicalFeeling,
	},
}

// CheckColumns returns a validation error naming every required header the
// table lacks. Tables with an unknown name only need the two name columns.
func CheckColumns(t dataprocessing.Table) error {
	required, ok := RequiredColumns[t.Name]
	if !ok {
		required = []string{domain.ColFirstName, domain.ColLastName}
	}
	missing := lo.Filter(required, func(c string, _ int) bool { return !t.Has(c) })
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewAppValidationError(
		fmt.Sprintf("%s is missing required columns: %s", t.Name, strings.Join(missing, ", "))).
		WithContext("table", t.Name).
		WithContext("missing_columns", missing)
}
