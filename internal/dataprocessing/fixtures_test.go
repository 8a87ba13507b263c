package dataprocessing

import (
	"athletepulse/pkg/contracts/domain"
)

func globalTable() Table {
	return NewTable(TableGlobal,
		[]string{domain.ColFirstName, domain.ColLastName, domain.ColAge, domain.ColHeight, domain.ColWeight, domain.ColFoot, domain.ColPosition},
		[][]string{
			{" Alex ", "SMITH", "24", "180", "75", "Right", "Midfielder"},
			{"jordan", "lee", "", "", "", "", ""},
			{"Sam", "Taylor", "19", "172", "68", "Left", "Defender"},
		})
}

func physicalTable() Table {
	return NewTable(TablePhysical,
		[]string{domain.ColFirstName, domain.ColLastName, domain.ColExertionTraining, domain.ColExertionGames, domain.ColSprintTime, domain.ColSleepQuality, domain.ColFlexibility, domain.ColVerticalJump},
		[][]string{
			{"alex", "smith", "7", "8", "10", "6", "30", "50"},
			{"Alex", "Smith", "5", "6", "", "8", "32", "52"},
			{"Alex", "Smith", "6", "7", "12", "7", "31", "51"},
			{"Jordan", "Lee", "4", "4", "13", "5", "20", "40"},
		})
}

func afterGameTable() Table {
	return NewTable(TableAfterGame,
		[]string{domain.ColFirstName, domain.ColLastName, domain.ColGameDate, domain.ColTimePlayed, domain.ColGameResults, domain.ColGoalsScored, domain.ColAssist, domain.ColFoulsCommitted, domain.ColTimesFouled, domain.ColOverallFeeling, domain.ColPhysicalFeeling, domain.ColInjuries},
		[][]string{
			{"Sam", "Taylor", "2024-03-02", "90", "Win", "1", "0", "2", "1", "0.9", "0.8", ""},
			{"Sam", "Taylor", "2024-04-10", "60", "Loss", "0", "1", "1", "3", "0.5", "0.6", "Minor ankle sprain"},
			{"Casey", "Brown", "2024-03-15", "45", "Draw", "0", "0", "0", "0", "0.7", "0.7", ""},
		})
}

func record(date string, overall, physical string) domain.AthleteRecord {
	raw := domain.CellValue(date)
	return domain.AthleteRecord{
		GameDateRaw:     domain.LabelOf(raw),
		GameDate:        ParseDate(raw),
		OverallFeeling:  domain.CellValue(overall),
		PhysicalFeeling: domain.CellValue(physical),
	}
}
