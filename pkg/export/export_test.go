package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/labscheduling/pkg/model"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSchedule() (model.Schedule, model.Stats) {
	group := model.Group{
		Id:      "Física I_G1",
		Subject: "Física I",
		Students: []model.Student{
			{Id: "12345678A", Name: "Ana", Surname: "García", Subject: "Física I"},
			{Id: "23456789B", Name: "Luis", Surname: "Martín", Subject: "Física I"},
		},
	}
	unassigned := model.Group{Id: "Redes_G1", Subject: "Redes", Students: []model.Student{{Id: "1"}}}

	schedule := model.Schedule{
		Strategy: model.StrategyGreedy,
		Assignments: []model.Assignment{{
			Group:      group,
			Laboratory: "Lab_Fisica_A",
			Slot:       model.TimeSlot{Day: model.Tuesday, Start: 10 * 60, End: 12 * 60},
		}},
		Unassigned: []model.UnassignedGroup{{Group: unassigned, Reason: model.ReasonNoFreeSlot}},
	}
	stats := model.Stats{
		TotalGroups:     2,
		AssignedGroups:  1,
		LabsUsed:        1,
		AssignableBound: 1,
		Unassigned:      []model.UnassignedStat{{GroupId: "Redes_G1", Subject: "Redes", Students: 1, Reason: model.ReasonNoFreeSlot}},
	}
	return schedule, stats
}

var expectedRow = Row{
	GroupId:    "Física I_G1",
	Subject:    "Física I",
	Laboratory: "Lab_Fisica_A",
	Day:        "Tuesday",
	Start:      "10:00",
	End:        "12:00",
	Students:   2,
	Members:    "Ana García (12345678A); Luis Martín (23456789B)",
}

func TestWrite(t *testing.T) {
	schedule, stats := sampleSchedule()

	t.Run("Csv", func(t *testing.T) {
		//** Arrange
		path := filepath.Join(t.TempDir(), "horarios.csv")

		//** Act
		written, err := Write(path, schedule, stats)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, path, written)

		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()
		rows := make([]Row, 0)
		require.NoError(t, gocsv.UnmarshalFile(file, &rows))
		assert.Equal(t, []Row{expectedRow}, rows)
	})

	t.Run("Xlsx", func(t *testing.T) {
		//** Arrange
		path := filepath.Join(t.TempDir(), "out", "horarios.xlsx")

		//** Act
		_, err := Write(path, schedule, stats)

		//** Assert
		require.NoError(t, err)
		workbook, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer workbook.Close()

		assert.Equal(t, []string{SheetSchedule, SheetStats, SheetUnassigned}, workbook.GetSheetList())

		rows, err := workbook.GetRows(SheetSchedule)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "grupo_id", rows[0][0])
		assert.Equal(t, []string{"Física I_G1", "Física I", "Lab_Fisica_A", "Tuesday", "10:00", "12:00", "2", expectedRow.Members}, rows[1])

		value, err := workbook.GetCellValue(SheetStats, "B2")
		require.NoError(t, err)
		assert.Equal(t, "2", value)

		unassigned, err := workbook.GetRows(SheetUnassigned)
		require.NoError(t, err)
		require.Len(t, unassigned, 2)
		assert.Equal(t, "no-free-slot", unassigned[1][3])
	})

	t.Run("Json", func(t *testing.T) {
		//** Arrange
		path := filepath.Join(t.TempDir(), "horarios.json")

		//** Act
		_, err := Write(path, schedule, stats)

		//** Assert
		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)

		var decoded document
		require.NoError(t, json.Unmarshal(content, &decoded))
		assert.Equal(t, []Row{expectedRow}, decoded.Schedule)
		assert.Equal(t, stats, decoded.Stats)
	})

	t.Run("Unsupported format", func(t *testing.T) {
		//** Act
		_, err := Write(filepath.Join(t.TempDir(), "horarios.pdf"), schedule, stats)

		//** Assert
		assert.Error(t, err)
	})
}
