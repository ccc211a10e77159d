package export

import (
	"github.com/limaJavier/labscheduling/pkg/model"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSchedule   = "Horarios"
	SheetStats      = "Estadisticas"
	SheetUnassigned = "Sin asignar"
)

var scheduleHeader = []any{"grupo_id", "asignatura", "laboratorio", "dia", "hora_inicio", "hora_fin", "num_alumnos", "alumnos"}

func writeXlsx(path string, rows []Row, stats model.Stats) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	//** Schedule sheet
	if err := workbook.SetSheetName(workbook.GetSheetName(0), SheetSchedule); err != nil {
		return err
	}
	table := make([][]any, 0, len(rows)+1)
	table = append(table, scheduleHeader)
	for _, row := range rows {
		table = append(table, []any{row.GroupId, row.Subject, row.Laboratory, row.Day, row.Start, row.End, row.Students, row.Members})
	}
	if err := writeSheet(workbook, SheetSchedule, table); err != nil {
		return err
	}

	//** Statistics sheet
	if err := writeSheet(workbook, SheetStats, [][]any{
		{"estadistica", "valor"},
		{"total_groups", stats.TotalGroups},
		{"assigned_groups", stats.AssignedGroups},
		{"success_rate", stats.SuccessRate()},
		{"conflicts_detected", stats.ConflictsDetected},
		{"labs_used", stats.LabsUsed},
		{"assignable_bound", stats.AssignableBound},
		{"penalty", stats.Penalty},
	}); err != nil {
		return err
	}

	//** Unassigned sheet
	unassigned := [][]any{{"grupo_id", "asignatura", "num_alumnos", "motivo"}}
	for _, group := range stats.Unassigned {
		unassigned = append(unassigned, []any{group.GroupId, group.Subject, group.Students, string(group.Reason)})
	}
	if err := writeSheet(workbook, SheetUnassigned, unassigned); err != nil {
		return err
	}

	return workbook.SaveAs(path)
}

// Writes the rows from A1 downwards, creating the sheet if needed
func writeSheet(workbook *excelize.File, sheet string, rows [][]any) error {
	if index, err := workbook.GetSheetIndex(sheet); err != nil {
		return err
	} else if index == -1 {
		if _, err := workbook.NewSheet(sheet); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
