package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/limaJavier/labscheduling/pkg/model"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
)

const (
	FormatCsv  = ".csv"
	FormatXlsx = ".xlsx"
	FormatJson = ".json"
)

// Row is one assignment as written to the output. Column names match the ones the department's reports expect
type Row struct {
	GroupId    string `csv:"grupo_id" json:"grupo_id"`
	Subject    string `csv:"asignatura" json:"asignatura"`
	Laboratory string `csv:"laboratorio" json:"laboratorio"`
	Day        string `csv:"dia" json:"dia"`
	Start      string `csv:"hora_inicio" json:"hora_inicio"`
	End        string `csv:"hora_fin" json:"hora_fin"`
	Students   int    `csv:"num_alumnos" json:"num_alumnos"`
	Members    string `csv:"alumnos" json:"alumnos"`
}

func Rows(schedule model.Schedule) []Row {
	return lo.Map(schedule.Assignments, func(assignment model.Assignment, _ int) Row {
		return Row{
			GroupId:    assignment.Group.Id,
			Subject:    assignment.Group.Subject,
			Laboratory: assignment.Laboratory,
			Day:        assignment.Slot.Day.String(),
			Start:      assignment.Slot.Start.String(),
			End:        assignment.Slot.End.String(),
			Students:   assignment.Group.Size(),
			Members: strings.Join(lo.Map(assignment.Group.Students, func(student model.Student, _ int) string {
				return strings.TrimSpace(fmt.Sprintf("%v %v", student.Name, student.Surname)) + " (" + student.Id + ")"
			}), "; "),
		}
	})
}

// Write serializes the schedule and its statistics to path, in the format given by its extension, and returns the path written
func Write(path string, schedule model.Schedule, stats model.Stats) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("cannot create output directory: %w", err)
		}
	}

	rows := Rows(schedule)

	var err error
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case FormatCsv:
		err = writeCsv(path, rows)
	case FormatXlsx:
		err = writeXlsx(path, rows, stats)
	case FormatJson:
		err = writeJson(path, rows, stats)
	default:
		return "", fmt.Errorf("unsupported output format %q", extension)
	}
	if err != nil {
		return "", fmt.Errorf("cannot write %v: %w", path, err)
	}
	return path, nil
}

func writeCsv(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return err
	}
	return file.Close()
}

type document struct {
	Schedule []Row       `json:"horarios"`
	Stats    model.Stats `json:"estadisticas"`
}

func writeJson(path string, rows []Row, stats model.Stats) error {
	content, err := json.MarshalIndent(document{Schedule: rows, Stats: stats}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(content, '\n'), 0o644)
}
