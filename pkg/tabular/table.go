package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// table is a source read into memory: a normalized header followed by data records of the same width
type table struct {
	header  []string
	records [][]string
}

// Reads a delimited text or spreadsheet source, chosen by file extension
func readTable(path string, delimiter rune) (table, error) {
	var rows [][]string
	var err error

	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".csv", ".txt":
		rows, err = readDelimited(path, delimiter)
	case ".xlsx", ".xlsm":
		rows, err = readSpreadsheet(path)
	default:
		return table{}, fmt.Errorf("unsupported file format %q", extension)
	}
	if err != nil {
		return table{}, err
	}

	// Drop blank lines, which spreadsheets commonly leave at the bottom
	rows = lo.Filter(rows, func(row []string, _ int) bool {
		return lo.SomeBy(row, func(cell string) bool { return strings.TrimSpace(cell) != "" })
	})
	if len(rows) == 0 {
		return table{}, fmt.Errorf("source is empty")
	}

	header := lo.Map(rows[0], func(cell string, i int) string {
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		return strings.ToLower(strings.TrimSpace(cell))
	})

	records := lo.Map(rows[1:], func(row []string, _ int) []string {
		record := make([]string, len(header))
		for i := range min(len(row), len(header)) {
			record[i] = strings.TrimSpace(row[i])
		}
		return record
	})

	return table{header: header, records: records}, nil
}

func readDelimited(path string, delimiter rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// Reads the first sheet of the workbook
func readSpreadsheet(path string) ([][]string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return workbook.GetRows(sheets[0])
}

// Returns the required columns absent from the header
func (table table) missing(required []string) []string {
	return lo.Without(required, table.header...)
}

// Returns the header followed by the records, as gocsv expects them
func (table table) rows() [][]string {
	return append([][]string{table.header}, table.records...)
}

// recordReader serves in-memory rows through the reader interface gocsv decodes from
type recordReader struct {
	rows [][]string
	next int
}

func (reader *recordReader) Read() ([]string, error) {
	if reader.next >= len(reader.rows) {
		return nil, io.EOF
	}
	row := reader.rows[reader.next]
	reader.next++
	return row, nil
}

func (reader *recordReader) ReadAll() ([][]string, error) {
	rows := reader.rows[reader.next:]
	reader.next = len(reader.rows)
	return rows, nil
}
