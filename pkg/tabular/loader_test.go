package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limaJavier/labscheduling/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	studentsCsv = `dni,nombre,apellidos,asignatura,email
12345678A,Ana,García,Física I,ana@example.com
23456789B,Luis,Martín,Física I,luis@example.com
12345678A,Ana,García,Programación,ana@example.com
`
	compatibilitiesCsv = `asignatura,laboratorio,equipamiento_requerido,duracion_horas,semestre
Física I,Lab_Fisica_A,Equipos de medición,2,1
Programación,Lab_Informatica_A,Ordenadores,2,1
`
	laboratoriesCsv = `nombre,capacidad,equipamiento,disponible,edificio,planta
Lab_Fisica_A,20,Equipos de medición básicos,Si,Edificio A,Planta 1
Lab_Informatica_A,30,30 Ordenadores,No,Edificio D,Planta 1
`
	professorsCsv = `nombre,asignatura,disponibilidad_lunes,disponibilidad_martes,disponibilidad_miercoles,disponibilidad_jueves,disponibilidad_viernes,email
Dr. García López,Física I,08:00-12:00;14:00-18:00,10:00-14:00,,nan,08:00-12:00,garcia.lopez@example.com
`
	restrictionsCsv = `tipo,laboratorio,dia
bloqueo,Lab_Fisica_A,lunes
`
)

func TestLoad(t *testing.T) {
	t.Run("Delimited text", func(t *testing.T) {
		//** Arrange
		sources := writeSources(t, studentsCsv, compatibilitiesCsv, laboratoriesCsv, professorsCsv)
		sources.Restrictions = writeFile(t, "restricciones.csv", restrictionsCsv)

		//** Act
		input, err := Load(sources, DefaultOptions())

		//** Assert
		require.NoError(t, err)
		require.Len(t, input.Students, 3)
		assert.Equal(t, model.Student{Id: "12345678A", Name: "Ana", Surname: "García", Subject: "Física I", Email: "ana@example.com"}, input.Students[0])
		assert.Equal(t, "Programación", input.Students[2].Subject)

		require.Len(t, input.Compatibilities, 2)
		assert.Equal(t, model.Compatibility{
			Subject:       "Física I",
			Laboratory:    "Lab_Fisica_A",
			Equipment:     "Equipos de medición",
			DurationHours: 2,
			Term:          "1",
		}, input.Compatibilities[0])

		require.Len(t, input.Laboratories, 2)
		assert.Equal(t, 20, input.Laboratories[0].Capacity)
		assert.True(t, input.Laboratories[0].Available)
		assert.False(t, input.Laboratories[1].Available)
		assert.Equal(t, "Edificio D", input.Laboratories[1].Building)

		require.Len(t, input.Professors, 1)
		professor := input.Professors[0]
		assert.Equal(t, "Dr. García López", professor.Name)
		assert.Len(t, professor.Availability[model.Monday], 2)
		assert.Equal(t, []model.Interval{{Start: 10 * 60, End: 14 * 60}}, professor.Availability[model.Tuesday])
		assert.NotContains(t, professor.Availability, model.Wednesday)
		assert.NotContains(t, professor.Availability, model.Thursday)

		assert.Equal(t, []model.Restriction{{"tipo": "bloqueo", "laboratorio": "Lab_Fisica_A", "dia": "lunes"}}, input.Restrictions)
	})

	t.Run("Custom delimiter and byte order mark", func(t *testing.T) {
		//** Arrange
		semicolons := func(content string) string { return "\ufeff" + strings.ReplaceAll(content, ",", ";") }
		professors := strings.ReplaceAll(professorsCsv, "08:00-12:00;14:00-18:00", "08:00-12:00")
		sources := writeSources(t, semicolons(studentsCsv), semicolons(compatibilitiesCsv), semicolons(laboratoriesCsv), semicolons(professors))

		//** Act
		input, err := Load(sources, Options{Delimiter: ';'})

		//** Assert
		require.NoError(t, err)
		assert.Len(t, input.Students, 3)
		assert.Equal(t, "12345678A", input.Students[0].Id)
		assert.Len(t, input.Laboratories, 2)
	})

	t.Run("Spreadsheet", func(t *testing.T) {
		//** Arrange
		sources := writeSources(t, studentsCsv, compatibilitiesCsv, laboratoriesCsv, professorsCsv)
		sources.Laboratories = writeWorkbook(t, "laboratorios.xlsx", [][]any{
			{"nombre", "capacidad", "equipamiento", "disponible", "edificio", "planta"},
			{"Lab_Fisica_A", 20, "Equipos", "Si", "Edificio A", "Planta 1"},
			{"Lab_Informatica_A", 30, "Ordenadores", "No"}, // Trailing cells left empty
		})

		//** Act
		input, err := Load(sources, DefaultOptions())

		//** Assert
		require.NoError(t, err)
		require.Len(t, input.Laboratories, 2)
		assert.Equal(t, model.Laboratory{Name: "Lab_Fisica_A", Capacity: 20, Equipment: "Equipos", Available: true, Building: "Edificio A", Floor: "Planta 1"}, input.Laboratories[0])
		assert.Equal(t, 30, input.Laboratories[1].Capacity)
		assert.False(t, input.Laboratories[1].Available)
		assert.Empty(t, input.Laboratories[1].Floor)
	})

	t.Run("Missing column", func(t *testing.T) {
		//** Arrange
		students := "dni,nombre,email\n1,Ana,ana@example.com\n"
		sources := writeSources(t, students, compatibilitiesCsv, laboratoriesCsv, professorsCsv)

		//** Act
		_, err := Load(sources, DefaultOptions())

		//** Assert
		var inputError InputError
		require.ErrorAs(t, err, &inputError)
		assert.Equal(t, SourceStudents, inputError.Source)
		assert.Equal(t, "asignatura", inputError.Column)
	})

	t.Run("Invalid rows", func(t *testing.T) {
		//** Arrange
		laboratories := `nombre,capacidad,disponible
Lab_A,20,Si
Lab_B,0,Si
`
		professors := `nombre,asignatura,disponibilidad_lunes
Dr. Pérez,Física I,14:00-10:00
`
		sources := writeSources(t, studentsCsv, compatibilitiesCsv, laboratories, professors)

		//** Act
		_, err := Load(sources, DefaultOptions())

		//** Assert
		inputErrors := flatten(err)
		require.Len(t, inputErrors, 2)
		assert.Equal(t, InputError{Source: SourceLaboratories, Row: 3, Column: "capacidad"}, withoutCause(inputErrors[0]))
		assert.Equal(t, InputError{Source: SourceProfessors, Row: 2, Column: "disponibilidad_lunes"}, withoutCause(inputErrors[1]))
	})

	t.Run("Invalid availability flag", func(t *testing.T) {
		//** Arrange
		laboratories := "nombre,capacidad,disponible\nLab_A,20,Quizás\n"
		sources := writeSources(t, studentsCsv, compatibilitiesCsv, laboratories, professorsCsv)

		//** Act
		_, err := Load(sources, DefaultOptions())

		//** Assert
		var inputError InputError
		require.ErrorAs(t, err, &inputError)
		assert.Equal(t, "disponible", inputError.Column)
		assert.Equal(t, 2, inputError.Row)
	})

	t.Run("Malformed number", func(t *testing.T) {
		//** Arrange
		laboratories := "nombre,capacidad\nLab_A,veinte\n"
		sources := writeSources(t, studentsCsv, compatibilitiesCsv, laboratories, professorsCsv)

		//** Act
		_, err := Load(sources, DefaultOptions())

		//** Assert
		var inputError InputError
		require.ErrorAs(t, err, &inputError)
		assert.Equal(t, SourceLaboratories, inputError.Source)
	})

	t.Run("Unreadable sources", func(t *testing.T) {
		//** Arrange
		sources := writeSources(t, studentsCsv, compatibilitiesCsv, laboratoriesCsv, professorsCsv)
		sources.Students = filepath.Join(t.TempDir(), "missing.csv")
		sources.Professors = writeFile(t, "profesores.ods", professorsCsv)

		//** Act
		input, err := Load(sources, DefaultOptions())

		//** Assert
		assert.Empty(t, input.Laboratories) // Nothing is returned partially
		sourcesInError := make([]string, 0)
		for _, inputError := range flatten(err) {
			sourcesInError = append(sourcesInError, inputError.Source)
		}
		assert.Equal(t, []string{SourceStudents, SourceProfessors}, sourcesInError)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func writeSources(t *testing.T, students, compatibilities, laboratories, professors string) Sources {
	t.Helper()
	return Sources{
		Students:        writeFile(t, "alumnos.csv", students),
		Compatibilities: writeFile(t, "asignaturas.csv", compatibilities),
		Laboratories:    writeFile(t, "laboratorios.csv", laboratories),
		Professors:      writeFile(t, "profesores.csv", professors),
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, name string, rows [][]any) string {
	t.Helper()
	workbook := excelize.NewFile()
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, workbook.SaveAs(path))
	return path
}

// Returns every InputError inside a tree of joined errors, depth first
func flatten(err error) []InputError {
	if err == nil {
		return nil
	}
	if inputError, ok := err.(InputError); ok {
		return []InputError{inputError}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		inputErrors := make([]InputError, 0)
		for _, inner := range joined.Unwrap() {
			inputErrors = append(inputErrors, flatten(inner)...)
		}
		return inputErrors
	}
	return nil
}

func withoutCause(inputError InputError) InputError {
	inputError.Err = nil
	return inputError
}


func TestLoadStudents(t *testing.T) {
	//** Arrange
	path := writeFile(t, "alumnos.csv", studentsCsv)

	//** Act
	students, err := LoadStudents(path, DefaultOptions())

	//** Assert
	require.NoError(t, err)
	assert.Len(t, students, 3)

	_, err = LoadStudents("", DefaultOptions())
	assert.Error(t, err)
}
