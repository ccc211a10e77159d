package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/limaJavier/labscheduling/pkg/model"

	"github.com/gocarina/gocsv"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const (
	SourceStudents        = "students"
	SourceCompatibilities = "compatibilities"
	SourceLaboratories    = "laboratories"
	SourceProfessors      = "professors"
	SourceRestrictions    = "restrictions"
)

// Sources holds the paths of the tabular inputs. Restrictions is optional
type Sources struct {
	Students        string
	Compatibilities string
	Laboratories    string
	Professors      string
	Restrictions    string
}

type Options struct {
	Delimiter rune // Field separator of delimited text sources
}

func DefaultOptions() Options {
	return Options{Delimiter: ','}
}

// InputError describes a source that could not be read. Row is the 1-based line in the source (the header is row 1), 0 when the whole source is affected
type InputError struct {
	Source string
	Row    int
	Column string
	Err    error
}

func (err InputError) Error() string {
	switch {
	case err.Row > 0 && err.Column != "":
		return fmt.Sprintf("%v: row %d, column %q: %v", err.Source, err.Row, err.Column, err.Err)
	case err.Row > 0:
		return fmt.Sprintf("%v: row %d: %v", err.Source, err.Row, err.Err)
	case err.Column != "":
		return fmt.Sprintf("%v: column %q: %v", err.Source, err.Column, err.Err)
	default:
		return fmt.Sprintf("%v: %v", err.Source, err.Err)
	}
}

func (err InputError) Unwrap() error {
	return err.Err
}

type loader struct {
	options  Options
	validate *validator.Validate
}

func newLoader(options Options) *loader {
	if options.Delimiter == 0 {
		options.Delimiter = DefaultOptions().Delimiter
	}

	validate := validator.New()
	// Report columns by their source name
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("csv"), ",")
		return name
	})
	return &loader{options: options, validate: validate}
}

// Load reads every source into a model input. Either all mandatory sources load, or the joined InputErrors of every failing source are returned
func Load(sources Sources, options Options) (model.ModelInput, error) {
	loader := newLoader(options)

	var input model.ModelInput
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	input.Students, err = loader.students(sources.Students)
	collect(err)
	input.Compatibilities, err = loader.compatibilities(sources.Compatibilities)
	collect(err)
	input.Laboratories, err = loader.laboratories(sources.Laboratories)
	collect(err)
	input.Professors, err = loader.professors(sources.Professors)
	collect(err)
	if sources.Restrictions != "" {
		input.Restrictions, err = loader.restrictions(sources.Restrictions)
		collect(err)
	}

	if len(errs) > 0 {
		return model.ModelInput{}, errors.Join(errs...)
	}
	return input, nil
}

func (loader *loader) students(path string) ([]model.Student, error) {
	rows, err := decode[studentRow](loader, SourceStudents, path, studentColumns)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row studentRow, _ int) model.Student {
		return model.Student{
			Id:      row.Id,
			Name:    row.Name,
			Surname: row.Surname,
			Subject: row.Subject,
			Email:   row.Email,
		}
	}), nil
}

func (loader *loader) compatibilities(path string) ([]model.Compatibility, error) {
	rows, err := decode[compatibilityRow](loader, SourceCompatibilities, path, compatibilityColumns)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row compatibilityRow, _ int) model.Compatibility {
		return model.Compatibility{
			Subject:       row.Subject,
			Laboratory:    row.Laboratory,
			Equipment:     row.Equipment,
			DurationHours: row.DurationHours,
			Term:          row.Term,
		}
	}), nil
}

func (loader *loader) laboratories(path string) ([]model.Laboratory, error) {
	rows, err := decode[laboratoryRow](loader, SourceLaboratories, path, laboratoryColumns)
	if err != nil {
		return nil, err
	}

	laboratories := make([]model.Laboratory, 0, len(rows))
	errs := make([]error, 0)
	for i, row := range rows {
		available, err := parseAvailable(row.Available)
		if err != nil {
			errs = append(errs, InputError{Source: SourceLaboratories, Row: i + 2, Column: "disponible", Err: err})
			continue
		}
		laboratories = append(laboratories, model.Laboratory{
			Name:      row.Name,
			Capacity:  row.Capacity,
			Equipment: row.Equipment,
			Available: available,
			Building:  row.Building,
			Floor:     row.Floor,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return laboratories, nil
}

func (loader *loader) professors(path string) ([]model.Professor, error) {
	rows, err := decode[professorRow](loader, SourceProfessors, path, professorColumns)
	if err != nil {
		return nil, err
	}

	professors := make([]model.Professor, 0, len(rows))
	errs := make([]error, 0)
	for i, row := range rows {
		cells := []struct {
			day    model.Weekday
			column string
			value  string
		}{
			{model.Monday, "disponibilidad_lunes", row.Monday},
			{model.Tuesday, "disponibilidad_martes", row.Tuesday},
			{model.Wednesday, "disponibilidad_miercoles", row.Wednesday},
			{model.Thursday, "disponibilidad_jueves", row.Thursday},
			{model.Friday, "disponibilidad_viernes", row.Friday},
		}

		availability := make(map[model.Weekday][]model.Interval)
		valid := true
		for _, cell := range cells {
			intervals, err := model.ParseIntervals(cell.value)
			if err != nil {
				errs = append(errs, InputError{Source: SourceProfessors, Row: i + 2, Column: cell.column, Err: err})
				valid = false
				continue
			}
			if len(intervals) > 0 {
				availability[cell.day] = intervals
			}
		}
		if !valid {
			continue
		}

		professors = append(professors, model.Professor{
			Name:         row.Name,
			Subject:      row.Subject,
			Email:        row.Email,
			Availability: availability,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return professors, nil
}

// Restrictions have no fixed shape; every non-blank cell is kept under its column name
func (loader *loader) restrictions(path string) ([]model.Restriction, error) {
	table, err := readTable(path, loader.options.Delimiter)
	if err != nil {
		return nil, InputError{Source: SourceRestrictions, Err: err}
	}
	return lo.Map(table.records, func(record []string, _ int) model.Restriction {
		restriction := make(model.Restriction)
		for i, value := range record {
			if value != "" && table.header[i] != "" {
				restriction[table.header[i]] = value
			}
		}
		return restriction
	}), nil
}

// Reads the source, checks its header and decodes and validates every row
func decode[T any](loader *loader, source, path string, required []string) ([]T, error) {
	if path == "" {
		return nil, InputError{Source: source, Err: errors.New("no file given")}
	}

	table, err := readTable(path, loader.options.Delimiter)
	if err != nil {
		return nil, InputError{Source: source, Err: err}
	}

	if missing := table.missing(required); len(missing) > 0 {
		return nil, errors.Join(lo.Map(missing, func(column string, _ int) error {
			return InputError{Source: source, Column: column, Err: errors.New("required column is missing")}
		})...)
	}

	rows := make([]T, 0, len(table.records))
	if err := gocsv.UnmarshalCSV(&recordReader{rows: table.rows()}, &rows); err != nil {
		return nil, cellError(source, table, err)
	}

	errs := make([]error, 0)
	for i, row := range rows {
		err := loader.validate.Struct(row)
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldError := range validationErrors {
				errs = append(errs, InputError{
					Source: source,
					Row:    i + 2,
					Column: fieldError.Field(),
					Err:    fmt.Errorf("value %q fails the %q rule", fmt.Sprint(fieldError.Value()), fieldError.Tag()),
				})
			}
		} else if err != nil {
			return nil, InputError{Source: source, Row: i + 2, Err: err}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return rows, nil
}

// Locates a conversion failure reported by gocsv
func cellError(source string, table table, err error) error {
	var parseError *csv.ParseError
	if errors.As(err, &parseError) {
		column := ""
		if parseError.Column > 0 && parseError.Column <= len(table.header) {
			column = table.header[parseError.Column-1]
		}
		return InputError{Source: source, Row: parseError.Line, Column: column, Err: parseError.Err}
	}
	return InputError{Source: source, Err: err}
}

// Blank availability means available
func parseAvailable(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "si", "sí", "s", "yes", "y", "true", "1", "x":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected Si or No, got %q", value)
	}
}

// LoadStudents reads only the roster source
func LoadStudents(path string, options Options) ([]model.Student, error) {
	return newLoader(options).students(path)
}
