package tabular

// Column names follow the spreadsheets the department already maintains

type studentRow struct {
	Id      string `csv:"dni" validate:"required"`
	Name    string `csv:"nombre" validate:"required"`
	Surname string `csv:"apellidos"`
	Subject string `csv:"asignatura" validate:"required"`
	Email   string `csv:"email" validate:"omitempty,email"`
}

type compatibilityRow struct {
	Subject       string  `csv:"asignatura" validate:"required"`
	Laboratory    string  `csv:"laboratorio" validate:"required"`
	Equipment     string  `csv:"equipamiento_requerido"`
	DurationHours float64 `csv:"duracion_horas" validate:"gte=0"`
	Term          string  `csv:"semestre"`
}

type laboratoryRow struct {
	Name      string `csv:"nombre" validate:"required"`
	Capacity  int    `csv:"capacidad" validate:"gt=0"`
	Equipment string `csv:"equipamiento"`
	Available string `csv:"disponible"`
	Building  string `csv:"edificio"`
	Floor     string `csv:"planta"`
}

type professorRow struct {
	Name      string `csv:"nombre" validate:"required"`
	Subject   string `csv:"asignatura" validate:"required"`
	Monday    string `csv:"disponibilidad_lunes"`
	Tuesday   string `csv:"disponibilidad_martes"`
	Wednesday string `csv:"disponibilidad_miercoles"`
	Thursday  string `csv:"disponibilidad_jueves"`
	Friday    string `csv:"disponibilidad_viernes"`
	Email     string `csv:"email" validate:"omitempty,email"`
}

var (
	studentColumns       = []string{"dni", "nombre", "asignatura"}
	compatibilityColumns = []string{"asignatura", "laboratorio"}
	laboratoryColumns    = []string{"nombre", "capacidad"}
	professorColumns     = []string{"nombre", "asignatura"}
)
