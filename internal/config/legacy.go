package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// legacyKeys maps the parameter names of configuracion_labs.xml to configuration keys
var legacyKeys = map[string]string{
	"hora_inicio":                    "schedule.day_start",
	"hora_fin":                       "schedule.day_end",
	"duracion_clase":                 "schedule.slot_duration",
	"peso_grupos_pares":              "weights.pairs",
	"peso_conflictos_alumnos":        "weights.conflicts",
	"peso_disponibilidad_profesor":   "weights.professor",
	"peso_capacidad_laboratorio":     "weights.capacity",
	"peso_compatibilidad_asignatura": "weights.compatibility",
	"capacidad_maxima":               "groups.max_size",
	"grupos_pares":                   "groups.balance",
}

// <root><section><param name="hora_inicio">8:00</param>...</section>...</root>, element names are free
type legacyDocument struct {
	Sections []struct {
		Params []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:",chardata"`
		} `xml:",any"`
	} `xml:",any"`
}

// Reads a legacy xml configuration into a nested map of configuration keys. Unknown parameters are ignored
func readLegacy(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read legacy configuration: %w", err)
	}

	var document legacyDocument
	if err := xml.Unmarshal(content, &document); err != nil {
		return nil, fmt.Errorf("cannot parse legacy configuration: %w", err)
	}

	settings := make(map[string]any)
	for _, section := range document.Sections {
		for _, param := range section.Params {
			key, ok := legacyKeys[strings.TrimSpace(param.Name)]
			if !ok {
				continue
			}
			value := strings.TrimSpace(param.Value)
			if key == "groups.balance" {
				value = legacyBool(value)
			}

			group, name, _ := strings.Cut(key, ".")
			if _, ok := settings[group]; !ok {
				settings[group] = make(map[string]any)
			}
			settings[group].(map[string]any)[name] = value
		}
	}
	return settings, nil
}

func legacyBool(value string) string {
	switch strings.ToLower(value) {
	case "si", "sí", "s", "yes", "true", "1":
		return "true"
	case "no", "n", "false", "0":
		return "false"
	default:
		return value
	}
}
