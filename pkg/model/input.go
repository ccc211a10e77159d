package model

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrInvalidConfiguration is wrapped by every error caused by invalid scheduling parameters (group capacity, day window, slot duration)
var ErrInvalidConfiguration = errors.New("invalid configuration")

type Student struct {
	Id      string // National identifier, unique per student but repeated once per enrolled subject
	Name    string
	Surname string
	Subject string
	Email   string
}

type Compatibility struct {
	Subject       string
	Laboratory    string
	Equipment     string
	DurationHours float64
	Term          string
}

type Laboratory struct {
	Name      string
	Capacity  int
	Equipment string
	Available bool
	Building  string
	Floor     string
}

type Professor struct {
	Name         string
	Subject      string
	Email        string
	Availability map[Weekday][]Interval
}

// Restriction is an additional, free-form row supplied alongside the mandatory sources. Restrictions are carried but not enforced
type Restriction map[string]string

type ModelInput struct {
	Students        []Student
	Compatibilities []Compatibility
	Laboratories    []Laboratory
	Professors      []Professor
	Restrictions    []Restriction
}

// Checks whether the professor has a single interval on the slot's weekday that fully contains the slot
func (professor Professor) AvailableDuring(slot TimeSlot) bool {
	return lo.SomeBy(professor.Availability[slot.Day], func(interval Interval) bool {
		return interval.Contains(slot)
	})
}

// Returns the laboratory registered under the given name
func (input ModelInput) Laboratory(name string) (Laboratory, bool) {
	return lo.Find(input.Laboratories, func(laboratory Laboratory) bool {
		return laboratory.Name == name
	})
}

// Returns the names of the laboratories compatible with the subject, without duplicates and in order of first appearance
func (input ModelInput) CompatibleLaboratories(subject string) []string {
	return lo.Uniq(
		lo.FilterMap(input.Compatibilities, func(compatibility Compatibility, _ int) (string, bool) {
			return compatibility.Laboratory, compatibility.Subject == subject
		}),
	)
}

// Returns the professors teaching the subject
func (input ModelInput) SubjectProfessors(subject string) []Professor {
	return lo.Filter(input.Professors, func(professor Professor, _ int) bool {
		return professor.Subject == subject
	})
}

// UnknownLaboratoryError is returned when a compatibility entry references a laboratory missing from the registry
type UnknownLaboratoryError struct {
	Subject    string
	Laboratory string
}

func (err UnknownLaboratoryError) Error() string {
	return fmt.Sprintf("subject \"%v\" is compatible with laboratory \"%v\", which is not present in the laboratory registry", err.Subject, err.Laboratory)
}
