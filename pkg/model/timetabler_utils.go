package model

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/limaJavier/labscheduling/pkg/sat"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// Returns the groups sorted descending by size. Equal sizes keep their generation order
func processingOrder(groups []Group) []Group {
	order := slices.Clone(groups)
	slices.SortStableFunc(order, func(group1, group2 Group) int {
		return cmp.Compare(group2.Size(), group1.Size())
	})
	return order
}

// Returns the laboratories a group may be proposed to (compatible, available and large enough), in compatibility order
func candidateLaboratories(group Group, modelInput ModelInput) ([]Laboratory, error) {
	laboratories := make([]Laboratory, 0)
	for _, name := range modelInput.CompatibleLaboratories(group.Subject) {
		laboratory, ok := modelInput.Laboratory(name)
		if !ok {
			return nil, UnknownLaboratoryError{Subject: group.Subject, Laboratory: name}
		}
		if laboratory.Available && group.Size() <= laboratory.Capacity {
			laboratories = append(laboratories, laboratory)
		}
	}
	return laboratories, nil
}

func buildSat(variables uint64, constraints []func(state constraintState) [][]int64, state constraintState) (satInstance sat.SAT, explicitVariables map[int64]bool) {
	satInstance = sat.SAT{
		Variables: variables,
		Clauses:   [][]int64{},
	}

	explicitVariables = make(map[int64]bool) // Variables that are explicitly stated in the clauses

	// Execute constraints functions on different goroutines; each one writes to its own slot so clause order does not depend on scheduling
	generated := make([][][]int64, len(constraints))
	done := make(chan struct{})
	for i, constraint := range constraints {
		go func() {
			generated[i] = constraint(state)
			done <- struct{}{}
		}()
	}
	for range constraints {
		<-done
	}

	// Collect generated constraints
	for _, clauses := range generated {
		for _, clause := range clauses {
			for _, variable := range clause {
				// Check whether the variable is positive, since placement variables ought to be positive
				if variable > 0 {
					explicitVariables[variable] = true
				}
			}
		}
		satInstance.Clauses = append(satInstance.Clauses, clauses...)
	}

	return satInstance, explicitVariables
}

//** Verification

type ViolationKind string

const (
	ViolationDoubleBooking         ViolationKind = "double-booking"
	ViolationDuplicateGroup        ViolationKind = "duplicate-group"
	ViolationUnknownLaboratory     ViolationKind = "unknown-laboratory"
	ViolationUnavailableLaboratory ViolationKind = "unavailable-laboratory"
	ViolationIncompatible          ViolationKind = "incompatible-laboratory"
	ViolationCapacity              ViolationKind = "capacity"
	ViolationStudentConflict       ViolationKind = "student-conflict"
)

type Violation struct {
	Kind    ViolationKind
	Message string
}

// Verify checks the schedule against the input and returns every broken invariant. Student conflicts are only violations under hard conflicts
func Verify(schedule Schedule, modelInput ModelInput) []Violation {
	violations := make([]Violation, 0)
	report := func(kind ViolationKind, format string, args ...any) {
		violations = append(violations, Violation{Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	booked := make(map[occupancyKey]string)
	placed := make(map[string]bool)
	compatible := lo.SliceToMap(modelInput.Compatibilities, func(compatibility Compatibility) ([2]string, bool) {
		return [2]string{compatibility.Subject, compatibility.Laboratory}, true
	})

	for _, assignment := range schedule.Assignments {
		group := assignment.Group
		key := occupancyKey{assignment.Laboratory, assignment.Slot.Day, assignment.Slot.Start}

		if other, ok := booked[key]; ok {
			report(ViolationDoubleBooking, "groups %v and %v share laboratory %v at %v", other, group.Id, assignment.Laboratory, assignment.Slot)
		}
		booked[key] = group.Id

		if placed[group.Id] {
			report(ViolationDuplicateGroup, "group %v is assigned more than once", group.Id)
		}
		placed[group.Id] = true

		if !compatible[[2]string{group.Subject, assignment.Laboratory}] {
			report(ViolationIncompatible, "laboratory %v is not compatible with subject %v (group %v)", assignment.Laboratory, group.Subject, group.Id)
		}

		laboratory, ok := modelInput.Laboratory(assignment.Laboratory)
		if !ok {
			report(ViolationUnknownLaboratory, "group %v is assigned to unknown laboratory %v", group.Id, assignment.Laboratory)
			continue
		}
		if !laboratory.Available {
			report(ViolationUnavailableLaboratory, "group %v is assigned to unavailable laboratory %v", group.Id, laboratory.Name)
		}
		if group.Size() > laboratory.Capacity {
			report(ViolationCapacity, "group %v has %d students but laboratory %v holds %d", group.Id, group.Size(), laboratory.Name, laboratory.Capacity)
		}
	}

	if schedule.StudentConflicts != SoftConflicts {
		objective := &objective{members: make(map[string]map[string]bool)}
		for i, assignment1 := range schedule.Assignments {
			for _, assignment2 := range schedule.Assignments[i+1:] {
				if objective.collide(assignment1.Group, assignment1.Slot, assignment2.Group, assignment2.Slot) {
					report(ViolationStudentConflict, "groups %v and %v share students at overlapping slots %v and %v", assignment1.Group.Id, assignment2.Group.Id, assignment1.Slot, assignment2.Slot)
				}
			}
		}
	}

	return violations
}

//** Assignable bound

type laboratorySlot struct {
	laboratory string
	slot       TimeSlot
}

// Returns the size of a maximum matching between groups and (laboratory, slot) pairs they could be proposed to, ignoring student conflicts.
// No schedule can assign more groups than this
func assignableBound(modelInput ModelInput, groups []Group, slots []TimeSlot) (int, error) {
	if len(groups) == 0 || len(slots) == 0 {
		return 0, nil
	}

	proposable := make(map[string]map[string]bool, len(groups)) // Group id -> laboratory names
	laboratories := make([]string, 0)
	for _, group := range groups {
		candidates, err := candidateLaboratories(group, modelInput)
		if err != nil {
			return 0, err
		}
		proposable[group.Id] = lo.SliceToMap(candidates, func(laboratory Laboratory) (string, bool) { return laboratory.Name, true })
		laboratories = append(laboratories, lo.Map(candidates, func(laboratory Laboratory, _ int) string { return laboratory.Name })...)
	}
	laboratories = lo.Uniq(laboratories)
	if len(laboratories) == 0 {
		return 0, nil
	}

	pairs := make([]laboratorySlot, 0, len(laboratories)*len(slots))
	for _, laboratory := range laboratories {
		for _, slot := range slots {
			pairs = append(pairs, laboratorySlot{laboratory: laboratory, slot: slot})
		}
	}

	neighbors := func(groupAny any, pairAny any) (bool, error) {
		group := groupAny.(Group)
		pair := pairAny.(laboratorySlot)
		return proposable[group.Id][pair.laboratory], nil
	}

	groupsAny, pairsAny := lo.Map(groups, func(group Group, _ int) any { return group }), lo.Map(pairs, func(pair laboratorySlot, _ int) any { return pair })

	graph, err := bipartitegraph.NewBipartiteGraph(groupsAny, pairsAny, neighbors)
	if err != nil {
		return 0, err
	}
	return len(graph.LargestMatching()), nil
}
