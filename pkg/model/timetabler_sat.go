package model

import (
	"context"
	"fmt"

	"github.com/limaJavier/labscheduling/pkg/sat"

	"github.com/samber/lo"
)

// satTimetabler searches for a placement of every group at once. When no complete placement exists
// it falls back to the greedy construction, which leaves the infeasible groups unassigned
type satTimetabler struct {
	solver  sat.SATSolver
	options Options
}

func NewSatTimetabler(solver sat.SATSolver, options Options) Timetabler {
	return &satTimetabler{
		solver:  solver,
		options: options,
	}
}

func (timetabler *satTimetabler) Build(ctx context.Context, modelInput ModelInput, groups []Group, slots []TimeSlot, progress Progress) (Schedule, error) {
	order := processingOrder(groups)
	if len(order) == 0 {
		progress.report(0, 0)
		return Schedule{
			Strategy:         StrategySat,
			StudentConflicts: timetabler.options.StudentConflicts,
			Assignments:      []Assignment{},
			Unassigned:       []UnassignedGroup{},
		}, nil
	}

	//** Enumerate candidates
	candidates := make([][]candidate, 0, len(order))
	for _, group := range order {
		laboratories, err := candidateLaboratories(group, modelInput)
		if err != nil {
			return Schedule{}, err
		}

		groupCandidates := make([]candidate, 0, len(laboratories)*len(slots))
		for _, laboratory := range laboratories {
			_, index, _ := lo.FindIndexOf(modelInput.Laboratories, func(registered Laboratory) bool {
				return registered.Name == laboratory.Name
			})
			for slot := range slots {
				groupCandidates = append(groupCandidates, candidate{laboratory: uint64(index), slot: uint64(slot)})
			}
		}

		// A group without candidates can never be placed, so the instance is unsatisfiable
		if len(groupCandidates) == 0 {
			return timetabler.fallback(ctx, modelInput, groups, slots, progress)
		}
		candidates = append(candidates, groupCandidates)
	}

	//** Initialize dependencies
	totalGroups, totalLaboratories, totalSlots := uint64(len(order)), uint64(len(modelInput.Laboratories)), uint64(len(slots))
	indexer := newIndexer(totalGroups, totalLaboratories, totalSlots)
	objective := newObjective(modelInput, order, timetabler.options)

	//** Build SAT instance
	variables := totalGroups * totalLaboratories * totalSlots

	// Constraints functions
	constraints := []func(state constraintState) [][]int64{
		completenessConstraints,
		uniquenessConstraints,
		laboratoryConstraints,
		studentConstraints,
	}

	state := constraintState{
		indexer:       indexer,
		groups:        order,
		candidates:    candidates,
		slots:         slots,
		objective:     objective,
		hardConflicts: timetabler.options.StudentConflicts == HardConflicts,
	}

	satInstance, explicitVariables := buildSat(variables, constraints, state)

	if err := ctx.Err(); err != nil {
		return Schedule{}, err
	}

	//** Solve SAT instance
	solution, err := timetabler.solver.Solve(satInstance)
	if err != nil {
		return Schedule{}, err
	} else if solution == nil { // Fall back if the SAT instance is not satisfiable
		return timetabler.fallback(ctx, modelInput, groups, slots, progress)
	}

	if err := ctx.Err(); err != nil {
		return Schedule{}, err
	}

	//** Decode solution
	placements := make(map[uint64]Assignment, len(order))
	for _, variable := range solution {
		// Acknowledge only positive variables that are explicitly stated in the clauses
		if variable > 0 && explicitVariables[variable] {
			group, laboratory, slot := indexer.Attributes(uint64(variable))
			placements[group] = Assignment{
				Group:      order[group],
				Laboratory: modelInput.Laboratories[laboratory].Name,
				Slot:       slots[slot],
			}
		}
	}

	schedule := Schedule{
		Strategy:         StrategySat,
		StudentConflicts: timetabler.options.StudentConflicts,
		Assignments:      make([]Assignment, 0, len(order)),
		Unassigned:       []UnassignedGroup{},
	}
	for i := range order {
		assignment, ok := placements[uint64(i)]
		if !ok {
			return Schedule{}, fmt.Errorf("solver solution leaves group %v without a placement", order[i].Id)
		}
		schedule.Assignments = append(schedule.Assignments, assignment)
		progress.report(i+1, len(order))
	}

	return schedule, nil
}

func (timetabler *satTimetabler) fallback(ctx context.Context, modelInput ModelInput, groups []Group, slots []TimeSlot, progress Progress) (Schedule, error) {
	return NewGreedyTimetabler(timetabler.options).Build(ctx, modelInput, groups, slots, progress)
}
