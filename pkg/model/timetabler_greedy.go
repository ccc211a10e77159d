package model

import "context"

// greedyTimetabler places groups one at a time, largest first, choosing for each the free (laboratory, slot)
// pair with the lowest trial penalty. Decisions are never revisited
type greedyTimetabler struct {
	options Options
}

func NewGreedyTimetabler(options Options) Timetabler {
	return &greedyTimetabler{
		options: options,
	}
}

func (timetabler *greedyTimetabler) Build(ctx context.Context, modelInput ModelInput, groups []Group, slots []TimeSlot, progress Progress) (Schedule, error) {
	//** Initialize dependencies
	objective := newObjective(modelInput, groups, timetabler.options)
	evaluator := newObjectiveEvaluator(objective, timetabler.options.IndexedObjective)
	occupancy := newOccupancy()
	order := processingOrder(groups)

	schedule := Schedule{
		Strategy:         StrategyGreedy,
		StudentConflicts: timetabler.options.StudentConflicts,
		Assignments:      make([]Assignment, 0, len(order)),
		Unassigned:       make([]UnassignedGroup, 0),
	}

	//** Assign groups
	for i, group := range order {
		if err := ctx.Err(); err != nil {
			return Schedule{}, err
		}

		best, reason, err := timetabler.bestCandidate(group, modelInput, slots, objective, evaluator, occupancy)
		if err != nil {
			return Schedule{}, err
		}

		if reason == "" {
			evaluator.Commit(best)
			occupancy.Occupy(best)
			schedule.Assignments = append(schedule.Assignments, best)
		} else {
			schedule.Unassigned = append(schedule.Unassigned, UnassignedGroup{Group: group, Reason: reason})
		}

		progress.report(i+1, len(order))
	}
	if len(order) == 0 {
		progress.report(0, 0)
	}

	return schedule, nil
}

// Returns the candidate with the strictly lowest trial penalty (the first one wins ties), or the reason why there is none
func (timetabler *greedyTimetabler) bestCandidate(
	group Group,
	modelInput ModelInput,
	slots []TimeSlot,
	objective *objective,
	evaluator objectiveEvaluator,
	occupancy *occupancy,
) (Assignment, UnassignedReason, error) {
	var best Assignment
	var bestPenalty int64
	found, available, fits, free := false, false, false, false

	for _, name := range modelInput.CompatibleLaboratories(group.Subject) {
		laboratory, ok := modelInput.Laboratory(name)
		if !ok {
			return Assignment{}, "", UnknownLaboratoryError{Subject: group.Subject, Laboratory: name}
		} else if !laboratory.Available {
			continue
		}
		available = true

		if group.Size() > laboratory.Capacity {
			continue
		}
		fits = true

		for _, slot := range slots {
			if !occupancy.Free(name, slot) {
				continue
			}
			free = true

			if timetabler.options.StudentConflicts == HardConflicts && occupancy.StudentCollision(objective, group, slot) {
				continue
			}

			candidate := Assignment{Group: group, Laboratory: name, Slot: slot}
			if penalty := evaluator.Trial(candidate); !found || penalty < bestPenalty {
				best, bestPenalty, found = candidate, penalty, true
			}
		}
	}

	switch {
	case found:
		return best, "", nil
	case !available:
		return Assignment{}, ReasonNoCompatibleLaboratory, nil
	case !fits:
		return Assignment{}, ReasonInsufficientCapacity, nil
	case !free:
		return Assignment{}, ReasonNoFreeSlot, nil
	default:
		return Assignment{}, ReasonStudentConflict, nil
	}
}
