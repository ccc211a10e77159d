package model

// objectiveEvaluator scores trial placements against the assignments committed so far
type objectiveEvaluator interface {
	// Returns the objective evaluated over the committed assignments plus the candidate
	Trial(candidate Assignment) int64

	// Adds the assignment to the committed set
	Commit(assignment Assignment)

	// Returns the objective evaluated over the committed assignments
	Penalty() int64
}

func newObjectiveEvaluator(objective *objective, indexed bool) objectiveEvaluator {
	if indexed {
		return &objectiveEvaluatorIndexed{
			objective: objective,
			total:     objective.base,
			committed: make(map[Weekday][]Assignment),
		}
	}
	return &objectiveEvaluatorFull{
		objective: objective,
		committed: make([]Assignment, 0),
	}
}
