package model

// objectiveEvaluatorIndexed keeps a running total and indexes committed assignments per weekday,
// so a trial only pays for the candidate's own terms and its same-day neighbors
type objectiveEvaluatorIndexed struct {
	objective *objective
	total     int64
	committed map[Weekday][]Assignment
}

func (evaluator *objectiveEvaluatorIndexed) Trial(candidate Assignment) int64 {
	return evaluator.total + evaluator.delta(candidate)
}

func (evaluator *objectiveEvaluatorIndexed) Commit(assignment Assignment) {
	evaluator.total += evaluator.delta(assignment)
	evaluator.committed[assignment.Slot.Day] = append(evaluator.committed[assignment.Slot.Day], assignment)
}

func (evaluator *objectiveEvaluatorIndexed) Penalty() int64 {
	return evaluator.total
}

// Increase of the objective caused by adding the assignment. Only same-day assignments can overlap it
func (evaluator *objectiveEvaluatorIndexed) delta(assignment Assignment) int64 {
	delta := evaluator.objective.unary(assignment)
	for _, neighbor := range evaluator.committed[assignment.Slot.Day] {
		delta += evaluator.objective.pairwise(assignment, neighbor)
	}
	return delta
}
