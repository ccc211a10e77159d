package model

// objectiveEvaluatorFull recomputes the whole objective on every trial, which costs O(A²) per call
type objectiveEvaluatorFull struct {
	objective *objective
	committed []Assignment
}

func (evaluator *objectiveEvaluatorFull) Trial(candidate Assignment) int64 {
	trial := make([]Assignment, len(evaluator.committed), len(evaluator.committed)+1)
	copy(trial, evaluator.committed)
	return evaluator.objective.evaluate(append(trial, candidate))
}

func (evaluator *objectiveEvaluatorFull) Commit(assignment Assignment) {
	evaluator.committed = append(evaluator.committed, assignment)
}

func (evaluator *objectiveEvaluatorFull) Penalty() int64 {
	return evaluator.objective.evaluate(evaluator.committed)
}
