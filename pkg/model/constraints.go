package model

// candidate is a (laboratory, slot) pair, by position in the laboratory registry and the slot sequence
type candidate struct {
	laboratory uint64
	slot       uint64
}

type constraintState struct {
	indexer       indexer
	groups        []Group       // Processing order
	candidates    [][]candidate // Per group, same order as groups
	slots         []TimeSlot
	objective     *objective
	hardConflicts bool
}

func (state constraintState) variable(group uint64, candidate candidate) int64 {
	return int64(state.indexer.Index(group, candidate.laboratory, candidate.slot))
}

// Every group is placed in at least one of its candidates
func completenessConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0, len(state.groups))
	for group, candidates := range state.candidates {
		clause := make([]int64, 0, len(candidates))
		for _, candidate := range candidates {
			clause = append(clause, state.variable(uint64(group), candidate))
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// Every group is placed in at most one of its candidates
func uniquenessConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for group, candidates := range state.candidates {
		for i := range candidates {
			for j := i + 1; j < len(candidates); j++ {
				clauses = append(clauses, []int64{
					-state.variable(uint64(group), candidates[i]),
					-state.variable(uint64(group), candidates[j]),
				})
			}
		}
	}
	return clauses
}

// A (laboratory, slot) pair hosts at most one group
func laboratoryConstraints(state constraintState) [][]int64 {
	contenders := make(map[candidate][]int64)
	keys := make([]candidate, 0) // First-appearance order keeps the clauses deterministic
	for group, candidates := range state.candidates {
		for _, candidate := range candidates {
			if _, ok := contenders[candidate]; !ok {
				keys = append(keys, candidate)
			}
			contenders[candidate] = append(contenders[candidate], state.variable(uint64(group), candidate))
		}
	}

	clauses := make([][]int64, 0)
	for _, key := range keys {
		variables := contenders[key]
		for i := range variables {
			for j := i + 1; j < len(variables); j++ {
				clauses = append(clauses, []int64{-variables[i], -variables[j]})
			}
		}
	}
	return clauses
}

// Two groups sharing a student are never placed in overlapping slots, regardless of laboratory
func studentConstraints(state constraintState) [][]int64 {
	if !state.hardConflicts {
		return nil
	}

	clauses := make([][]int64, 0)
	for group1 := range state.groups {
		for group2 := group1 + 1; group2 < len(state.groups); group2++ {
			if !state.objective.shareStudents(state.groups[group1], state.groups[group2]) {
				continue
			}
			for _, candidate1 := range state.candidates[group1] {
				for _, candidate2 := range state.candidates[group2] {
					if state.slots[candidate1.slot].Overlaps(state.slots[candidate2.slot]) {
						clauses = append(clauses, []int64{
							-state.variable(uint64(group1), candidate1),
							-state.variable(uint64(group2), candidate2),
						})
					}
				}
			}
		}
	}
	return clauses
}
