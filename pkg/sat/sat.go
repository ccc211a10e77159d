package sat

import (
	"fmt"
	"strings"
)

// SATSolution lists every variable of the instance, positive when assigned true and negative when assigned false
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Checks whether the solution satisfies every clause of the instance
func (s SAT) Satisfied(solution SATSolution) bool {
	values := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		values[literal] = true
	}
	for _, clause := range s.Clauses {
		satisfied := false
		for _, literal := range clause {
			if values[literal] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}
