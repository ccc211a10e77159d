package sat

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// giniSolver runs the pure-Go gini solver in-process, so no external executable is needed
type giniSolver struct{}

func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(sat SAT) (SATSolution, error) {
	g := gini.New()

	maxVariable := int64(0)
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			if literal == 0 {
				return nil, fmt.Errorf("clause %v contains the reserved literal 0", clause)
			}
			variable := literal
			if variable < 0 {
				variable = -variable
			}
			if uint64(variable) > sat.Variables {
				return nil, fmt.Errorf("literal %d exceeds the declared %d variables", literal, sat.Variables)
			}
			maxVariable = max(maxVariable, variable)
			g.Add(toLit(literal))
		}
		g.Add(0) // Terminate clause
	}

	// 1 stands for satisfiable and -1 stands for unsatisfiable
	switch result := g.Solve(); result {
	case 1:
	case -1:
		return nil, nil
	default:
		return nil, fmt.Errorf("gini finished without a verdict: %d", result)
	}

	solution := make(SATSolution, 0, sat.Variables)
	for variable := int64(1); variable <= int64(sat.Variables); variable++ {
		// Variables absent from every clause are unconstrained and reported as false
		if variable <= maxVariable && g.Value(z.Var(variable).Pos()) {
			solution = append(solution, variable)
		} else {
			solution = append(solution, -variable)
		}
	}
	return solution, nil
}

func toLit(literal int64) z.Lit {
	if literal < 0 {
		return z.Var(-literal).Neg()
	}
	return z.Var(literal).Pos()
}
