package model

import "github.com/samber/lo"

// Weights are the coefficients of the penalty terms; the objective treats them as opaque values
type Weights struct {
	Pairs         int64 // Per subject with an odd number of groups
	Conflicts     int64 // Per pair of overlapping assignments sharing a student
	Professor     int64 // Per assignment outside the availability of every professor of the subject
	Capacity      int64 // Per student exceeding the laboratory's capacity
	Compatibility int64 // Per assignment to a laboratory incompatible with the subject
}

func DefaultWeights() Weights {
	return Weights{
		Pairs:         10,
		Conflicts:     20,
		Professor:     15,
		Capacity:      25,
		Compatibility: 30,
	}
}

// objective holds the lookups needed to score a set of assignments
type objective struct {
	weights               Weights
	professorAvailability bool
	capacities            map[string]int
	compatible            map[[2]string]bool     // (subject, laboratory) pairs
	professors            map[string][]Professor // Professors per subject
	members               map[string]map[string]bool
	base                  int64 // Odd-group-count term, which depends only on the groups (not on the assignments)
}

func newObjective(modelInput ModelInput, groups []Group, options Options) *objective {
	objective := &objective{
		weights:               options.Weights,
		professorAvailability: options.ProfessorAvailability,
		capacities:            make(map[string]int),
		compatible:            make(map[[2]string]bool),
		professors:            lo.GroupBy(modelInput.Professors, func(professor Professor) string { return professor.Subject }),
		members:               make(map[string]map[string]bool),
	}

	for _, laboratory := range modelInput.Laboratories {
		objective.capacities[laboratory.Name] = laboratory.Capacity
	}
	for _, compatibility := range modelInput.Compatibilities {
		objective.compatible[[2]string{compatibility.Subject, compatibility.Laboratory}] = true
	}
	for _, group := range groups {
		objective.members[group.Id] = studentSet(group)
	}

	// Penalize each subject whose group count is odd
	groupsPerSubject := lo.CountValuesBy(groups, func(group Group) string { return group.Subject })
	for _, count := range groupsPerSubject {
		if count%2 != 0 {
			objective.base += objective.weights.Pairs
		}
	}

	return objective
}

// Penalty terms involving a single assignment (capacity, compatibility, professor availability)
func (objective *objective) unary(assignment Assignment) int64 {
	penalty := int64(0)

	if capacity, ok := objective.capacities[assignment.Laboratory]; ok && assignment.Group.Size() > capacity {
		penalty += objective.weights.Capacity * int64(assignment.Group.Size()-capacity)
	}

	if !objective.compatible[[2]string{assignment.Group.Subject, assignment.Laboratory}] {
		penalty += objective.weights.Compatibility
	}

	if objective.professorAvailability {
		professors := objective.professors[assignment.Group.Subject]
		if len(professors) > 0 && !lo.SomeBy(professors, func(professor Professor) bool {
			return professor.AvailableDuring(assignment.Slot)
		}) {
			penalty += objective.weights.Professor
		}
	}

	return penalty
}

// Penalty term involving a pair of distinct assignments (student conflict)
func (objective *objective) pairwise(assignment1, assignment2 Assignment) int64 {
	if objective.collide(assignment1.Group, assignment1.Slot, assignment2.Group, assignment2.Slot) {
		return objective.weights.Conflicts
	}
	return 0
}

// Checks whether two distinct groups sharing at least one student are placed in overlapping slots
func (objective *objective) collide(group1 Group, slot1 TimeSlot, group2 Group, slot2 TimeSlot) bool {
	if group1.Id == group2.Id || !slot1.Overlaps(slot2) {
		return false
	}
	return objective.shareStudents(group1, group2)
}

func (objective *objective) shareStudents(group1, group2 Group) bool {
	students1, students2 := objective.studentsOf(group1), objective.studentsOf(group2)
	if len(students1) > len(students2) {
		students1, students2 = students2, students1
	}
	for student := range students1 {
		if students2[student] {
			return true
		}
	}
	return false
}

func (objective *objective) studentsOf(group Group) map[string]bool {
	if students, ok := objective.members[group.Id]; ok {
		return students
	}
	return studentSet(group)
}

// Evaluates the whole objective over the assignments
func (objective *objective) evaluate(assignments []Assignment) int64 {
	penalty := objective.base
	for i, assignment := range assignments {
		penalty += objective.unary(assignment)
		for j := i + 1; j < len(assignments); j++ {
			penalty += objective.pairwise(assignment, assignments[j])
		}
	}
	return penalty
}

// Evaluate returns the weighted penalty of the assignments given the full set of groups
func Evaluate(modelInput ModelInput, groups []Group, assignments []Assignment, options Options) int64 {
	return newObjective(modelInput, groups, options).evaluate(assignments)
}

// CountConflicts returns the number of pairs of assignments that share a student in overlapping slots
func CountConflicts(assignments []Assignment) int {
	objective := &objective{members: make(map[string]map[string]bool)}
	for _, assignment := range assignments {
		objective.members[assignment.Group.Id] = studentSet(assignment.Group)
	}

	conflicts := 0
	for i := range assignments {
		for j := i + 1; j < len(assignments); j++ {
			if objective.collide(assignments[i].Group, assignments[i].Slot, assignments[j].Group, assignments[j].Slot) {
				conflicts++
			}
		}
	}
	return conflicts
}

func studentSet(group Group) map[string]bool {
	return lo.SliceToMap(group.Students, func(student Student) (string, bool) {
		return student.Id, true
	})
}
