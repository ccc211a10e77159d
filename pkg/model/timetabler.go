package model

import "context"

const (
	StrategyGreedy = "greedy"
	StrategySat    = "sat"
)

type ConflictPolicy string

const (
	// Two groups sharing a student are never placed in overlapping slots
	HardConflicts ConflictPolicy = "hard"
	// Shared-student collisions are allowed but penalized through the objective
	SoftConflicts ConflictPolicy = "soft"
)

type Options struct {
	Weights               Weights
	StudentConflicts      ConflictPolicy
	ProfessorAvailability bool // Penalize slots outside the availability of every professor of the subject
	IndexedObjective      bool // Evaluate trial penalties incrementally instead of recomputing the whole objective
}

func DefaultOptions() Options {
	return Options{
		Weights:               DefaultWeights(),
		StudentConflicts:      HardConflicts,
		ProfessorAvailability: true,
		IndexedObjective:      true,
	}
}

// Assignment binds a group to a laboratory and a time slot
type Assignment struct {
	Group      Group
	Laboratory string
	Slot       TimeSlot
}

type UnassignedReason string

const (
	ReasonNoCompatibleLaboratory UnassignedReason = "no-compatible-laboratory"
	ReasonInsufficientCapacity   UnassignedReason = "insufficient-capacity"
	ReasonNoFreeSlot             UnassignedReason = "no-free-slot"
	ReasonStudentConflict        UnassignedReason = "student-conflict"
)

type UnassignedGroup struct {
	Group  Group
	Reason UnassignedReason
}

type Schedule struct {
	Strategy         string         // Strategy that produced the assignments
	StudentConflicts ConflictPolicy // Policy the assignments were built under
	Assignments      []Assignment
	Unassigned       []UnassignedGroup
}

// Progress receives the percentage of groups already decided; it must return promptly
type Progress func(percent int)

func (progress Progress) report(done, total int) {
	if progress == nil {
		return
	}
	if total == 0 {
		progress(100)
		return
	}
	progress(done * 100 / total)
}

type Timetabler interface {
	// Builds a schedule for the groups over the given slots. Groups without a feasible placement are reported in Schedule.Unassigned, not as errors
	Build(
		ctx context.Context,
		modelInput ModelInput,
		groups []Group,
		slots []TimeSlot,
		progress Progress,
	) (Schedule, error)
}
