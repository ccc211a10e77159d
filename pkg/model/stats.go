package model

import "github.com/samber/lo"

type UnassignedStat struct {
	GroupId  string           `json:"group_id"`
	Subject  string           `json:"subject"`
	Students int              `json:"students"`
	Reason   UnassignedReason `json:"reason"`
}

// Stats summarizes a finished schedule
type Stats struct {
	TotalGroups       int              `json:"total_groups"`
	AssignedGroups    int              `json:"assigned_groups"`
	ConflictsDetected int              `json:"conflicts_detected"` // Unordered pairs of assignments sharing a student in overlapping slots
	LabsUsed          int              `json:"labs_used"`
	Unassigned        []UnassignedStat `json:"unassigned"`
	AssignableBound   int              `json:"assignable_bound"` // Upper bound on assigned_groups for this input
	Penalty           int64            `json:"penalty"`
}

// Success rate in percent, 0 when there are no groups
func (stats Stats) SuccessRate() float64 {
	if stats.TotalGroups == 0 {
		return 0
	}
	return float64(stats.AssignedGroups) * 100 / float64(stats.TotalGroups)
}

func Summarize(schedule Schedule, modelInput ModelInput, groups []Group, slots []TimeSlot, options Options) (Stats, error) {
	bound, err := assignableBound(modelInput, groups, slots)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalGroups:       len(groups),
		AssignedGroups:    len(schedule.Assignments),
		ConflictsDetected: CountConflicts(schedule.Assignments),
		LabsUsed: len(lo.Uniq(lo.Map(schedule.Assignments, func(assignment Assignment, _ int) string {
			return assignment.Laboratory
		}))),
		Unassigned: lo.Map(schedule.Unassigned, func(unassigned UnassignedGroup, _ int) UnassignedStat {
			return UnassignedStat{
				GroupId:  unassigned.Group.Id,
				Subject:  unassigned.Group.Subject,
				Students: unassigned.Group.Size(),
				Reason:   unassigned.Reason,
			}
		}),
		AssignableBound: bound,
		Penalty:         Evaluate(modelInput, groups, schedule.Assignments, options),
	}, nil
}
