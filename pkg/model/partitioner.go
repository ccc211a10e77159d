package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Group is a subset of a subject's students sized to attend one laboratory session together
type Group struct {
	Id       string
	Subject  string
	Students []Student
}

func (group Group) Size() int {
	return len(group.Students)
}

type SubjectGroups struct {
	Subject string
	Groups  []Group
}

// Partition splits each subject's students into groups of at most capacity members.
// Subjects keep the order of their first appearance in the roster and members keep roster order.
// When balance is set and more than one group is needed, sizes differ by at most one student; otherwise groups are filled in chunks of capacity
func Partition(students []Student, capacity int, balance bool) ([]SubjectGroups, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: group capacity must be positive: %v", ErrInvalidConfiguration, capacity)
	}

	subjects := lo.Uniq(lo.Map(students, func(student Student, _ int) string { return student.Subject }))
	enrolled := lo.GroupBy(students, func(student Student) string { return student.Subject })

	partition := make([]SubjectGroups, 0, len(subjects))
	for _, subject := range subjects {
		members := enrolled[subject]
		total := len(members)
		count := (total + capacity - 1) / capacity

		//** Compute group sizes
		sizes := make([]int, 0, count)
		if balance && count > 1 {
			base, rest := total/count, total%count
			for i := range count {
				size := base
				if i < rest {
					size++ // The first "rest" groups take one extra student each
				}
				sizes = append(sizes, size)
			}
		} else {
			for start := 0; start < total; start += capacity {
				sizes = append(sizes, min(capacity, total-start))
			}
		}

		//** Slice members into groups
		groups := make([]Group, 0, len(sizes))
		start := 0
		for i, size := range sizes {
			groups = append(groups, Group{
				Id:       fmt.Sprintf("%v_G%d", subject, i+1),
				Subject:  subject,
				Students: slices.Clone(members[start : start+size]),
			})
			start += size
		}

		partition = append(partition, SubjectGroups{Subject: subject, Groups: groups})
	}

	return partition, nil
}

// Flatten returns every group in subject order, then group-within-subject order
func Flatten(partition []SubjectGroups) []Group {
	return lo.FlatMap(partition, func(subjectGroups SubjectGroups, _ int) []Group {
		return subjectGroups.Groups
	})
}
