package model

import (
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	t.Run("Coverage", func(t *testing.T) {
		scenarios := []struct {
			students map[string]int
			capacity int
			balance  bool
		}{
			{map[string]int{"Física I": 26}, 24, true},
			{map[string]int{"Física I": 26}, 24, false},
			{map[string]int{"Química": 50, "Redes": 7}, 12, true},
			{map[string]int{"Química": 50, "Redes": 7}, 12, false},
			{map[string]int{"Álgebra": 1}, 1, true},
			{map[string]int{"Álgebra": 100}, 30, true},
		}

		for _, scenario := range scenarios {
			//** Arrange
			roster := make([]Student, 0)
			for subject, count := range scenario.students {
				roster = append(roster, newStudents(subject, count)...)
			}

			//** Act
			partition, err := Partition(roster, scenario.capacity, scenario.balance)

			//** Assert
			require.NoError(t, err)
			for _, subjectGroups := range partition {
				enrolled := lo.Filter(roster, func(student Student, _ int) bool { return student.Subject == subjectGroups.Subject })
				members := lo.FlatMap(subjectGroups.Groups, func(group Group, _ int) []Student { return group.Students })
				assert.Equal(t, enrolled, members) // Same students, each once, roster order

				for _, group := range subjectGroups.Groups {
					assert.LessOrEqual(t, group.Size(), scenario.capacity)
					assert.Equal(t, subjectGroups.Subject, group.Subject)
				}
			}
			assert.Len(t, partition, len(scenario.students))
		}
	})

	t.Run("Balance", func(t *testing.T) {
		for total := 1; total <= 120; total++ {
			//** Arrange
			roster := newStudents("Física I", total)

			//** Act
			partition, err := Partition(roster, 24, true)

			//** Assert
			require.NoError(t, err)
			require.Len(t, partition, 1)
			sizes := lo.Map(partition[0].Groups, func(group Group, _ int) int { return group.Size() })
			assert.Len(t, sizes, (total+23)/24)
			assert.LessOrEqual(t, lo.Max(sizes)-lo.Min(sizes), 1, "sizes %v for %d students", sizes, total)
		}
	})

	t.Run("Even split", func(t *testing.T) {
		//** Arrange
		roster := newStudents("Física I", 26)

		//** Act
		partition, err := Partition(roster, 24, true)

		//** Assert
		require.NoError(t, err)
		require.Len(t, partition[0].Groups, 2)
		assert.Equal(t, 13, partition[0].Groups[0].Size())
		assert.Equal(t, 13, partition[0].Groups[1].Size())
		assert.Equal(t, "Física I_G1", partition[0].Groups[0].Id)
		assert.Equal(t, "Física I_G2", partition[0].Groups[1].Id)
	})

	t.Run("Fixed chunks", func(t *testing.T) {
		//** Arrange
		roster := newStudents("Física I", 26)

		//** Act
		partition, err := Partition(roster, 24, false)

		//** Assert
		require.NoError(t, err)
		sizes := lo.Map(partition[0].Groups, func(group Group, _ int) int { return group.Size() })
		assert.Equal(t, []int{24, 2}, sizes)
	})

	t.Run("Uneven balance gives the extra students to the first groups", func(t *testing.T) {
		//** Arrange
		roster := newStudents("Redes", 50)

		//** Act
		partition, err := Partition(roster, 12, true)

		//** Assert
		require.NoError(t, err)
		sizes := lo.Map(partition[0].Groups, func(group Group, _ int) int { return group.Size() })
		assert.Equal(t, []int{10, 10, 10, 10, 10}, sizes)

		partition, err = Partition(newStudents("Redes", 53), 12, true)
		require.NoError(t, err)
		sizes = lo.Map(partition[0].Groups, func(group Group, _ int) int { return group.Size() })
		assert.Equal(t, []int{11, 11, 11, 10, 10}, sizes)
	})

	t.Run("Subject order follows the roster", func(t *testing.T) {
		//** Arrange
		roster := append(newStudents("Redes", 3), newStudents("Álgebra", 3)...)
		roster = append(roster, newStudents("Redes", 2)...)

		//** Act
		partition, err := Partition(roster, 24, true)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"Redes", "Álgebra"}, lo.Map(partition, func(subjectGroups SubjectGroups, _ int) string { return subjectGroups.Subject }))
		assert.Equal(t, []string{"Redes_G1", "Álgebra_G1"}, lo.Map(Flatten(partition), func(group Group, _ int) string { return group.Id }))
	})

	t.Run("Empty roster", func(t *testing.T) {
		//** Act
		partition, err := Partition(nil, 24, true)

		//** Assert
		assert.NoError(t, err)
		assert.Empty(t, partition)
		assert.Empty(t, Flatten(partition))
	})

	t.Run("Non-positive capacity", func(t *testing.T) {
		for _, capacity := range []int{0, -3} {
			//** Act
			_, err := Partition(newStudents("Física I", 5), capacity, true)

			//** Assert
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		}
	})
}

// Returns count students enrolled in the subject, with ids unique across calls for the same subject
func newStudents(subject string, count int) []Student {
	return lo.Times(count, func(i int) Student {
		return Student{
			Id:      fmt.Sprintf("%v-%03d", subject, i),
			Name:    fmt.Sprintf("Name%d", i),
			Surname: fmt.Sprintf("Surname%d", i),
			Subject: subject,
			Email:   fmt.Sprintf("student%d@example.com", i),
		}
	})
}
