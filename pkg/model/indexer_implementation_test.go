package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexAndAttributesDeterministic(t *testing.T) {
	//** Arrange
	scenarios := [][3]uint64{
		{3, 3, 3},
		{20, 5, 30},
		{1, 1, 1},
		{7, 1, 25},
		{45, 12, 6},
	}

	for _, scenario := range scenarios {
		groups, laboratories, slots := scenario[0], scenario[1], scenario[2]

		//** Act
		indexer := newIndexer(groups, laboratories, slots)

		seen := make(map[uint64]bool)
		for group := range groups {
			for laboratory := range laboratories {
				for slot := range slots {
					index := indexer.Index(group, laboratory, slot)

					//** Assert
					assert.False(t, seen[index], "index %d produced twice", index)
					seen[index] = true
					assert.GreaterOrEqual(t, index, uint64(1))
					assert.LessOrEqual(t, index, groups*laboratories*slots)

					actualGroup, actualLaboratory, actualSlot := indexer.Attributes(index)
					assert.Equal(t, [3]uint64{group, laboratory, slot}, [3]uint64{actualGroup, actualLaboratory, actualSlot})
				}
			}
		}
	}
}

func TestIndexAndAttributesNonDeterministic(t *testing.T) {
	for range 10 {
		//** Arrange
		groups := uint64(rand.Intn(30) + 1)
		laboratories := uint64(rand.Intn(10) + 1)
		slots := uint64(rand.Intn(40) + 1)
		indexer := newIndexer(groups, laboratories, slots)

		for index := uint64(1); index <= groups*laboratories*slots; index++ {
			//** Act
			group, laboratory, slot := indexer.Attributes(index)

			//** Assert
			assert.Equal(t, index, indexer.Index(group, laboratory, slot))
		}
	}
}
