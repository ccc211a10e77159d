package model

type occupancyKey struct {
	laboratory string
	day        Weekday
	start      Clock
}

// occupancy tracks the (laboratory, weekday, start) triples already claimed during a single run
type occupancy struct {
	taken  map[occupancyKey]bool
	perDay map[Weekday][]Assignment
}

func newOccupancy() *occupancy {
	return &occupancy{
		taken:  make(map[occupancyKey]bool),
		perDay: make(map[Weekday][]Assignment),
	}
}

func (occupancy *occupancy) Free(laboratory string, slot TimeSlot) bool {
	return !occupancy.taken[occupancyKey{laboratory, slot.Day, slot.Start}]
}

func (occupancy *occupancy) Occupy(assignment Assignment) {
	occupancy.taken[occupancyKey{assignment.Laboratory, assignment.Slot.Day, assignment.Slot.Start}] = true
	occupancy.perDay[assignment.Slot.Day] = append(occupancy.perDay[assignment.Slot.Day], assignment)
}

// Checks whether placing the group in the slot would put one of its students in two overlapping sessions
func (occupancy *occupancy) StudentCollision(objective *objective, group Group, slot TimeSlot) bool {
	for _, assignment := range occupancy.perDay[slot.Day] {
		if objective.collide(group, slot, assignment.Group, assignment.Slot) {
			return true
		}
	}
	return false
}
