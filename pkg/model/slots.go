package model

import "fmt"

// TimeSlot is an immutable candidate meeting time shared by every laboratory
type TimeSlot struct {
	Day   Weekday
	Start Clock
	End   Clock
}

// Checks whether both slots fall on the same weekday and their time ranges intersect
func (slot TimeSlot) Overlaps(other TimeSlot) bool {
	return slot.Day == other.Day && slot.Start < other.End && other.Start < slot.End
}

func (slot TimeSlot) String() string {
	return fmt.Sprintf("%v %v-%v", slot.Day, slot.Start, slot.End)
}

// GenerateSlots tiles the [dayStart, dayEnd] window of every weekday with back-to-back slots of the given duration.
// A trailing remainder shorter than the duration is dropped
func GenerateSlots(dayStart, dayEnd, duration string) ([]TimeSlot, error) {
	start, err := ParseClock(dayStart)
	if err != nil {
		return nil, fmt.Errorf("%w: day start: %v", ErrInvalidConfiguration, err)
	}
	end, err := ParseClock(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: day end: %v", ErrInvalidConfiguration, err)
	}
	length, err := ParseDuration(duration)
	if err != nil {
		return nil, fmt.Errorf("%w: slot duration: %v", ErrInvalidConfiguration, err)
	}

	if end <= start {
		return nil, fmt.Errorf("%w: day end %v must be after day start %v", ErrInvalidConfiguration, end, start)
	} else if length <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive: %v", ErrInvalidConfiguration, duration)
	} else if start+Clock(length) > end {
		return nil, fmt.Errorf("%w: slot duration %v does not fit the day window %v-%v", ErrInvalidConfiguration, duration, start, end)
	}

	perDay := int(end-start) / length
	slots := make([]TimeSlot, 0, perDay*len(Weekdays))
	for _, day := range Weekdays {
		for cursor := start; cursor+Clock(length) <= end; cursor += Clock(length) {
			slots = append(slots, TimeSlot{
				Day:   day,
				Start: cursor,
				End:   cursor + Clock(length),
			})
		}
	}
	return slots, nil
}
