package domain

// TimeBlock is one contiguous slot (a day, an afternoon) that starts and
// ends at known locations. Its timeline fills up during scheduling.
type TimeBlock struct {
	Index         int
	Interval      Interval
	StartLocation Location
	EndLocation   Location
	Timeline      Timeline
}

func NewTimeBlock(index int, iv Interval, start, end Location) TimeBlock {
	return TimeBlock{
		Index:         index,
		Interval:      iv,
		StartLocation: start,
		EndLocation:   end,
		Timeline:      NewTimeline(iv),
	}
}

func (b *TimeBlock) LastEndTime() Time { return b.Timeline.LastEndTime() }

// OpenLegal is a legal-time set that allows the whole block.
func (b *TimeBlock) OpenLegal() LegalTimeline {
	lt := NewLegalTimeline(b.Interval)
	lt.Allow(b.Interval.Start, b.Interval.End)
	return lt
}

// Clone copies the block with a timeline of its own.
func (b *TimeBlock) Clone() TimeBlock {
	c := *b
	c.Timeline = b.Timeline.Clone()
	return c
}

// Activities lists the placed activities in order.
func (b *TimeBlock) Activities() []Activity {
	var out []Activity
	for _, e := range b.Timeline.entries {
		if a, ok := e.Item.(Activity); ok {
			out = append(out, a)
		}
	}
	return out
}
