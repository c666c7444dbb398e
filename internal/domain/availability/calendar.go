package availability

import (
	"errors"
	"iter"
	"sort"
	"time"

	"eropoppin-booking/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrSlotTaken      = errors.New("time range overlaps an existing booking")
	ErrUnknownBooking = errors.New("booking not present in calendar")
)

// Entry is one blocking booking (pending or confirmed) on the calendar.
type Entry struct {
	BookingID uuid.UUID
	Range     booking.TimeRange
}

// Calendar holds one provider's blocking bookings as a sorted,
// non-overlapping interval set. Lookups and inserts use binary search, so a
// free-check is O(log n) no matter how long the provider's history grows.
//
// Calendar is not safe for concurrent mutation; the scheduler serializes
// access per provider.
type Calendar struct {
	entries []Entry
}

// NewCalendar builds a calendar from existing blocking bookings. Entries are
// sorted; overlapping input indicates corrupted state and returns ErrSlotTaken.
func NewCalendar(entries []Entry) (*Calendar, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start().Before(sorted[j].Range.Start())
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Range.Overlaps(sorted[i].Range) {
			return nil, ErrSlotTaken
		}
	}
	return &Calendar{entries: sorted}, nil
}

func (c *Calendar) Len() int {
	return len(c.entries)
}

// IsFree reports whether r overlaps no entry. Entries are sorted and
// non-overlapping, so ends are sorted too: only the last entry starting
// before r.End can reach into r.
func (c *Calendar) IsFree(r booking.TimeRange) bool {
	idx := sort.Search(len(c.entries), func(i int) bool {
		return !c.entries[i].Range.Start().Before(r.End())
	})
	if idx == 0 {
		return true
	}
	return !c.entries[idx-1].Range.End().After(r.Start())
}

// Reserve inserts the booking's range, failing with ErrSlotTaken when it
// overlaps. Callers must hold the provider's lock across IsFree and Reserve.
func (c *Calendar) Reserve(bookingID uuid.UUID, r booking.TimeRange) error {
	if !c.IsFree(r) {
		return ErrSlotTaken
	}
	idx := sort.Search(len(c.entries), func(i int) bool {
		return !c.entries[i].Range.Start().Before(r.Start())
	})
	c.entries = append(c.entries, Entry{})
	copy(c.entries[idx+1:], c.entries[idx:])
	c.entries[idx] = Entry{BookingID: bookingID, Range: r}
	return nil
}

// Release removes a booking's range, e.g. after a cancel or reject
// transition. Partial reservations must not silently leak availability.
func (c *Calendar) Release(bookingID uuid.UUID) error {
	for i, e := range c.entries {
		if e.BookingID == bookingID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return nil
		}
	}
	return ErrUnknownBooking
}

// BookedRanges yields ranges intersecting [from, to) ordered by start. The
// sequence is lazy and restartable; each iteration re-runs the scan.
func (c *Calendar) BookedRanges(from, to time.Time) iter.Seq[booking.TimeRange] {
	return func(yield func(booking.TimeRange) bool) {
		window, err := booking.NewTimeRange(from, to)
		if err != nil {
			return
		}
		// First entry that could intersect: the one before the first entry
		// starting at or after from may still reach past from.
		idx := sort.Search(len(c.entries), func(i int) bool {
			return !c.entries[i].Range.Start().Before(from)
		})
		if idx > 0 && c.entries[idx-1].Range.End().After(from) {
			idx--
		}
		for ; idx < len(c.entries); idx++ {
			r := c.entries[idx].Range
			if !r.Start().Before(to) {
				return
			}
			if !r.Overlaps(window) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// FreeSlots derives bookable ranges in [from, to): the schedule's expanded
// windows minus every blocking booking.
func (c *Calendar) FreeSlots(sched *Schedule, from, to time.Time) []booking.TimeRange {
	windows := sched.WindowsBetween(from, to)
	if len(windows) == 0 {
		return nil
	}
	var booked []booking.TimeRange
	for r := range c.BookedRanges(from, to) {
		booked = append(booked, r)
	}
	return subtractRanges(windows, booked)
}
