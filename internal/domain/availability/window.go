package availability

import (
	"errors"
	"sort"
	"time"

	"eropoppin-booking/internal/domain/booking"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow  = errors.New("invalid availability window")
	ErrInvalidWeekday = errors.New("invalid weekday")
)

const minutesPerDay = 24 * 60

// WeeklyWindow is a recurring opening: a weekday plus local start/end minutes
// from midnight in the provider's timezone. End may be 1440 (midnight).
type WeeklyWindow struct {
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
}

func (w WeeklyWindow) validate() error {
	if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
		return ErrInvalidWeekday
	}
	if w.StartMinute < 0 || w.EndMinute > minutesPerDay || w.StartMinute >= w.EndMinute {
		return ErrInvalidWindow
	}
	return nil
}

type ExceptionKind string

const (
	// ExceptionOpen adds a one-off opening outside the weekly pattern.
	ExceptionOpen ExceptionKind = "open"
	// ExceptionBlackout removes availability, overriding weekly windows and
	// open exceptions alike.
	ExceptionBlackout ExceptionKind = "blackout"
)

func (k ExceptionKind) IsValid() bool {
	return k == ExceptionOpen || k == ExceptionBlackout
}

type Exception struct {
	Kind  ExceptionKind
	Range booking.TimeRange
}

// Schedule is a provider's availability pattern. It is replaced wholesale on
// update; there are no partial patch semantics.
type Schedule struct {
	providerID uuid.UUID
	location   *time.Location
	weekly     []WeeklyWindow
	exceptions []Exception
}

func NewSchedule(providerID uuid.UUID, location *time.Location, weekly []WeeklyWindow, exceptions []Exception) (*Schedule, error) {
	if location == nil {
		location = time.UTC
	}
	for _, w := range weekly {
		if err := w.validate(); err != nil {
			return nil, err
		}
	}
	for _, e := range exceptions {
		if !e.Kind.IsValid() || e.Range.IsZero() {
			return nil, ErrInvalidWindow
		}
	}

	s := &Schedule{
		providerID: providerID,
		location:   location,
		weekly:     make([]WeeklyWindow, len(weekly)),
		exceptions: make([]Exception, len(exceptions)),
	}
	copy(s.weekly, weekly)
	copy(s.exceptions, exceptions)
	return s, nil
}

func (s *Schedule) ProviderID() uuid.UUID    { return s.providerID }
func (s *Schedule) Location() *time.Location { return s.location }

func (s *Schedule) Weekly() []WeeklyWindow {
	out := make([]WeeklyWindow, len(s.weekly))
	copy(out, s.weekly)
	return out
}

func (s *Schedule) Exceptions() []Exception {
	out := make([]Exception, len(s.exceptions))
	copy(out, s.exceptions)
	return out
}

// WindowsBetween expands the weekly pattern plus exceptions into concrete,
// merged, non-overlapping ranges clipped to [from, to), sorted by start.
func (s *Schedule) WindowsBetween(from, to time.Time) []booking.TimeRange {
	if !from.Before(to) {
		return nil
	}

	var windows []booking.TimeRange

	// Walk local days; start one day early so a window straddling midnight
	// into the query range is not missed.
	localFrom := from.In(s.location)
	day := time.Date(localFrom.Year(), localFrom.Month(), localFrom.Day(), 0, 0, 0, 0, s.location).AddDate(0, 0, -1)
	localTo := to.In(s.location)

	for ; day.Before(localTo); day = day.AddDate(0, 0, 1) {
		for _, w := range s.weekly {
			if day.Weekday() != w.Weekday {
				continue
			}
			start := day.Add(time.Duration(w.StartMinute) * time.Minute)
			end := day.Add(time.Duration(w.EndMinute) * time.Minute)
			if clipped, ok := clip(start, end, from, to); ok {
				windows = append(windows, clipped)
			}
		}
	}

	for _, e := range s.exceptions {
		if e.Kind != ExceptionOpen {
			continue
		}
		if clipped, ok := clip(e.Range.Start(), e.Range.End(), from, to); ok {
			windows = append(windows, clipped)
		}
	}

	windows = mergeRanges(windows)

	for _, e := range s.exceptions {
		if e.Kind != ExceptionBlackout {
			continue
		}
		windows = subtractRange(windows, e.Range)
	}

	return windows
}

// Covers reports whether r falls entirely inside the schedule, accounting
// for blackout exceptions. Merged windows are contiguous, so coverage means
// one window contains the whole range.
func (s *Schedule) Covers(r booking.TimeRange) bool {
	for _, w := range s.WindowsBetween(r.Start(), r.End()) {
		if w.Covers(r) {
			return true
		}
	}
	return false
}

func clip(start, end, from, to time.Time) (booking.TimeRange, bool) {
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if !start.Before(end) {
		return booking.TimeRange{}, false
	}
	r, err := booking.NewTimeRange(start, end)
	if err != nil {
		return booking.TimeRange{}, false
	}
	return r, true
}

// mergeRanges sorts by start and coalesces overlapping or touching ranges.
func mergeRanges(ranges []booking.TimeRange) []booking.TimeRange {
	if len(ranges) <= 1 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start().Before(ranges[j].Start())
	})

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := merged[len(merged)-1]
		if !r.Start().After(last.End()) {
			if r.End().After(last.End()) {
				merged[len(merged)-1] = booking.MustTimeRange(last.Start(), r.End())
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// subtractRange removes hole from every range, splitting where needed.
func subtractRange(ranges []booking.TimeRange, hole booking.TimeRange) []booking.TimeRange {
	var out []booking.TimeRange
	for _, r := range ranges {
		if !r.Overlaps(hole) {
			out = append(out, r)
			continue
		}
		if r.Start().Before(hole.Start()) {
			out = append(out, booking.MustTimeRange(r.Start(), hole.Start()))
		}
		if hole.End().Before(r.End()) {
			out = append(out, booking.MustTimeRange(hole.End(), r.End()))
		}
	}
	return out
}

// subtractRanges removes every hole (sorted or not) from the ranges.
func subtractRanges(ranges []booking.TimeRange, holes []booking.TimeRange) []booking.TimeRange {
	out := ranges
	for _, h := range holes {
		out = subtractRange(out, h)
	}
	return out
}
