package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidRange   = errors.New("start time must be before end time")
	ErrEmptyReason    = errors.New("reason must not be empty")
	ErrReasonTooLong  = errors.New("reason exceeds maximum length")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

const MaxReasonLength = 500

// TimeRange is a half-open interval [start, end). Touching endpoints do not
// overlap, so back-to-back bookings are allowed.
type TimeRange struct {
	start time.Time
	end   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{start: start, end: end}, nil
}

// MustTimeRange panics on an invalid range; for tests and literals only.
func MustTimeRange(start, end time.Time) TimeRange {
	r, err := NewTimeRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

func (r TimeRange) Start() time.Time { return r.start }
func (r TimeRange) End() time.Time   { return r.end }

func (r TimeRange) Duration() time.Duration {
	return r.end.Sub(r.start)
}

func (r TimeRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

func (r TimeRange) Contains(point time.Time) bool {
	return !point.Before(r.start) && point.Before(r.end)
}

// Covers reports whether other lies entirely within r.
func (r TimeRange) Covers(other TimeRange) bool {
	return !other.start.Before(r.start) && !other.end.After(r.end)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s,%s)", r.start.Format(time.RFC3339), r.end.Format(time.RFC3339))
}

// Money is an amount in integer minor units (cents). Conversion to display
// currency happens only at the formatting boundary.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Reason is the mandatory free-text justification for reject/cancel.
type Reason struct {
	value string
}

func NewReason(value string) (Reason, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Reason{}, ErrEmptyReason
	}
	if len(trimmed) > MaxReasonLength {
		return Reason{}, ErrReasonTooLong
	}
	return Reason{value: trimmed}, nil
}

func (r Reason) String() string {
	return r.value
}

func (r Reason) IsEmpty() bool {
	return r.value == ""
}
