package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}

// Blocks reports whether a booking in this status holds its time range
// against new bookings. Cancelled and rejected bookings release the slot.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Event string

const (
	EventConfirm  Event = "confirm"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
)

func (e Event) String() string {
	return string(e)
}

func (e Event) IsValid() bool {
	switch e {
	case EventConfirm, EventReject, EventCancel, EventComplete:
		return true
	default:
		return false
	}
}
