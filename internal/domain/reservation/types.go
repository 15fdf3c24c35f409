package reservation

type Status string

const (
	StatusRequested Status = "Requested"
	StatusApproved  Status = "Approved"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

// legal status transitions; terminal states have no exits
var transitions = map[Status][]Status{
	StatusRequested: {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusCompleted, StatusCancelled},
	StatusCancelled: {},
	StatusCompleted: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsActive reports whether the reservation still occupies its time slot
// for conflict-detection purposes.
func (s Status) IsActive() bool {
	return s == StatusRequested || s == StatusApproved
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ActiveStatuses returns the statuses considered when searching for
// overlapping reservations.
func ActiveStatuses() []Status {
	return []Status{StatusRequested, StatusApproved}
}
