package reservation

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records a single status change. ChangedBy is nil for
// system-initiated changes that carry no actor context.
type HistoryEntry struct {
	Status    Status
	Reason    *string
	ChangedAt time.Time
	ChangedBy *uuid.UUID
}

// History is the append-only audit trail of a reservation. Entries are never
// edited or removed; the last entry's status always equals the reservation's
// current status.
type History []HistoryEntry

func (h History) Last() (HistoryEntry, bool) {
	if len(h) == 0 {
		return HistoryEntry{}, false
	}
	return h[len(h)-1], true
}

func (h History) Len() int {
	return len(h)
}

func newHistoryEntry(status Status, reason *Reason, changedBy *uuid.UUID, at time.Time) HistoryEntry {
	entry := HistoryEntry{
		Status:    status,
		ChangedAt: at,
		ChangedBy: changedBy,
	}
	if reason != nil {
		v := reason.Value()
		entry.Reason = &v
	}
	return entry
}
