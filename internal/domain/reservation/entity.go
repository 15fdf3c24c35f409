package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid reservation status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrMissingReason     = errors.New("cancellation requires a reason")
	ErrNotEditable       = errors.New("state does not allow editing")
	ErrNotCancellable    = errors.New("state does not allow cancellation")
)

// Reservation is the aggregate root. Status changes go through Transition
// only, which is the single path that appends to the audit history.
type Reservation struct {
	id                 uuid.UUID
	userID             uuid.UUID
	guestName          GuestName
	phoneNumber        PhoneNumber
	email              GuestEmail
	arrivalTime        ArrivalTime
	tableSize          TableSize
	specialRequests    SpecialRequests
	status             Status
	cancellationReason *string
	history            History
	createdAt          time.Time
	updatedAt          time.Time
}

// NewReservation creates a reservation in Requested status with the implicit
// initial history entry attributed to the creating user.
func NewReservation(
	userID uuid.UUID,
	guestName GuestName,
	phoneNumber PhoneNumber,
	email GuestEmail,
	arrivalTime ArrivalTime,
	tableSize TableSize,
	specialRequests SpecialRequests,
	now time.Time,
) *Reservation {
	creator := userID
	return &Reservation{
		id:              uuid.New(),
		userID:          userID,
		guestName:       guestName,
		phoneNumber:     phoneNumber,
		email:           email,
		arrivalTime:     arrivalTime,
		tableSize:       tableSize,
		specialRequests: specialRequests,
		status:          StatusRequested,
		history:         History{newHistoryEntry(StatusRequested, nil, &creator, now)},
		createdAt:       now,
		updatedAt:       now,
	}
}

func ReconstructReservation(
	id, userID uuid.UUID,
	guestName GuestName,
	phoneNumber PhoneNumber,
	email GuestEmail,
	arrivalTime ArrivalTime,
	tableSize TableSize,
	specialRequests SpecialRequests,
	status Status,
	cancellationReason *string,
	history History,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:                 id,
		userID:             userID,
		guestName:          guestName,
		phoneNumber:        phoneNumber,
		email:              email,
		arrivalTime:        arrivalTime,
		tableSize:          tableSize,
		specialRequests:    specialRequests,
		status:             status,
		cancellationReason: cancellationReason,
		history:            history,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Transition applies the status state machine and appends exactly one audit
// entry. Cancellation requires a reason; the reason is recorded on the entry
// and, for cancellations, on the reservation itself.
func (r *Reservation) Transition(target Status, reason *Reason, actor *uuid.UUID, now time.Time) (HistoryEntry, error) {
	if !target.IsValid() {
		return HistoryEntry{}, ErrInvalidStatus
	}
	if !r.status.CanTransitionTo(target) {
		return HistoryEntry{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.status, target)
	}
	if target == StatusCancelled && reason == nil {
		return HistoryEntry{}, ErrMissingReason
	}

	r.status = target
	if target == StatusCancelled {
		v := reason.Value()
		r.cancellationReason = &v
	}

	entry := newHistoryEntry(target, reason, actor, now)
	r.history = append(r.history, entry)
	r.updatedAt = now

	return entry, nil
}

// UpdatePatch carries the allowlisted fields an owner may change while the
// reservation is editable. Nil means "leave unchanged".
type UpdatePatch struct {
	GuestName       *GuestName
	PhoneNumber     *PhoneNumber
	Email           *GuestEmail
	ArrivalTime     *ArrivalTime
	TableSize       *TableSize
	SpecialRequests *SpecialRequests
}

func (p UpdatePatch) ChangesArrivalTime() bool {
	return p.ArrivalTime != nil
}

// ApplyUpdate mutates guest and scheduling fields. It never touches status
// and therefore appends no history entry.
func (r *Reservation) ApplyUpdate(patch UpdatePatch, now time.Time) error {
	if !r.CanEdit() {
		return ErrNotEditable
	}

	if patch.GuestName != nil {
		r.guestName = *patch.GuestName
	}
	if patch.PhoneNumber != nil {
		r.phoneNumber = *patch.PhoneNumber
	}
	if patch.Email != nil {
		r.email = *patch.Email
	}
	if patch.ArrivalTime != nil {
		r.arrivalTime = *patch.ArrivalTime
	}
	if patch.TableSize != nil {
		r.tableSize = *patch.TableSize
	}
	if patch.SpecialRequests != nil {
		r.specialRequests = *patch.SpecialRequests
	}
	r.updatedAt = now

	return nil
}

// CanEdit and CanCancel are projections of status, never stored.
func (r *Reservation) CanEdit() bool   { return r.status.IsActive() }
func (r *Reservation) CanCancel() bool { return r.status.IsActive() }

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) ID() uuid.UUID                   { return r.id }
func (r *Reservation) UserID() uuid.UUID               { return r.userID }
func (r *Reservation) GuestName() GuestName            { return r.guestName }
func (r *Reservation) PhoneNumber() PhoneNumber        { return r.phoneNumber }
func (r *Reservation) Email() GuestEmail               { return r.email }
func (r *Reservation) ArrivalTime() ArrivalTime        { return r.arrivalTime }
func (r *Reservation) TableSize() TableSize            { return r.tableSize }
func (r *Reservation) SpecialRequests() SpecialRequests { return r.specialRequests }
func (r *Reservation) Status() Status                  { return r.status }
func (r *Reservation) CancellationReason() *string     { return r.cancellationReason }
func (r *Reservation) History() History                { return r.history }
func (r *Reservation) CreatedAt() time.Time            { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time            { return r.updatedAt }
