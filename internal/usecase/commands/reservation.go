package commands

import (
	"context"
	"errors"
	"time"

	"tablebook/internal/domain/reservation"
	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound     = errs.New("reservation not found")
	ErrReservationAccess       = errs.New("reservation access denied")
	ErrSchedulingConflict      = errs.New("conflicting reservation exists")
	ErrInvalidStateTransition  = errs.New("invalid status transition")
	ErrMissingReason           = errs.New("cancellation reason required")
	ErrEditNotAllowed          = errs.New("reservation can no longer be edited")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type ReservationCommands interface {
	Create(ctx context.Context, actor shared.Actor, req reqdto.CreateReservationRequest) (*queries.ReservationView, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req reqdto.UpdateReservationRequest) (*queries.ReservationView, error)
	UpdateStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, req reqdto.UpdateReservationStatusRequest) (*queries.ReservationView, error)
	Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID, req reqdto.CancelReservationRequest) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore queries.ReservationReadStore
	cache     queries.TodayCache
	clock     clock.Clock
	loc       *time.Location
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	readStore queries.ReservationReadStore,
	cache queries.TodayCache,
	clk clock.Clock,
	loc *time.Location,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:       uow,
		readStore: readStore,
		cache:     cache,
		clock:     clk,
		loc:       loc,
	}
}

func (c *reservationCommandsImpl) Create(ctx context.Context, actor shared.Actor, req reqdto.CreateReservationRequest) (*queries.ReservationView, error) {
	now := c.clock.Now()

	guestName, err := reservation.NewGuestName(req.GuestName)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	phone, err := reservation.NewPhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	email, err := reservation.NewGuestEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	arrival, err := reservation.NewArrivalTime(req.ArrivalTime, now, c.loc)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	tableSize, err := reservation.NewTableSize(req.TableSize)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	requests, err := reservation.NewSpecialRequests(req.SpecialRequests)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	res := reservation.NewReservation(actor.ID, guestName, phone, email, arrival, tableSize, requests, now)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		conflict, err := tx.Reservations().HasActiveWithin(ctx, actor.ID, arrival.Value(), reservation.ConflictWindow, uuid.Nil)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if conflict {
			return ErrSchedulingConflict
		}

		if err := tx.Reservations().Create(ctx, res); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx)

	return c.readAfterWrite(ctx, res.ID())
}

func (c *reservationCommandsImpl) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, req reqdto.UpdateReservationRequest) (*queries.ReservationView, error) {
	now := c.clock.Now()

	patch, err := c.buildPatch(req, now)
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := c.lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}

		if !actor.IsAdmin() && !res.IsOwnedBy(actor.ID) {
			return ErrReservationAccess
		}

		if patch.ChangesArrivalTime() {
			conflict, err := tx.Reservations().HasActiveWithin(ctx, res.UserID(), patch.ArrivalTime.Value(), reservation.ConflictWindow, id)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if conflict {
				return ErrSchedulingConflict
			}
		}

		if err := res.ApplyUpdate(patch, now); err != nil {
			return errs.Mark(err, ErrEditNotAllowed)
		}

		if err := tx.Reservations().Update(ctx, res, nil); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx)

	return c.readAfterWrite(ctx, id)
}

func (c *reservationCommandsImpl) UpdateStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, req reqdto.UpdateReservationStatusRequest) (*queries.ReservationView, error) {
	if !actor.IsAdmin() {
		return nil, ErrReservationAccess
	}

	target, err := reservation.NewStatus(req.Status)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	reason, err := c.buildReason(req.Reason)
	if err != nil {
		return nil, err
	}

	return c.transition(ctx, id, target, reason, actor.ID)
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID, req reqdto.CancelReservationRequest) (*queries.ReservationView, error) {
	reason, err := reservation.NewReason(req.Reason)
	if err != nil {
		if errors.Is(err, reservation.ErrEmptyReason) {
			return nil, errs.Mark(err, ErrMissingReason)
		}
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := c.lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}

		if !actor.IsAdmin() && !res.IsOwnedBy(actor.ID) {
			return ErrReservationAccess
		}

		return c.applyTransition(ctx, tx, res, reservation.StatusCancelled, &reason, actor.ID)
	})
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx)

	return c.readAfterWrite(ctx, id)
}

func (c *reservationCommandsImpl) transition(ctx context.Context, id uuid.UUID, target reservation.Status, reason *reservation.Reason, actorID uuid.UUID) (*queries.ReservationView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := c.lockReservation(ctx, tx, id)
		if err != nil {
			return err
		}
		return c.applyTransition(ctx, tx, res, target, reason, actorID)
	})
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate(ctx)

	return c.readAfterWrite(ctx, id)
}

func (c *reservationCommandsImpl) applyTransition(ctx context.Context, tx shared.Tx, res *reservation.Reservation, target reservation.Status, reason *reservation.Reason, actorID uuid.UUID) error {
	entry, err := res.Transition(target, reason, &actorID, c.clock.Now())
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrMissingReason):
			return errs.Mark(err, ErrMissingReason)
		case errors.Is(err, reservation.ErrInvalidTransition):
			return errs.Mark(err, ErrInvalidStateTransition)
		default:
			return errs.Mark(err, ErrDomainValidation)
		}
	}

	if err := tx.Reservations().Update(ctx, res, []reservation.HistoryEntry{entry}); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *reservationCommandsImpl) lockReservation(ctx context.Context, tx shared.Tx, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := tx.Reservations().FindByIDForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return res, nil
}

func (c *reservationCommandsImpl) buildPatch(req reqdto.UpdateReservationRequest, now time.Time) (reservation.UpdatePatch, error) {
	var patch reservation.UpdatePatch

	if req.GuestName != nil {
		v, err := reservation.NewGuestName(*req.GuestName)
		if err != nil {
			return patch, errs.Mark(err, ErrDomainValidation)
		}
		patch.GuestName = &v
	}
	if req.PhoneNumber != nil {
		v, err := reservation.NewPhoneNumber(*req.PhoneNumber)
		if err != nil {
			return patch, errs.Mark(err, ErrDomainValidation)
		}
		patch.PhoneNumber = &v
	}
	if req.Email != nil {
		v, err := reservation.NewGuestEmail(*req.Email)
		if err != nil {
			return patch, errs.Mark(err, ErrDomainValidation)
		}
		patch.Email = &v
	}
	if req.ArrivalTime != nil {
		v, err := reservation.NewArrivalTime(*req.ArrivalTime, now, c.loc)
		if err != nil {
			return patch, errs.Mark(err, ErrDomainValidation)
		}
		patch.ArrivalTime = &v
	}
	if req.TableSize != nil {
		v, err := reservation.NewTableSize(*req.TableSize)
		if err != nil {
			return patch, errs.Mark(err, ErrDomainValidation)
		}
		patch.TableSize = &v
	}
	if req.SpecialRequests != nil {
		v, err := reservation.NewSpecialRequests(*req.SpecialRequests)
		if err != nil {
			return patch, errs.Mark(err, ErrDomainValidation)
		}
		patch.SpecialRequests = &v
	}

	return patch, nil
}

func (c *reservationCommandsImpl) buildReason(raw *string) (*reservation.Reason, error) {
	if raw == nil {
		return nil, nil
	}
	reason, err := reservation.NewReason(*raw)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	return &reason, nil
}

func (c *reservationCommandsImpl) readAfterWrite(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	view, err := c.readStore.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}
