package queries

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrReservationAccess   = errs.New("reservation access denied")
)

type ReservationQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReservationView, error)
	ListForUser(ctx context.Context, userID uuid.UUID, opts ListOptions) (*PagedReservations, error)
	ListAll(ctx context.Context, opts ListOptions) (*PagedReservations, error)
	ListToday(ctx context.Context, status *string) ([]*ReservationListItem, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUser(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*ReservationListItem, int64, error)
	FindAll(ctx context.Context, opts ListOptions) ([]*ReservationListItem, int64, error)
	FindArrivingBetween(ctx context.Context, from, to time.Time, status *string) ([]*ReservationListItem, error)
}

// TodayCache fronts the today listing. Keys combine the business day with
// the optional status filter. Implementations degrade to misses when the
// cache backend is unavailable.
type TodayCache interface {
	Get(ctx context.Context, key string) ([]*ReservationListItem, bool)
	Set(ctx context.Context, key string, items []*ReservationListItem)
	Invalidate(ctx context.Context)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
	cache     TodayCache
	clock     clock.Clock
	loc       *time.Location
}

func NewReservationQueries(readStore ReservationReadStore, cache TodayCache, clk clock.Clock, loc *time.Location) ReservationQueries {
	return &reservationQueriesImpl{
		readStore: readStore,
		cache:     cache,
		clock:     clk,
		loc:       loc,
	}
}

// GetByID returns the reservation with its full status history. Owners see
// their own reservations; admins see everything.
func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if !actor.IsAdmin() && view.UserID != actor.ID {
		return nil, ErrReservationAccess
	}

	return view, nil
}

func (q *reservationQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID, opts ListOptions) (*PagedReservations, error) {
	if err := validateStatusFilter(opts.Status); err != nil {
		return nil, err
	}

	items, total, err := q.readStore.FindByUser(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	return NewPagedReservations(items, opts.Page, opts.Limit, total), nil
}

func (q *reservationQueriesImpl) ListAll(ctx context.Context, opts ListOptions) (*PagedReservations, error) {
	if err := validateStatusFilter(opts.Status); err != nil {
		return nil, err
	}

	items, total, err := q.readStore.FindAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewPagedReservations(items, opts.Page, opts.Limit, total), nil
}

// ListToday returns reservations arriving today in the restaurant's timezone,
// optionally narrowed to one status, cache-first with a short TTL.
func (q *reservationQueriesImpl) ListToday(ctx context.Context, status *string) ([]*ReservationListItem, error) {
	if err := validateStatusFilter(status); err != nil {
		return nil, err
	}

	now := q.clock.Now().In(q.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, q.loc)
	to := from.AddDate(0, 0, 1)

	key := from.Format("2006-01-02")
	if status != nil {
		key += ":" + *status
	}

	if items, ok := q.cache.Get(ctx, key); ok {
		return items, nil
	}

	items, err := q.readStore.FindArrivingBetween(ctx, from, to, status)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*ReservationListItem{}
	}

	q.cache.Set(ctx, key, items)

	return items, nil
}

func validateStatusFilter(status *string) error {
	if status == nil {
		return nil
	}
	if _, err := reservation.NewStatus(*status); err != nil {
		return errs.Mark(err, ErrInvalidQuery)
	}
	return nil
}
