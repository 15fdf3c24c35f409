package shared

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the common surface of pgxpool.Pool and pgx.Tx; repositories run
// against either without knowing which.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db DBTX) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Users() UserRepository
	DB() DBTX
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	// FindByIDForUpdate locks the reservation row for the rest of the
	// transaction; concurrent writers to the same id queue behind it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// Update persists mutable guest fields and the current status. Entries
	// holds the history rows appended since the entity was loaded.
	Update(ctx context.Context, res *reservation.Reservation, entries []reservation.HistoryEntry) error
	// HasActiveWithin reports whether userID holds a Requested or Approved
	// reservation with an arrival time inside [arrival-window, arrival+window].
	// excludeID skips the reservation being edited; uuid.Nil excludes nothing.
	HasActiveWithin(ctx context.Context, userID uuid.UUID, arrival time.Time, window time.Duration, excludeID uuid.UUID) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}
