package readstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tablebook/internal/infra"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationReadStore struct {
	pool *pgxpool.Pool
}

func NewReservationReadStore(pool *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

const findReservationSQL = `
SELECT id, user_id, guest_name, phone_number, email, arrival_time,
	table_size, status, special_requests, cancellation_reason,
	created_at, updated_at
FROM reservations
WHERE id = $1`

const findHistorySQL = `
SELECT status, reason, changed_at, changed_by
FROM reservation_status_history
WHERE reservation_id = $1
ORDER BY id`

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var (
		view               queries.ReservationView
		arrivalTime        pgtype.Timestamptz
		cancellationReason pgtype.Text
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
	)

	err := s.pool.QueryRow(ctx, findReservationSQL, id).Scan(
		&view.ID, &view.UserID, &view.GuestName, &view.PhoneNumber, &view.Email,
		&arrivalTime, &view.TableSize, &view.Status, &view.SpecialRequests,
		&cancellationReason, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(slog.Default(), infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to find reservation", err)
	}

	view.ArrivalTime = pgconv.TimeFromPgtype(arrivalTime)
	view.CancellationReason = pgconv.StringPtrFromPgtype(cancellationReason)
	view.CanEdit = queries.StatusAllowsChanges(view.Status)
	view.CanCancel = queries.StatusAllowsChanges(view.Status)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	history, err := s.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	view.StatusHistory = history

	return &view, nil
}

func (s *ReservationReadStore) loadHistory(ctx context.Context, reservationID uuid.UUID) ([]queries.StatusChangeView, error) {
	rows, err := s.pool.Query(ctx, findHistorySQL, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to load status history", err)
	}
	defer rows.Close()

	history := []queries.StatusChangeView{}
	for rows.Next() {
		var (
			entry     queries.StatusChangeView
			reason    pgtype.Text
			changedAt pgtype.Timestamptz
			changedBy pgtype.UUID
		)
		if err := rows.Scan(&entry.Status, &reason, &changedAt, &changedBy); err != nil {
			return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to scan status history", err)
		}
		entry.Reason = pgconv.StringPtrFromPgtype(reason)
		entry.ChangedAt = pgconv.TimeFromPgtype(changedAt)
		entry.ChangedBy = pgconv.UUIDPtrFromPgtype(changedBy)
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to read status history", err)
	}

	return history, nil
}

const listSelectSQL = `
SELECT r.id, r.user_id, u.email, r.guest_name, r.phone_number,
	r.arrival_time, r.table_size, r.status, r.created_at,
	count(*) OVER() AS total
FROM reservations r
JOIN users u ON u.id = r.user_id`

func (s *ReservationReadStore) FindByUser(ctx context.Context, userID uuid.UUID, opts queries.ListOptions) ([]*queries.ReservationListItem, int64, error) {
	opts.UserID = &userID
	return s.list(ctx, opts)
}

func (s *ReservationReadStore) FindAll(ctx context.Context, opts queries.ListOptions) ([]*queries.ReservationListItem, int64, error) {
	return s.list(ctx, opts)
}

func (s *ReservationReadStore) FindArrivingBetween(ctx context.Context, from, to time.Time, status *string) ([]*queries.ReservationListItem, error) {
	sql := listSelectSQL + `
WHERE r.arrival_time >= $1 AND r.arrival_time < $2`
	args := []any{pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to)}
	if status != nil {
		sql += " AND r.status = $3"
		args = append(args, *status)
	}
	sql += "\nORDER BY r.arrival_time"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to list reservations", err)
	}
	defer rows.Close()

	items, _, err := scanListItems(rows)
	return items, err
}

// listFilters renders the WHERE clause for the validated filter set. The
// search term matches guest name or email case-insensitively.
func listFilters(opts queries.ListOptions) (string, []any) {
	conds := []string{}
	args := []any{}

	if opts.UserID != nil {
		args = append(args, *opts.UserID)
		conds = append(conds, fmt.Sprintf("r.user_id = $%d", len(args)))
	}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		conds = append(conds, fmt.Sprintf("(r.guest_name ILIKE $%d OR r.email ILIKE $%d)", len(args), len(args)))
	}
	if opts.DateFrom != nil {
		args = append(args, pgconv.TimeToPgtype(*opts.DateFrom))
		conds = append(conds, fmt.Sprintf("r.arrival_time >= $%d", len(args)))
	}
	if opts.DateTo != nil {
		args = append(args, pgconv.TimeToPgtype(*opts.DateTo))
		conds = append(conds, fmt.Sprintf("r.arrival_time < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// Sort columns come from the validated allowlist in the queries layer; they
// are never raw user input.
func (s *ReservationReadStore) list(ctx context.Context, opts queries.ListOptions) ([]*queries.ReservationListItem, int64, error) {
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	where, args := listFilters(opts)
	sql := listSelectSQL
	if where != "" {
		sql += "\n" + where
	}
	sql += fmt.Sprintf("\nORDER BY r.%s %s\nLIMIT %d OFFSET %d", opts.SortBy, direction, opts.Limit, opts.Offset())

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to list reservations", err)
	}
	defer rows.Close()

	items, total, err := scanListItems(rows)
	if err != nil {
		return nil, 0, err
	}

	if total == 0 && opts.Offset() > 0 {
		// The window count is absent when the page is past the end; fetch it separately.
		countSQL := "SELECT count(*) FROM reservations r JOIN users u ON u.id = r.user_id"
		if where != "" {
			countSQL += " " + where
		}
		if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
			return nil, 0, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to count reservations", err)
		}
	}

	return items, total, nil
}

type listRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanListItems(rows listRows) ([]*queries.ReservationListItem, int64, error) {
	items := []*queries.ReservationListItem{}
	var total int64
	for rows.Next() {
		var (
			item        queries.ReservationListItem
			arrivalTime pgtype.Timestamptz
			createdAt   pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.UserEmail, &item.GuestName, &item.PhoneNumber,
			&arrivalTime, &item.TableSize, &item.Status, &createdAt, &total,
		); err != nil {
			return nil, 0, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to scan reservation row", err)
		}
		item.ArrivalTime = pgconv.TimeFromPgtype(arrivalTime)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to read reservation rows", err)
	}
	return items, total, nil
}
