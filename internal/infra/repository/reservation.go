package repository

import (
	"context"
	"log/slog"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationRepository struct {
	db shared.DBTX
}

func NewReservationRepository(db shared.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const insertReservationSQL = `
INSERT INTO reservations (
	id, user_id, guest_name, phone_number, email, arrival_time,
	table_size, status, special_requests, cancellation_reason,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const insertHistorySQL = `
INSERT INTO reservation_status_history (
	reservation_id, status, reason, changed_at, changed_by
) VALUES ($1, $2, $3, $4, $5)`

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	_, err := r.db.Exec(ctx, insertReservationSQL,
		res.ID(),
		res.UserID(),
		res.GuestName().Value(),
		res.PhoneNumber().Value(),
		res.Email().Value(),
		pgconv.TimeToPgtype(res.ArrivalTime().Value()),
		res.TableSize().Value(),
		res.Status().String(),
		res.SpecialRequests().Value(),
		pgconv.StringPtrToPgtype(res.CancellationReason()),
		pgconv.TimeToPgtype(res.CreatedAt()),
		pgconv.TimeToPgtype(res.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to insert reservation", err)
	}

	return r.insertHistory(ctx, res.ID(), res.History())
}

const selectForUpdateSQL = `
SELECT id, user_id, guest_name, phone_number, email, arrival_time,
	table_size, status, special_requests, cancellation_reason,
	created_at, updated_at
FROM reservations
WHERE id = $1
FOR UPDATE`

const selectHistorySQL = `
SELECT status, reason, changed_at, changed_by
FROM reservation_status_history
WHERE reservation_id = $1
ORDER BY id`

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var (
		resID, userID      uuid.UUID
		guestName          string
		phoneNumber        string
		email              string
		arrivalTime        pgtype.Timestamptz
		tableSize          int
		status             string
		specialRequests    string
		cancellationReason pgtype.Text
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, selectForUpdateSQL, id).Scan(
		&resID, &userID, &guestName, &phoneNumber, &email, &arrivalTime,
		&tableSize, &status, &specialRequests, &cancellationReason,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(slog.Default(), infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to find reservation", err)
	}

	history, err := r.loadHistory(ctx, resID)
	if err != nil {
		return nil, err
	}

	return r.reconstruct(
		resID, userID, guestName, phoneNumber, email, arrivalTime,
		tableSize, status, specialRequests, cancellationReason,
		createdAt, updatedAt, history,
	)
}

const updateReservationSQL = `
UPDATE reservations SET
	guest_name = $2,
	phone_number = $3,
	email = $4,
	arrival_time = $5,
	table_size = $6,
	status = $7,
	special_requests = $8,
	cancellation_reason = $9,
	updated_at = $10
WHERE id = $1`

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation, entries []reservation.HistoryEntry) error {
	tag, err := r.db.Exec(ctx, updateReservationSQL,
		res.ID(),
		res.GuestName().Value(),
		res.PhoneNumber().Value(),
		res.Email().Value(),
		pgconv.TimeToPgtype(res.ArrivalTime().Value()),
		res.TableSize().Value(),
		res.Status().String(),
		res.SpecialRequests().Value(),
		pgconv.StringPtrToPgtype(res.CancellationReason()),
		pgconv.TimeToPgtype(res.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(slog.Default(), infra.KindNotFound, "reservation not found", nil)
	}

	return r.insertHistory(ctx, res.ID(), entries)
}

const activeWithinSQL = `
SELECT EXISTS (
	SELECT 1 FROM reservations
	WHERE user_id = $1
	  AND status IN ('Requested', 'Approved')
	  AND arrival_time BETWEEN $2 AND $3
	  AND id <> $4
)`

func (r *ReservationRepository) HasActiveWithin(ctx context.Context, userID uuid.UUID, arrival time.Time, window time.Duration, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, activeWithinSQL,
		userID,
		pgconv.TimeToPgtype(arrival.Add(-window)),
		pgconv.TimeToPgtype(arrival.Add(window)),
		excludeID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to check reservation conflicts", err)
	}
	return exists, nil
}

func (r *ReservationRepository) insertHistory(ctx context.Context, reservationID uuid.UUID, entries []reservation.HistoryEntry) error {
	for _, entry := range entries {
		_, err := r.db.Exec(ctx, insertHistorySQL,
			reservationID,
			entry.Status.String(),
			pgconv.StringPtrToPgtype(entry.Reason),
			pgconv.TimeToPgtype(entry.ChangedAt),
			pgconv.UUIDPtrToPgtype(entry.ChangedBy),
		)
		if err != nil {
			return infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to insert status history", err)
		}
	}
	return nil
}

func (r *ReservationRepository) loadHistory(ctx context.Context, reservationID uuid.UUID) (reservation.History, error) {
	rows, err := r.db.Query(ctx, selectHistorySQL, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to load status history", err)
	}
	defer rows.Close()

	var history reservation.History
	for rows.Next() {
		var (
			status    string
			reason    pgtype.Text
			changedAt pgtype.Timestamptz
			changedBy pgtype.UUID
		)
		if err := rows.Scan(&status, &reason, &changedAt, &changedBy); err != nil {
			return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to scan status history", err)
		}
		history = append(history, reservation.HistoryEntry{
			Status:    reservation.Status(status),
			Reason:    pgconv.StringPtrFromPgtype(reason),
			ChangedAt: pgconv.TimeFromPgtype(changedAt),
			ChangedBy: pgconv.UUIDPtrFromPgtype(changedBy),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to read status history", err)
	}

	return history, nil
}

func (r *ReservationRepository) reconstruct(
	id, userID uuid.UUID,
	guestName, phoneNumber, email string,
	arrivalTime pgtype.Timestamptz,
	tableSize int,
	status, specialRequests string,
	cancellationReason pgtype.Text,
	createdAt, updatedAt pgtype.Timestamptz,
	history reservation.History,
) (*reservation.Reservation, error) {
	name, err := reservation.NewGuestName(guestName)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "stored guest name is invalid", err)
	}
	phone, err := reservation.NewPhoneNumber(phoneNumber)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "stored phone number is invalid", err)
	}
	guestEmail, err := reservation.NewGuestEmail(email)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "stored email is invalid", err)
	}
	size, err := reservation.NewTableSize(tableSize)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "stored table size is invalid", err)
	}
	requests, err := reservation.NewSpecialRequests(specialRequests)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "stored special requests are invalid", err)
	}
	st, err := reservation.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "stored status is invalid", err)
	}

	return reservation.ReconstructReservation(
		id, userID,
		name, phone, guestEmail,
		reservation.ReconstructArrivalTime(pgconv.TimeFromPgtype(arrivalTime)),
		size, requests, st,
		pgconv.StringPtrFromPgtype(cancellationReason),
		history,
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
