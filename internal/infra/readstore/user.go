package readstore

import (
	"context"
	"log/slog"

	"tablebook/internal/infra"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) *UserReadStore {
	return &UserReadStore{pool: pool}
}

const findUserByIDSQL = `
SELECT id, username, email, role, is_active, created_at
FROM users
WHERE id = $1`

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var (
		view      queries.AuthorizedUserView
		createdAt pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, findUserByIDSQL, id).Scan(
		&view.ID, &view.Username, &view.Email, &view.Role, &view.IsActive, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(slog.Default(), infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to find user by ID", err)
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &view, nil
}

const findUserByEmailSQL = `
SELECT id, username, email, password_hash, role, is_active, created_at
FROM users
WHERE email = $1`

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		view         queries.AuthorizedUserView
		passwordHash string
		createdAt    pgtype.Timestamptz
	)
	err := s.pool.QueryRow(ctx, findUserByEmailSQL, email).Scan(
		&view.ID, &view.Username, &view.Email, &passwordHash, &view.Role, &view.IsActive, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr(slog.Default(), infra.KindNotFound, "user not found", err)
		}
		return nil, "", infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to find user by email", err)
	}
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &view, passwordHash, nil
}
