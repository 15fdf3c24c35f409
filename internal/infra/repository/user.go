package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tablebook/internal/domain/user"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/pgconv"
	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgErrCodeUniqueViolation = "23505"

type UserRepository struct {
	db shared.DBTX
}

func NewUserRepository(db shared.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const insertUserSQL = `
INSERT INTO users (id, username, email, password_hash, role, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, insertUserSQL,
		u.ID(),
		u.Username().Value(),
		u.Email().Value(),
		u.PasswordHash(),
		u.Role().String(),
		u.IsActive(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr(slog.Default(), infra.KindDuplicateKey, "user already exists", err)
		}
		return infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to insert user", err)
	}
	return nil
}

const updateLastLoginSQL = `
UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, updateLastLoginSQL, userID, pgconv.TimeToPgtype(at))
	if err != nil {
		return infra.WrapRepoErr(slog.Default(), infra.KindDBFailure, "failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(slog.Default(), infra.KindNotFound, "user not found", nil)
	}
	return nil
}
