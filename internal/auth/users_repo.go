package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fitmix/backend/internal/telemetry/tracing"
	"github.com/fitmix/backend/pkg"
)

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO users (id, email, password_hash, display_name, photo_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.PhotoURL, user.CreatedAt,
	); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}

func (r *UsersRepo) Get(ctx context.Context, id string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	return r.getBy(ctx, `SELECT id, email, password_hash, display_name, photo_url, created_at FROM users WHERE id = $1;`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getBy(ctx, `SELECT id, email, password_hash, display_name, photo_url, created_at FROM users WHERE email = $1;`, email)
}

func (r *UsersRepo) getBy(ctx context.Context, query string, args ...any) (*User, error) {
	var user User
	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&id, &user.Email, &user.PasswordHash, &user.DisplayName, &user.PhotoURL, &user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.ID = id.String()
	return &user, nil
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updateProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	return r.getBy(
		ctx,
		`UPDATE users
			SET display_name = COALESCE($2, display_name), photo_url = COALESCE($3, photo_url)
			WHERE id = $1
			RETURNING id, email, password_hash, display_name, photo_url, created_at;`,
		id, update.DisplayName, update.PhotoURL,
	)
}

func (r *UsersRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.updatePassword")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", id))

	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2;`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
