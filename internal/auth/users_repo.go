package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymflow/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	Username     string
	DisplayName  string
	PasswordHash string
	Roles        []string
}

func (u *User) Role() string {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return RoleAdmin
		}
	}
	return RoleUser
}

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) GetUser(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.users.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	u := &User{}
	err = r.db.QueryRow(ctx, `
		SELECT p.username, p.display_name, p.password_hash,
		       COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')
		FROM profiles p
		LEFT JOIN user_roles ur ON ur.username = p.username
		WHERE p.username = $1
		GROUP BY p.username, p.display_name, p.password_hash
	`, username).Scan(&u.Username, &u.DisplayName, &u.PasswordHash, &u.Roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}

	return u, nil
}

func (r *UsersRepo) AddUser(ctx context.Context, user User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.users.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `
		INSERT INTO profiles (username, display_name, password_hash)
		VALUES ($1, $2, $3)
	`, user.Username, user.DisplayName, user.PasswordHash); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	for _, role := range user.Roles {
		if _, err = tx.Exec(ctx, `
			INSERT INTO user_roles (username, role) VALUES ($1, $2)
		`, user.Username, role); err != nil {
			return fmt.Errorf("insert role %s: %w", role, err)
		}
	}

	return nil
}
