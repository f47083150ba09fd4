package userrepo

import (
	"context"
	"database/sql"
	"docmanager/internal/dbs/postgres"
	"docmanager/internal/entities"
	"docmanager/internal/models"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "userRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	_, err := postgres.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO users(id, email, name, role, pass_hash) VALUES($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Name, user.Role.String(), user.PassHash)

	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" {
				return &models.UniqueConstraintError{
					Constraint: pgErr.Constraint,
					Err:        models.ErrUNIQUEConstraintFailed,
				}
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UserByID(ctx context.Context, id string) (*models.User, error) {
	op := pkg + "UserByID"

	rawUser := entities.User{}

	err := sqlx.GetContext(ctx, postgres.Conn(ctx, r.db), &rawUser,
		`SELECT
			u.id AS id,
			u.email AS email,
			u.name AS name,
			u.role AS role,
			u.pass_hash AS pass_hash
		FROM users u
		WHERE u.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || postgres.IsInvalidInput(err) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(op, rawUser)
}

func (r *repository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	op := pkg + "UserByEmail"

	rawUser := entities.User{}

	err := sqlx.GetContext(ctx, postgres.Conn(ctx, r.db), &rawUser,
		`SELECT
			u.id AS id,
			u.email AS email,
			u.name AS name,
			u.role AS role,
			u.pass_hash AS pass_hash
		FROM users u
		WHERE LOWER(u.email) = LOWER($1)`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(op, rawUser)
}

func toModel(op string, raw entities.User) (*models.User, error) {
	role, err := models.ParseRole(raw.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.User{
		ID:       raw.ID,
		Email:    raw.Email,
		Name:     raw.Name,
		Role:     role,
		PassHash: raw.PassHash,
	}, nil
}
