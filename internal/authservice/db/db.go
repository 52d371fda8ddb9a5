package db

import (
	"context"
	"errors"
	"fmt"

	"restaurant-site/pkg/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

var ErrUserExists = errors.New("user already exists")

type UserDB struct {
	dbPool *pgxpool.Pool
}

func NewUserDB(dbPool *pgxpool.Pool) *UserDB {
	return &UserDB{
		dbPool: dbPool,
	}
}

// FindByUsername returns models.ErrNotFound when no user has that name.
func (d *UserDB) FindByUsername(ctx context.Context, username string) (models.User, error) {
	conn, err := d.dbPool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	var user models.User
	err = conn.QueryRow(ctx, `
        SELECT id, username, password
        FROM users
        WHERE username = $1
    `, username).Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// CreateUser stores a user whose password is already hashed.
func (d *UserDB) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := d.dbPool.QueryRow(ctx, `
        INSERT INTO users (username, password)
        VALUES ($1, $2)
        RETURNING id
    `, username, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrUserExists, username)
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}
