package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"urlshortener/internal/domain/models"
)

const userColumns = "id, username, email, password_hash, created_at, updated_at"

func (p *PostgresStorage) UserCreate(ctx context.Context, user models.User) (models.User, error) {
	if user.Username == "" {
		return models.User{}, models.ErrInvalidData
	}

	row := p.querier(ctx).QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (p *PostgresStorage) UserGetByID(ctx context.Context, id int64) (models.User, error) {
	return p.getUser(ctx, "id = $1", id)
}

func (p *PostgresStorage) UserGetByUsername(ctx context.Context, username string) (models.User, error) {
	return p.getUser(ctx, "username = $1", username)
}

func (p *PostgresStorage) UserGetByEmail(ctx context.Context, email string) (models.User, error) {
	return p.getUser(ctx, "lower(email) = lower($1)", email)
}

func (p *PostgresStorage) getUser(ctx context.Context, where string, arg interface{}) (models.User, error) {
	row := p.querier(ctx).QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where, arg)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: user not found", models.ErrUnfound)
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
