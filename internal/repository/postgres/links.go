package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"urlshortener/internal/domain/models"
)

const linkColumns = "id, short_code, original_url, user_id, clicks, is_active, created_at, updated_at"

func (p *PostgresStorage) LinkCreate(ctx context.Context, link models.ShortenedLink) (models.ShortenedLink, error) {
	if link.ShortCode == "" || link.OriginalURL == "" {
		return models.ShortenedLink{}, models.ErrInvalidData
	}

	row := p.querier(ctx).QueryRowContext(ctx, `
		INSERT INTO links (short_code, original_url, user_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+linkColumns,
		link.ShortCode, link.OriginalURL, link.UserID, link.IsActive, link.CreatedAt, link.UpdatedAt,
	)

	created, err := scanLink(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ShortenedLink{}, fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return models.ShortenedLink{}, fmt.Errorf("failed to create link: %w", err)
	}
	return created, nil
}

func (p *PostgresStorage) LinkGetByID(ctx context.Context, id int64) (models.ShortenedLink, error) {
	row := p.querier(ctx).QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE id = $1", id)
	return lookupLink(row)
}

func (p *PostgresStorage) LinkGetByCode(ctx context.Context, code string) (models.ShortenedLink, error) {
	if code == "" {
		return models.ShortenedLink{}, fmt.Errorf("%w: code must not be empty", models.ErrInvalidData)
	}

	row := p.querier(ctx).QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE short_code = $1", code)
	return lookupLink(row)
}

func (p *PostgresStorage) LinkListByUser(ctx context.Context, userID int64) ([]models.ShortenedLink, error) {
	rows, err := p.querier(ctx).QueryContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := make([]models.ShortenedLink, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return links, nil
}

func (p *PostgresStorage) LinkUpdate(ctx context.Context, link models.ShortenedLink) (models.ShortenedLink, error) {
	row := p.querier(ctx).QueryRowContext(ctx, `
		UPDATE links SET original_url = $2, is_active = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+linkColumns,
		link.ID, link.OriginalURL, link.IsActive, link.UpdatedAt,
	)
	return lookupLink(row)
}

func (p *PostgresStorage) LinkDelete(ctx context.Context, id int64) error {
	result, err := p.querier(ctx).ExecContext(ctx, "DELETE FROM links WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: link not found", models.ErrUnfound)
	}
	return nil
}

func (p *PostgresStorage) LinkIncrementClicks(ctx context.Context, id int64) (models.ShortenedLink, error) {
	row := p.querier(ctx).QueryRowContext(ctx, `
		UPDATE links SET clicks = clicks + 1
		WHERE id = $1
		RETURNING `+linkColumns,
		id,
	)
	return lookupLink(row)
}

func lookupLink(row *sql.Row) (models.ShortenedLink, error) {
	link, err := scanLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ShortenedLink{}, fmt.Errorf("%w: link not found", models.ErrUnfound)
		}
		return models.ShortenedLink{}, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

func scanLink(row rowScanner) (models.ShortenedLink, error) {
	var l models.ShortenedLink
	err := row.Scan(&l.ID, &l.ShortCode, &l.OriginalURL, &l.UserID, &l.Clicks, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}
