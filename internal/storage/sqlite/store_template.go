package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/darajahq/daraja/internal/domain"
	"github.com/darajahq/daraja/internal/storage"
)

// CreateTemplate inserts one template record.
func (s *Store) CreateTemplate(ctx context.Context, template domain.Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(template.ID) == "" {
		return fmt.Errorf("template id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO templates (id, title, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		template.ID,
		template.Title,
		toMillis(template.CreatedAt),
		toMillis(template.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

// GetTemplate returns one template by ID.
func (s *Store) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	if err := ctx.Err(); err != nil {
		return domain.Template{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Template{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Template{}, fmt.Errorf("template id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, title, created_at, updated_at FROM templates WHERE id = ?`,
		id,
	)
	return scanTemplate(row)
}

// ListTemplates returns all templates in insertion order.
func (s *Store) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT id, title, created_at, updated_at FROM templates ORDER BY rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func scanTemplate(row rowScanner) (domain.Template, error) {
	var template domain.Template
	var createdAt int64
	var updatedAt int64
	err := row.Scan(&template.ID, &template.Title, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Template{}, storage.ErrNotFound
		}
		return domain.Template{}, fmt.Errorf("scan template: %w", err)
	}
	template.CreatedAt = fromMillis(createdAt)
	template.UpdatedAt = fromMillis(updatedAt)
	return template, nil
}
