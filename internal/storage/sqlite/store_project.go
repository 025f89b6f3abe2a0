package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darajahq/daraja/internal/domain"
	"github.com/darajahq/daraja/internal/storage"
)

// CreateProject inserts one project record.
func (s *Store) CreateProject(ctx context.Context, project domain.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(project.ID) == "" {
		return fmt.Errorf("project id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO projects (
		   id, title, program_id, created_by_id, template_id, status,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Title,
		project.ProgramID,
		project.CreatedByID,
		project.TemplateID,
		domain.ProjectStatusLabel(project.Status),
		toMillis(project.CreatedAt),
		toMillis(project.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetProject returns one project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return domain.Project{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Project{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Project{}, fmt.Errorf("project id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, title, program_id, created_by_id, template_id, status,
		        created_at, updated_at
		   FROM projects
		  WHERE id = ?`,
		id,
	)
	return scanProject(row)
}

// UpdateProject merges non-nil update fields into the matching project.
func (s *Store) UpdateProject(ctx context.Context, id string, update storage.ProjectUpdate) (domain.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}

	if update.Title != nil {
		project.Title = strings.TrimSpace(*update.Title)
	}
	if update.TemplateID != nil {
		project.TemplateID = strings.TrimSpace(*update.TemplateID)
	}
	if update.Status != nil {
		project.Status = *update.Status
	}
	project.UpdatedAt = time.Now().UTC()

	_, err = s.q.ExecContext(
		ctx,
		`UPDATE projects
		    SET title = ?, template_id = ?, status = ?, updated_at = ?
		  WHERE id = ?`,
		project.Title,
		project.TemplateID,
		domain.ProjectStatusLabel(project.Status),
		toMillis(project.UpdatedAt),
		project.ID,
	)
	if err != nil {
		return domain.Project{}, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes one project by ID.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "projects", "project", id)
}

// ListProjectsByProgram returns a program's projects in insertion order.
func (s *Store) ListProjectsByProgram(ctx context.Context, programID string) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	programID = strings.TrimSpace(programID)
	if programID == "" {
		return nil, fmt.Errorf("program id is required")
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT id, title, program_id, created_by_id, template_id, status,
		        created_at, updated_at
		   FROM projects
		  WHERE program_id = ?
		  ORDER BY rowid ASC`,
		programID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func scanProject(row rowScanner) (domain.Project, error) {
	var project domain.Project
	var status string
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.ProgramID,
		&project.CreatedByID,
		&project.TemplateID,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, storage.ErrNotFound
		}
		return domain.Project{}, fmt.Errorf("scan project: %w", err)
	}
	project.Status = domain.ProjectStatusFromLabel(status)
	project.CreatedAt = fromMillis(createdAt)
	project.UpdatedAt = fromMillis(updatedAt)
	return project, nil
}
