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

// CreateCoordinator inserts one coordinator record.
func (s *Store) CreateCoordinator(ctx context.Context, coordinator domain.Coordinator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(coordinator.ID) == "" {
		return fmt.Errorf("coordinator id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO coordinators (
		   id, first_name, last_name, email, country, region, status,
		   program_id, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		coordinator.ID,
		coordinator.FirstName,
		coordinator.LastName,
		coordinator.Email,
		coordinator.Country,
		coordinator.Region,
		domain.CoordinatorStatusLabel(coordinator.Status),
		coordinator.ProgramID,
		toMillis(coordinator.CreatedAt),
		toMillis(coordinator.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create coordinator: %w", err)
	}
	return nil
}

// GetCoordinator returns one coordinator by ID.
func (s *Store) GetCoordinator(ctx context.Context, id string) (domain.Coordinator, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinator{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Coordinator{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Coordinator{}, fmt.Errorf("coordinator id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, first_name, last_name, email, country, region, status,
		        program_id, created_at, updated_at
		   FROM coordinators
		  WHERE id = ?`,
		id,
	)
	return scanCoordinator(row)
}

// UpdateCoordinator merges non-nil update fields into the matching coordinator.
func (s *Store) UpdateCoordinator(ctx context.Context, id string, update storage.CoordinatorUpdate) (domain.Coordinator, error) {
	coordinator, err := s.GetCoordinator(ctx, id)
	if err != nil {
		return domain.Coordinator{}, err
	}

	if update.FirstName != nil {
		coordinator.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		coordinator.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.Email != nil {
		coordinator.Email = strings.TrimSpace(*update.Email)
	}
	if update.Country != nil {
		coordinator.Country = strings.ToUpper(strings.TrimSpace(*update.Country))
	}
	if update.Region != nil {
		coordinator.Region = strings.TrimSpace(*update.Region)
	}
	if update.Status != nil {
		coordinator.Status = *update.Status
	}
	coordinator.UpdatedAt = time.Now().UTC()

	_, err = s.q.ExecContext(
		ctx,
		`UPDATE coordinators
		    SET first_name = ?, last_name = ?, email = ?, country = ?,
		        region = ?, status = ?, updated_at = ?
		  WHERE id = ?`,
		coordinator.FirstName,
		coordinator.LastName,
		coordinator.Email,
		coordinator.Country,
		coordinator.Region,
		domain.CoordinatorStatusLabel(coordinator.Status),
		toMillis(coordinator.UpdatedAt),
		coordinator.ID,
	)
	if err != nil {
		return domain.Coordinator{}, fmt.Errorf("update coordinator: %w", err)
	}
	return coordinator, nil
}

// DeleteCoordinator removes one coordinator by ID.
func (s *Store) DeleteCoordinator(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "coordinators", "coordinator", id)
}

// ListCoordinatorsByProgram returns a program's coordinators in insertion order.
func (s *Store) ListCoordinatorsByProgram(ctx context.Context, programID string) ([]domain.Coordinator, error) {
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
		`SELECT id, first_name, last_name, email, country, region, status,
		        program_id, created_at, updated_at
		   FROM coordinators
		  WHERE program_id = ?
		  ORDER BY rowid ASC`,
		programID,
	)
	if err != nil {
		return nil, fmt.Errorf("list coordinators: %w", err)
	}
	defer rows.Close()

	var coordinators []domain.Coordinator
	for rows.Next() {
		coordinator, err := scanCoordinator(rows)
		if err != nil {
			return nil, err
		}
		coordinators = append(coordinators, coordinator)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list coordinators: %w", err)
	}
	return coordinators, nil
}

func scanCoordinator(row rowScanner) (domain.Coordinator, error) {
	var coordinator domain.Coordinator
	var status string
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&coordinator.ID,
		&coordinator.FirstName,
		&coordinator.LastName,
		&coordinator.Email,
		&coordinator.Country,
		&coordinator.Region,
		&status,
		&coordinator.ProgramID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Coordinator{}, storage.ErrNotFound
		}
		return domain.Coordinator{}, fmt.Errorf("scan coordinator: %w", err)
	}
	coordinator.Status = domain.CoordinatorStatusFromLabel(status)
	coordinator.CreatedAt = fromMillis(createdAt)
	coordinator.UpdatedAt = fromMillis(updatedAt)
	return coordinator, nil
}
