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

// CreateInstitution inserts one institution record.
func (s *Store) CreateInstitution(ctx context.Context, institution domain.Institution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(institution.ID) == "" {
		return fmt.Errorf("institution id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO institutions (
		   id, name, country, city, region, student_count, teacher_count,
		   status, program_id, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		institution.ID,
		institution.Name,
		institution.Country,
		institution.City,
		institution.Region,
		institution.StudentCount,
		institution.TeacherCount,
		domain.InstitutionStatusLabel(institution.Status),
		institution.ProgramID,
		toMillis(institution.CreatedAt),
		toMillis(institution.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create institution: %w", err)
	}
	return nil
}

// GetInstitution returns one institution by ID.
func (s *Store) GetInstitution(ctx context.Context, id string) (domain.Institution, error) {
	if err := ctx.Err(); err != nil {
		return domain.Institution{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Institution{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Institution{}, fmt.Errorf("institution id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, name, country, city, region, student_count, teacher_count,
		        status, program_id, created_at, updated_at
		   FROM institutions
		  WHERE id = ?`,
		id,
	)
	return scanInstitution(row)
}

// UpdateInstitution merges non-nil update fields into the matching institution.
func (s *Store) UpdateInstitution(ctx context.Context, id string, update storage.InstitutionUpdate) (domain.Institution, error) {
	institution, err := s.GetInstitution(ctx, id)
	if err != nil {
		return domain.Institution{}, err
	}

	if update.Name != nil {
		institution.Name = strings.TrimSpace(*update.Name)
	}
	if update.Country != nil {
		institution.Country = strings.ToUpper(strings.TrimSpace(*update.Country))
	}
	if update.City != nil {
		institution.City = strings.TrimSpace(*update.City)
	}
	if update.Region != nil {
		institution.Region = strings.TrimSpace(*update.Region)
	}
	if update.StudentCount != nil {
		institution.StudentCount = *update.StudentCount
	}
	if update.TeacherCount != nil {
		institution.TeacherCount = *update.TeacherCount
	}
	if update.Status != nil {
		institution.Status = *update.Status
	}
	institution.UpdatedAt = time.Now().UTC()

	_, err = s.q.ExecContext(
		ctx,
		`UPDATE institutions
		    SET name = ?, country = ?, city = ?, region = ?, student_count = ?,
		        teacher_count = ?, status = ?, updated_at = ?
		  WHERE id = ?`,
		institution.Name,
		institution.Country,
		institution.City,
		institution.Region,
		institution.StudentCount,
		institution.TeacherCount,
		domain.InstitutionStatusLabel(institution.Status),
		toMillis(institution.UpdatedAt),
		institution.ID,
	)
	if err != nil {
		return domain.Institution{}, fmt.Errorf("update institution: %w", err)
	}
	return institution, nil
}

// DeleteInstitution removes one institution by ID.
func (s *Store) DeleteInstitution(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "institutions", "institution", id)
}

// ListInstitutionsByProgram returns a program's institutions in insertion order.
func (s *Store) ListInstitutionsByProgram(ctx context.Context, programID string) ([]domain.Institution, error) {
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
		`SELECT id, name, country, city, region, student_count, teacher_count,
		        status, program_id, created_at, updated_at
		   FROM institutions
		  WHERE program_id = ?
		  ORDER BY rowid ASC`,
		programID,
	)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer rows.Close()

	var institutions []domain.Institution
	for rows.Next() {
		institution, err := scanInstitution(rows)
		if err != nil {
			return nil, err
		}
		institutions = append(institutions, institution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	return institutions, nil
}

func scanInstitution(row rowScanner) (domain.Institution, error) {
	var institution domain.Institution
	var status string
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&institution.ID,
		&institution.Name,
		&institution.Country,
		&institution.City,
		&institution.Region,
		&institution.StudentCount,
		&institution.TeacherCount,
		&status,
		&institution.ProgramID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Institution{}, storage.ErrNotFound
		}
		return domain.Institution{}, fmt.Errorf("scan institution: %w", err)
	}
	institution.Status = domain.InstitutionStatusFromLabel(status)
	institution.CreatedAt = fromMillis(createdAt)
	institution.UpdatedAt = fromMillis(updatedAt)
	return institution, nil
}
