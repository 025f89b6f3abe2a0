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

// CreateTeacher inserts one teacher record.
func (s *Store) CreateTeacher(ctx context.Context, teacher domain.Teacher) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(teacher.ID) == "" {
		return fmt.Errorf("teacher id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO teachers (
		   id, first_name, last_name, subject, institution_id, program_id,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		teacher.ID,
		teacher.FirstName,
		teacher.LastName,
		teacher.Subject,
		teacher.InstitutionID,
		teacher.ProgramID,
		toMillis(teacher.CreatedAt),
		toMillis(teacher.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// GetTeacher returns one teacher by ID.
func (s *Store) GetTeacher(ctx context.Context, id string) (domain.Teacher, error) {
	if err := ctx.Err(); err != nil {
		return domain.Teacher{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Teacher{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Teacher{}, fmt.Errorf("teacher id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, first_name, last_name, subject, institution_id, program_id,
		        created_at, updated_at
		   FROM teachers
		  WHERE id = ?`,
		id,
	)
	return scanTeacher(row)
}

// UpdateTeacher merges non-nil update fields into the matching teacher.
func (s *Store) UpdateTeacher(ctx context.Context, id string, update storage.TeacherUpdate) (domain.Teacher, error) {
	teacher, err := s.GetTeacher(ctx, id)
	if err != nil {
		return domain.Teacher{}, err
	}

	if update.FirstName != nil {
		teacher.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		teacher.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.Subject != nil {
		teacher.Subject = strings.TrimSpace(*update.Subject)
	}
	if update.InstitutionID != nil {
		teacher.InstitutionID = strings.TrimSpace(*update.InstitutionID)
	}
	teacher.UpdatedAt = time.Now().UTC()

	_, err = s.q.ExecContext(
		ctx,
		`UPDATE teachers
		    SET first_name = ?, last_name = ?, subject = ?, institution_id = ?,
		        updated_at = ?
		  WHERE id = ?`,
		teacher.FirstName,
		teacher.LastName,
		teacher.Subject,
		teacher.InstitutionID,
		toMillis(teacher.UpdatedAt),
		teacher.ID,
	)
	if err != nil {
		return domain.Teacher{}, fmt.Errorf("update teacher: %w", err)
	}
	return teacher, nil
}

// DeleteTeacher removes one teacher by ID.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "teachers", "teacher", id)
}

// ListTeachersByProgram returns a program's teachers in insertion order.
func (s *Store) ListTeachersByProgram(ctx context.Context, programID string) ([]domain.Teacher, error) {
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
		`SELECT id, first_name, last_name, subject, institution_id, program_id,
		        created_at, updated_at
		   FROM teachers
		  WHERE program_id = ?
		  ORDER BY rowid ASC`,
		programID,
	)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []domain.Teacher
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

func scanTeacher(row rowScanner) (domain.Teacher, error) {
	var teacher domain.Teacher
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&teacher.ID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.Subject,
		&teacher.InstitutionID,
		&teacher.ProgramID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Teacher{}, storage.ErrNotFound
		}
		return domain.Teacher{}, fmt.Errorf("scan teacher: %w", err)
	}
	teacher.CreatedAt = fromMillis(createdAt)
	teacher.UpdatedAt = fromMillis(updatedAt)
	return teacher, nil
}
