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

// CreateProgram inserts one program record.
func (s *Store) CreateProgram(ctx context.Context, program domain.Program) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(program.ID) == "" {
		return fmt.Errorf("program id is required")
	}

	countries, err := encodeStrings(program.CountriesInScope)
	if err != nil {
		return err
	}
	sdgFocus, err := encodeStrings(program.SDGFocus)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(
		ctx,
		`INSERT INTO programs (
		   id, name, description, status, countries_in_scope, sdg_focus,
		   start_date, end_date, partner_id, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		program.ID,
		program.Name,
		program.Description,
		domain.ProgramStatusLabel(program.Status),
		countries,
		sdgFocus,
		dateToNullMillis(program.StartDate),
		dateToNullMillis(program.EndDate),
		program.PartnerID,
		toMillis(program.CreatedAt),
		toMillis(program.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// GetProgram returns one program by ID.
func (s *Store) GetProgram(ctx context.Context, id string) (domain.Program, error) {
	if err := ctx.Err(); err != nil {
		return domain.Program{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Program{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Program{}, fmt.Errorf("program id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, name, description, status, countries_in_scope, sdg_focus,
		        start_date, end_date, partner_id, created_at, updated_at
		   FROM programs
		  WHERE id = ?`,
		id,
	)
	return scanProgram(row)
}

// UpdateProgram merges non-nil update fields into the matching program.
func (s *Store) UpdateProgram(ctx context.Context, id string, update storage.ProgramUpdate) (domain.Program, error) {
	program, err := s.GetProgram(ctx, id)
	if err != nil {
		return domain.Program{}, err
	}

	if update.Name != nil {
		program.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		program.Description = strings.TrimSpace(*update.Description)
	}
	if update.Status != nil {
		program.Status = *update.Status
	}
	if update.CountriesInScope != nil {
		program.CountriesInScope = *update.CountriesInScope
	}
	if update.SDGFocus != nil {
		program.SDGFocus = *update.SDGFocus
	}
	if update.StartDate != nil {
		program.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		program.EndDate = *update.EndDate
	}
	program.UpdatedAt = time.Now().UTC()

	countries, err := encodeStrings(program.CountriesInScope)
	if err != nil {
		return domain.Program{}, err
	}
	sdgFocus, err := encodeStrings(program.SDGFocus)
	if err != nil {
		return domain.Program{}, err
	}

	_, err = s.q.ExecContext(
		ctx,
		`UPDATE programs
		    SET name = ?, description = ?, status = ?, countries_in_scope = ?,
		        sdg_focus = ?, start_date = ?, end_date = ?, updated_at = ?
		  WHERE id = ?`,
		program.Name,
		program.Description,
		domain.ProgramStatusLabel(program.Status),
		countries,
		sdgFocus,
		dateToNullMillis(program.StartDate),
		dateToNullMillis(program.EndDate),
		toMillis(program.UpdatedAt),
		program.ID,
	)
	if err != nil {
		return domain.Program{}, fmt.Errorf("update program: %w", err)
	}
	return program, nil
}

// DeleteProgram removes one program by ID.
func (s *Store) DeleteProgram(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "programs", "program", id)
}

// ListPrograms returns all programs in insertion order.
func (s *Store) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	return s.listPrograms(ctx, "")
}

// ListProgramsByHost returns programs hosted by the given partner, in insertion order.
func (s *Store) ListProgramsByHost(ctx context.Context, partnerID string) ([]domain.Program, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, fmt.Errorf("partner id is required")
	}
	return s.listPrograms(ctx, "WHERE partner_id = ?", partnerID)
}

func (s *Store) listPrograms(ctx context.Context, where string, args ...any) ([]domain.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `SELECT id, name, description, status, countries_in_scope, sdg_focus,
	                 start_date, end_date, partner_id, created_at, updated_at
	            FROM programs `
	if where != "" {
		query += where + " "
	}
	query += "ORDER BY rowid ASC"

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []domain.Program
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

func scanProgram(row rowScanner) (domain.Program, error) {
	var program domain.Program
	var status string
	var countries string
	var sdgFocus string
	var startDate sql.NullInt64
	var endDate sql.NullInt64
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&program.ID,
		&program.Name,
		&program.Description,
		&status,
		&countries,
		&sdgFocus,
		&startDate,
		&endDate,
		&program.PartnerID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Program{}, storage.ErrNotFound
		}
		return domain.Program{}, fmt.Errorf("scan program: %w", err)
	}
	program.Status = domain.ProgramStatusFromLabel(status)
	if program.CountriesInScope, err = decodeStrings(countries); err != nil {
		return domain.Program{}, err
	}
	if program.SDGFocus, err = decodeStrings(sdgFocus); err != nil {
		return domain.Program{}, err
	}
	program.StartDate = dateFromNullMillis(startDate)
	program.EndDate = dateFromNullMillis(endDate)
	program.CreatedAt = fromMillis(createdAt)
	program.UpdatedAt = fromMillis(updatedAt)
	return program, nil
}
