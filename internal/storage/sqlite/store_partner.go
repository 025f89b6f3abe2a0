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

// CreatePartner inserts one partner record.
func (s *Store) CreatePartner(ctx context.Context, partner domain.Partner) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(partner.ID) == "" {
		return fmt.Errorf("partner id is required")
	}

	languages, err := encodeStrings(partner.Languages)
	if err != nil {
		return err
	}
	sdgFocus, err := encodeStrings(partner.SDGFocus)
	if err != nil {
		return err
	}

	_, err = s.q.ExecContext(
		ctx,
		`INSERT INTO partners (
		   id, organization_name, website, contact_email,
		   languages, sdg_focus, country, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		partner.ID,
		partner.OrganizationName,
		partner.Website,
		partner.ContactEmail,
		languages,
		sdgFocus,
		partner.Country,
		toMillis(partner.CreatedAt),
		toMillis(partner.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create partner: %w", err)
	}
	return nil
}

// GetPartner returns one partner by ID.
func (s *Store) GetPartner(ctx context.Context, id string) (domain.Partner, error) {
	if err := ctx.Err(); err != nil {
		return domain.Partner{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Partner{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Partner{}, fmt.Errorf("partner id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT id, organization_name, website, contact_email,
		        languages, sdg_focus, country, created_at, updated_at
		   FROM partners
		  WHERE id = ?`,
		id,
	)
	return scanPartner(row)
}

// UpdatePartner merges non-nil update fields into the matching partner.
func (s *Store) UpdatePartner(ctx context.Context, id string, update storage.PartnerUpdate) (domain.Partner, error) {
	partner, err := s.GetPartner(ctx, id)
	if err != nil {
		return domain.Partner{}, err
	}

	if update.OrganizationName != nil {
		partner.OrganizationName = strings.TrimSpace(*update.OrganizationName)
	}
	if update.Website != nil {
		partner.Website = strings.TrimSpace(*update.Website)
	}
	if update.ContactEmail != nil {
		partner.ContactEmail = strings.TrimSpace(*update.ContactEmail)
	}
	if update.Languages != nil {
		partner.Languages = *update.Languages
	}
	if update.SDGFocus != nil {
		partner.SDGFocus = *update.SDGFocus
	}
	if update.Country != nil {
		partner.Country = strings.ToUpper(strings.TrimSpace(*update.Country))
	}
	partner.UpdatedAt = time.Now().UTC()

	languages, err := encodeStrings(partner.Languages)
	if err != nil {
		return domain.Partner{}, err
	}
	sdgFocus, err := encodeStrings(partner.SDGFocus)
	if err != nil {
		return domain.Partner{}, err
	}

	_, err = s.q.ExecContext(
		ctx,
		`UPDATE partners
		    SET organization_name = ?, website = ?, contact_email = ?,
		        languages = ?, sdg_focus = ?, country = ?, updated_at = ?
		  WHERE id = ?`,
		partner.OrganizationName,
		partner.Website,
		partner.ContactEmail,
		languages,
		sdgFocus,
		partner.Country,
		toMillis(partner.UpdatedAt),
		partner.ID,
	)
	if err != nil {
		return domain.Partner{}, fmt.Errorf("update partner: %w", err)
	}
	return partner, nil
}

// DeletePartner removes one partner by ID.
func (s *Store) DeletePartner(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "partners", "partner", id)
}

// ListPartners returns all partners in insertion order.
func (s *Store) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT id, organization_name, website, contact_email,
		        languages, sdg_focus, country, created_at, updated_at
		   FROM partners
		  ORDER BY rowid ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var partners []domain.Partner
	for rows.Next() {
		partner, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

// deleteByID removes one row by primary key from the named table.
func (s *Store) deleteByID(ctx context.Context, table, label, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%s id is required", label)
	}

	result, err := s.q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", label, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", label, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartner(row rowScanner) (domain.Partner, error) {
	var partner domain.Partner
	var languages string
	var sdgFocus string
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&partner.ID,
		&partner.OrganizationName,
		&partner.Website,
		&partner.ContactEmail,
		&languages,
		&sdgFocus,
		&partner.Country,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Partner{}, storage.ErrNotFound
		}
		return domain.Partner{}, fmt.Errorf("scan partner: %w", err)
	}
	if partner.Languages, err = decodeStrings(languages); err != nil {
		return domain.Partner{}, err
	}
	if partner.SDGFocus, err = decodeStrings(sdgFocus); err != nil {
		return domain.Partner{}, err
	}
	partner.CreatedAt = fromMillis(createdAt)
	partner.UpdatedAt = fromMillis(updatedAt)
	return partner, nil
}
