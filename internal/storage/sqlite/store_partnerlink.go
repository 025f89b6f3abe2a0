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

const partnerLinkColumns = `id, program_id, partner_id, role,
	        can_edit_program, can_invite_partners, can_manage_institutions,
	        can_view_reports, can_export_data,
	        status, invited_at, accepted_at, created_at, updated_at`

// CreatePartnerLink inserts one partner link record. The unique
// (program_id, partner_id) index enforces one link per pair.
func (s *Store) CreatePartnerLink(ctx context.Context, link domain.PartnerLink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(link.ID) == "" {
		return fmt.Errorf("partner link id is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO partner_links (
		   id, program_id, partner_id, role,
		   can_edit_program, can_invite_partners, can_manage_institutions,
		   can_view_reports, can_export_data,
		   status, invited_at, accepted_at, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		link.ID,
		link.ProgramID,
		link.PartnerID,
		domain.PartnerRoleLabel(link.Role),
		link.Permissions.CanEditProgram,
		link.Permissions.CanInvitePartners,
		link.Permissions.CanManageInstitutions,
		link.Permissions.CanViewReports,
		link.Permissions.CanExportData,
		domain.LinkStatusLabel(link.Status),
		toMillis(link.InvitedAt),
		toNullMillis(link.AcceptedAt),
		toMillis(link.CreatedAt),
		toMillis(link.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create partner link: %w", err)
	}
	return nil
}

// GetPartnerLink returns one partner link by ID.
func (s *Store) GetPartnerLink(ctx context.Context, id string) (domain.PartnerLink, error) {
	if err := ctx.Err(); err != nil {
		return domain.PartnerLink{}, err
	}
	if err := s.ready(); err != nil {
		return domain.PartnerLink{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.PartnerLink{}, fmt.Errorf("partner link id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT `+partnerLinkColumns+`
		   FROM partner_links
		  WHERE id = ?`,
		id,
	)
	return scanPartnerLink(row)
}

// GetPartnerLinkByProgramAndPartner returns the unique link for a
// (program, partner) pair.
func (s *Store) GetPartnerLinkByProgramAndPartner(ctx context.Context, programID, partnerID string) (domain.PartnerLink, error) {
	if err := ctx.Err(); err != nil {
		return domain.PartnerLink{}, err
	}
	if err := s.ready(); err != nil {
		return domain.PartnerLink{}, err
	}
	programID = strings.TrimSpace(programID)
	partnerID = strings.TrimSpace(partnerID)
	if programID == "" || partnerID == "" {
		return domain.PartnerLink{}, fmt.Errorf("program id and partner id are required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT `+partnerLinkColumns+`
		   FROM partner_links
		  WHERE program_id = ? AND partner_id = ?`,
		programID,
		partnerID,
	)
	return scanPartnerLink(row)
}

// UpdatePartnerLink merges non-nil update fields into the matching link.
func (s *Store) UpdatePartnerLink(ctx context.Context, id string, update storage.PartnerLinkUpdate) (domain.PartnerLink, error) {
	link, err := s.GetPartnerLink(ctx, id)
	if err != nil {
		return domain.PartnerLink{}, err
	}

	if update.Role != nil {
		link.Role = *update.Role
	}
	if update.Permissions != nil {
		link.Permissions = *update.Permissions
	}
	if update.Status != nil {
		link.Status = *update.Status
	}
	if update.AcceptedAt != nil {
		acceptedAt := update.AcceptedAt.UTC()
		link.AcceptedAt = &acceptedAt
	}
	link.UpdatedAt = time.Now().UTC()

	_, err = s.q.ExecContext(
		ctx,
		`UPDATE partner_links
		    SET role = ?, can_edit_program = ?, can_invite_partners = ?,
		        can_manage_institutions = ?, can_view_reports = ?,
		        can_export_data = ?, status = ?, accepted_at = ?, updated_at = ?
		  WHERE id = ?`,
		domain.PartnerRoleLabel(link.Role),
		link.Permissions.CanEditProgram,
		link.Permissions.CanInvitePartners,
		link.Permissions.CanManageInstitutions,
		link.Permissions.CanViewReports,
		link.Permissions.CanExportData,
		domain.LinkStatusLabel(link.Status),
		toNullMillis(link.AcceptedAt),
		toMillis(link.UpdatedAt),
		link.ID,
	)
	if err != nil {
		return domain.PartnerLink{}, fmt.Errorf("update partner link: %w", err)
	}
	return link, nil
}

// DeletePartnerLink removes one partner link by ID.
func (s *Store) DeletePartnerLink(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "partner_links", "partner link", id)
}

// ListPartnerLinksByProgram returns a program's links in insertion order.
func (s *Store) ListPartnerLinksByProgram(ctx context.Context, programID string) ([]domain.PartnerLink, error) {
	programID = strings.TrimSpace(programID)
	if programID == "" {
		return nil, fmt.Errorf("program id is required")
	}
	return s.listPartnerLinks(ctx, "program_id", programID)
}

// ListPartnerLinksByPartner returns a partner's links in insertion order.
func (s *Store) ListPartnerLinksByPartner(ctx context.Context, partnerID string) ([]domain.PartnerLink, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, fmt.Errorf("partner id is required")
	}
	return s.listPartnerLinks(ctx, "partner_id", partnerID)
}

func (s *Store) listPartnerLinks(ctx context.Context, column, value string) ([]domain.PartnerLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(
		ctx,
		`SELECT `+partnerLinkColumns+`
		   FROM partner_links
		  WHERE `+column+` = ?
		  ORDER BY rowid ASC`,
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("list partner links: %w", err)
	}
	defer rows.Close()

	var links []domain.PartnerLink
	for rows.Next() {
		link, err := scanPartnerLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list partner links: %w", err)
	}
	return links, nil
}

func scanPartnerLink(row rowScanner) (domain.PartnerLink, error) {
	var link domain.PartnerLink
	var role string
	var status string
	var invitedAt int64
	var acceptedAt sql.NullInt64
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&link.ID,
		&link.ProgramID,
		&link.PartnerID,
		&role,
		&link.Permissions.CanEditProgram,
		&link.Permissions.CanInvitePartners,
		&link.Permissions.CanManageInstitutions,
		&link.Permissions.CanViewReports,
		&link.Permissions.CanExportData,
		&status,
		&invitedAt,
		&acceptedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PartnerLink{}, storage.ErrNotFound
		}
		return domain.PartnerLink{}, fmt.Errorf("scan partner link: %w", err)
	}
	link.Role = domain.PartnerRoleFromLabel(role)
	link.Status = domain.LinkStatusFromLabel(status)
	link.InvitedAt = fromMillis(invitedAt)
	link.AcceptedAt = fromNullMillis(acceptedAt)
	link.CreatedAt = fromMillis(createdAt)
	link.UpdatedAt = fromMillis(updatedAt)
	return link, nil
}
