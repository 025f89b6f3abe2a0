package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darajahq/daraja/internal/domain"
	"github.com/darajahq/daraja/internal/storage"
)

const invitationColumns = `id, program_id, invitation_type, recipient_email, token,
	        status, sent_at, expires_at, viewed_at, responded_at,
	        partner_id, partner_role, proposed_permissions,
	        coordinator_id, coordinator_country, created_at, updated_at`

// CreateInvitation inserts one invitation record. Tokens are unique.
func (s *Store) CreateInvitation(ctx context.Context, invitation domain.Invitation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(invitation.ID) == "" {
		return fmt.Errorf("invitation id is required")
	}

	var partnerID, partnerRole, proposedPermissions sql.NullString
	var coordinatorID, coordinatorCountry sql.NullString
	switch invitation.Type {
	case domain.InvitationTypeCoPartner:
		if invitation.CoPartner == nil {
			return fmt.Errorf("co-partner invitation metadata is required")
		}
		partnerID = sql.NullString{String: invitation.CoPartner.PartnerID, Valid: true}
		partnerRole = sql.NullString{String: domain.PartnerRoleLabel(invitation.CoPartner.Role), Valid: true}
		encoded, err := encodePermissions(invitation.CoPartner.ProposedPermissions)
		if err != nil {
			return err
		}
		proposedPermissions = sql.NullString{String: encoded, Valid: true}
	case domain.InvitationTypeCoordinator:
		if invitation.Coordinator == nil {
			return fmt.Errorf("coordinator invitation metadata is required")
		}
		coordinatorID = sql.NullString{String: invitation.Coordinator.CoordinatorID, Valid: true}
		coordinatorCountry = sql.NullString{String: invitation.Coordinator.Country, Valid: true}
	default:
		return fmt.Errorf("invitation type is required")
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO invitations (
		   id, program_id, invitation_type, recipient_email, token,
		   status, sent_at, expires_at, viewed_at, responded_at,
		   partner_id, partner_role, proposed_permissions,
		   coordinator_id, coordinator_country, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invitation.ID,
		invitation.ProgramID,
		domain.InvitationTypeLabel(invitation.Type),
		invitation.RecipientEmail,
		invitation.Token,
		domain.InvitationStatusLabel(invitation.Status),
		toMillis(invitation.SentAt),
		dateToNullMillis(invitation.ExpiresAt),
		toNullMillis(invitation.ViewedAt),
		toNullMillis(invitation.RespondedAt),
		partnerID,
		partnerRole,
		proposedPermissions,
		coordinatorID,
		coordinatorCountry,
		toMillis(invitation.CreatedAt),
		toMillis(invitation.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

// GetInvitation returns one invitation by ID.
func (s *Store) GetInvitation(ctx context.Context, id string) (domain.Invitation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Invitation{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Invitation{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Invitation{}, fmt.Errorf("invitation id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT `+invitationColumns+`
		   FROM invitations
		  WHERE id = ?`,
		id,
	)
	return scanInvitation(row)
}

// GetInvitationByToken returns one invitation by its unique token.
func (s *Store) GetInvitationByToken(ctx context.Context, token string) (domain.Invitation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Invitation{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Invitation{}, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Invitation{}, fmt.Errorf("invitation token is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		`SELECT `+invitationColumns+`
		   FROM invitations
		  WHERE token = ?`,
		token,
	)
	return scanInvitation(row)
}

// UpdateInvitation merges non-nil update fields into the matching invitation.
func (s *Store) UpdateInvitation(ctx context.Context, id string, update storage.InvitationUpdate) (domain.Invitation, error) {
	invitation, err := s.GetInvitation(ctx, id)
	if err != nil {
		return domain.Invitation{}, err
	}

	if update.Status != nil {
		invitation.Status = *update.Status
	}
	if update.ViewedAt != nil {
		viewedAt := update.ViewedAt.UTC()
		invitation.ViewedAt = &viewedAt
	}
	if update.RespondedAt != nil {
		respondedAt := update.RespondedAt.UTC()
		invitation.RespondedAt = &respondedAt
	}
	invitation.UpdatedAt = time.Now().UTC()

	_, err = s.q.ExecContext(
		ctx,
		`UPDATE invitations
		    SET status = ?, viewed_at = ?, responded_at = ?, updated_at = ?
		  WHERE id = ?`,
		domain.InvitationStatusLabel(invitation.Status),
		toNullMillis(invitation.ViewedAt),
		toNullMillis(invitation.RespondedAt),
		toMillis(invitation.UpdatedAt),
		invitation.ID,
	)
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("update invitation: %w", err)
	}
	return invitation, nil
}

// DeleteInvitation removes one invitation by ID.
func (s *Store) DeleteInvitation(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "invitations", "invitation", id)
}

// ListInvitationsByProgram returns a program's invitations in insertion order.
func (s *Store) ListInvitationsByProgram(ctx context.Context, programID string) ([]domain.Invitation, error) {
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
		`SELECT `+invitationColumns+`
		   FROM invitations
		  WHERE program_id = ?
		  ORDER BY rowid ASC`,
		programID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		invitation, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var invitation domain.Invitation
	var invitationType string
	var status string
	var sentAt int64
	var expiresAt sql.NullInt64
	var viewedAt sql.NullInt64
	var respondedAt sql.NullInt64
	var partnerID, partnerRole, proposedPermissions sql.NullString
	var coordinatorID, coordinatorCountry sql.NullString
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&invitation.ID,
		&invitation.ProgramID,
		&invitationType,
		&invitation.RecipientEmail,
		&invitation.Token,
		&status,
		&sentAt,
		&expiresAt,
		&viewedAt,
		&respondedAt,
		&partnerID,
		&partnerRole,
		&proposedPermissions,
		&coordinatorID,
		&coordinatorCountry,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invitation{}, storage.ErrNotFound
		}
		return domain.Invitation{}, fmt.Errorf("scan invitation: %w", err)
	}
	invitation.Type = domain.InvitationTypeFromLabel(invitationType)
	invitation.Status = domain.InvitationStatusFromLabel(status)
	invitation.SentAt = fromMillis(sentAt)
	invitation.ExpiresAt = dateFromNullMillis(expiresAt)
	invitation.ViewedAt = fromNullMillis(viewedAt)
	invitation.RespondedAt = fromNullMillis(respondedAt)
	invitation.CreatedAt = fromMillis(createdAt)
	invitation.UpdatedAt = fromMillis(updatedAt)

	switch invitation.Type {
	case domain.InvitationTypeCoPartner:
		metadata := domain.CoPartnerMetadata{
			PartnerID: partnerID.String,
			Role:      domain.PartnerRoleFromLabel(partnerRole.String),
		}
		if proposedPermissions.Valid {
			permissions, err := decodePermissions(proposedPermissions.String)
			if err != nil {
				return domain.Invitation{}, err
			}
			metadata.ProposedPermissions = permissions
		}
		invitation.CoPartner = &metadata
	case domain.InvitationTypeCoordinator:
		invitation.Coordinator = &domain.CoordinatorMetadata{
			CoordinatorID: coordinatorID.String,
			Country:       coordinatorCountry.String,
		}
	}
	return invitation, nil
}

func encodePermissions(permissions domain.Permissions) (string, error) {
	payload, err := json.Marshal(permissions)
	if err != nil {
		return "", fmt.Errorf("encode permissions: %w", err)
	}
	return string(payload), nil
}

func decodePermissions(payload string) (domain.Permissions, error) {
	var permissions domain.Permissions
	if strings.TrimSpace(payload) == "" {
		return permissions, nil
	}
	if err := json.Unmarshal([]byte(payload), &permissions); err != nil {
		return domain.Permissions{}, fmt.Errorf("decode permissions: %w", err)
	}
	return permissions, nil
}
