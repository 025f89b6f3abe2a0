// Package invite implements the invitation lifecycle: minting co-partner and
// coordinator invitations, responding to them, and keeping partner links and
// coordinator rows consistent with those responses.
package invite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/darajahq/daraja/internal/domain"
	"github.com/darajahq/daraja/internal/storage"
)

// Storage is the persistence surface the invitation service needs: the
// entity contracts plus transactional execution for related mutations.
type Storage interface {
	storage.Store
	storage.TxRunner
}

// Service drives the invitation state machine.
type Service struct {
	store  Storage
	signer *Signer
	now    func() time.Time
	newID  func() (string, error)
}

// NewService returns an invitation service. The now and idGenerator hooks
// default to the wall clock and random ids when nil.
func NewService(store Storage, signer *Signer, now func() time.Time, idGenerator func() (string, error)) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("token signer is required")
	}
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = domain.NewID
	}
	return &Service{store: store, signer: signer, now: now, newID: idGenerator}, nil
}

// InviteCoPartnerInput describes a co-partner invitation request.
type InviteCoPartnerInput struct {
	ProgramID      string
	PartnerID      string
	RecipientEmail string
	Role           domain.PartnerRole
}

// InviteCoPartnerResult carries the rows written by a co-partner invitation.
type InviteCoPartnerResult struct {
	Invitation domain.Invitation
	Link       domain.PartnerLink
}

// InviteCoPartner creates a pending co-partner invitation with role-derived
// default permissions and a signed token, and in the same transaction moves
// the (program, partner) link to invited, creating it if none exists.
func (s *Service) InviteCoPartner(ctx context.Context, input InviteCoPartnerInput) (InviteCoPartnerResult, error) {
	input.ProgramID = strings.TrimSpace(input.ProgramID)
	input.PartnerID = strings.TrimSpace(input.PartnerID)
	if input.ProgramID == "" {
		return InviteCoPartnerResult{}, domain.ErrInvitationEmptyProgramID
	}
	if input.PartnerID == "" {
		return InviteCoPartnerResult{}, domain.ErrLinkEmptyPartnerID
	}
	if input.Role == domain.PartnerRoleUnspecified {
		return InviteCoPartnerResult{}, domain.ErrLinkInvalidRole
	}

	permissions := domain.DefaultPermissionsForRole(input.Role)
	expiresAt := s.now().UTC().Add(domain.DefaultInvitationTTL)
	token, err := s.signer.Sign(input.ProgramID, domain.InvitationTypeCoPartner, expiresAt)
	if err != nil {
		return InviteCoPartnerResult{}, err
	}

	invitation, err := domain.CreateInvitation(domain.CreateInvitationInput{
		ProgramID:      input.ProgramID,
		Type:           domain.InvitationTypeCoPartner,
		RecipientEmail: input.RecipientEmail,
		Token:          token,
		ExpiresAt:      expiresAt,
		CoPartner: &domain.CoPartnerMetadata{
			PartnerID:           input.PartnerID,
			Role:                input.Role,
			ProposedPermissions: permissions,
		},
	}, s.now, s.newID)
	if err != nil {
		return InviteCoPartnerResult{}, err
	}

	var result InviteCoPartnerResult
	err = s.store.InTx(ctx, func(tx storage.Store) error {
		if err := tx.CreateInvitation(ctx, invitation); err != nil {
			return fmt.Errorf("persist invitation: %w", err)
		}
		result.Invitation = invitation

		existing, err := tx.GetPartnerLinkByProgramAndPartner(ctx, input.ProgramID, input.PartnerID)
		if err == nil {
			invited := domain.LinkStatusInvited
			updated, err := tx.UpdatePartnerLink(ctx, existing.ID, storage.PartnerLinkUpdate{
				Role:        &input.Role,
				Permissions: &permissions,
				Status:      &invited,
			})
			if err != nil {
				return fmt.Errorf("update partner link: %w", err)
			}
			result.Link = updated
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load partner link: %w", err)
		}

		link, err := domain.CreatePartnerLink(domain.CreatePartnerLinkInput{
			ProgramID:   input.ProgramID,
			PartnerID:   input.PartnerID,
			Role:        input.Role,
			Permissions: permissions,
			Status:      domain.LinkStatusInvited,
		}, s.now, s.newID)
		if err != nil {
			return err
		}
		if err := tx.CreatePartnerLink(ctx, link); err != nil {
			return fmt.Errorf("persist partner link: %w", err)
		}
		result.Link = link
		return nil
	})
	if err != nil {
		return InviteCoPartnerResult{}, err
	}
	return result, nil
}

// InviteCoordinatorInput describes a coordinator invitation request.
type InviteCoordinatorInput struct {
	ProgramID      string
	FirstName      string
	LastName       string
	RecipientEmail string
	Country        string
	Region         string
}

// InviteCoordinatorResult carries the rows written by a coordinator invitation.
type InviteCoordinatorResult struct {
	Coordinator domain.Coordinator
	Invitation  domain.Invitation
}

// InviteCoordinator creates the coordinator row first, then the invitation
// referencing it, inside one transaction.
func (s *Service) InviteCoordinator(ctx context.Context, input InviteCoordinatorInput) (InviteCoordinatorResult, error) {
	coordinator, err := domain.CreateCoordinator(domain.CreateCoordinatorInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.RecipientEmail,
		Country:   input.Country,
		Region:    input.Region,
		Status:    domain.CoordinatorStatusInvited,
		ProgramID: input.ProgramID,
	}, s.now, s.newID)
	if err != nil {
		return InviteCoordinatorResult{}, err
	}

	expiresAt := s.now().UTC().Add(domain.DefaultInvitationTTL)
	token, err := s.signer.Sign(coordinator.ProgramID, domain.InvitationTypeCoordinator, expiresAt)
	if err != nil {
		return InviteCoordinatorResult{}, err
	}

	invitation, err := domain.CreateInvitation(domain.CreateInvitationInput{
		ProgramID:      coordinator.ProgramID,
		Type:           domain.InvitationTypeCoordinator,
		RecipientEmail: coordinator.Email,
		Token:          token,
		ExpiresAt:      expiresAt,
		Coordinator: &domain.CoordinatorMetadata{
			CoordinatorID: coordinator.ID,
			Country:       coordinator.Country,
		},
	}, s.now, s.newID)
	if err != nil {
		return InviteCoordinatorResult{}, err
	}

	err = s.store.InTx(ctx, func(tx storage.Store) error {
		// The coordinator row must exist before the invitation references it.
		if err := tx.CreateCoordinator(ctx, coordinator); err != nil {
			return fmt.Errorf("persist coordinator: %w", err)
		}
		if err := tx.CreateInvitation(ctx, invitation); err != nil {
			return fmt.Errorf("persist invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return InviteCoordinatorResult{}, err
	}
	return InviteCoordinatorResult{Coordinator: coordinator, Invitation: invitation}, nil
}

// RespondResult carries the invitation after a response. StaleMetadata is
// true when the invitation's metadata referenced a partner or coordinator
// that no longer exists, so the secondary update was skipped.
type RespondResult struct {
	Invitation    domain.Invitation
	StaleMetadata bool
}

// Accept transitions a pending invitation to accepted and applies its side
// effects: the partner link moves to accepted (created if deleted out of
// band), or the coordinator becomes active.
func (s *Service) Accept(ctx context.Context, invitationID string) (RespondResult, error) {
	return s.respond(ctx, invitationID, domain.InvitationStatusAccepted)
}

// Decline transitions a pending invitation to declined. The partner link is
// marked declined without being deleted; the coordinator becomes inactive.
func (s *Service) Decline(ctx context.Context, invitationID string) (RespondResult, error) {
	return s.respond(ctx, invitationID, domain.InvitationStatusDeclined)
}

func (s *Service) respond(ctx context.Context, invitationID string, target domain.InvitationStatus) (RespondResult, error) {
	var result RespondResult
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		invitation, err := tx.GetInvitation(ctx, invitationID)
		if err != nil {
			return fmt.Errorf("load invitation: %w", err)
		}
		if invitation.Terminal() {
			return domain.ErrInvitationAlreadyResponded
		}

		now := s.now().UTC()
		update := storage.InvitationUpdate{Status: &target, RespondedAt: &now}
		if invitation.ViewedAt == nil {
			update.ViewedAt = &now
		}
		updated, err := tx.UpdateInvitation(ctx, invitation.ID, update)
		if err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}
		result.Invitation = updated

		switch invitation.Type {
		case domain.InvitationTypeCoPartner:
			stale, err := s.applyCoPartnerResponse(ctx, tx, invitation, target, now)
			if err != nil {
				return err
			}
			result.StaleMetadata = stale
		case domain.InvitationTypeCoordinator:
			stale, err := s.applyCoordinatorResponse(ctx, tx, invitation, target)
			if err != nil {
				return err
			}
			result.StaleMetadata = stale
		}
		return nil
	})
	if err != nil {
		return RespondResult{}, err
	}
	return result, nil
}

func (s *Service) applyCoPartnerResponse(ctx context.Context, tx storage.Store, invitation domain.Invitation, target domain.InvitationStatus, now time.Time) (bool, error) {
	if invitation.CoPartner == nil {
		return true, nil
	}
	metadata := *invitation.CoPartner

	link, err := tx.GetPartnerLinkByProgramAndPartner(ctx, invitation.ProgramID, metadata.PartnerID)
	if err == nil {
		update := storage.PartnerLinkUpdate{}
		if target == domain.InvitationStatusAccepted {
			accepted := domain.LinkStatusAccepted
			update.Status = &accepted
			update.AcceptedAt = &now
		} else {
			declined := domain.LinkStatusDeclined
			update.Status = &declined
		}
		if _, err := tx.UpdatePartnerLink(ctx, link.ID, update); err != nil {
			return false, fmt.Errorf("update partner link: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("load partner link: %w", err)
	}

	// Link deleted out of band. Recreate it on accept so the accepted
	// relationship survives; a decline has nothing left to mark.
	if target != domain.InvitationStatusAccepted {
		return true, nil
	}
	if _, err := tx.GetPartner(ctx, metadata.PartnerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("load partner: %w", err)
	}

	link, err = domain.CreatePartnerLink(domain.CreatePartnerLinkInput{
		ProgramID:   invitation.ProgramID,
		PartnerID:   metadata.PartnerID,
		Role:        metadata.Role,
		Permissions: metadata.ProposedPermissions,
		Status:      domain.LinkStatusAccepted,
	}, s.now, s.newID)
	if err != nil {
		return false, err
	}
	if err := tx.CreatePartnerLink(ctx, link); err != nil {
		return false, fmt.Errorf("recreate partner link: %w", err)
	}
	return false, nil
}

func (s *Service) applyCoordinatorResponse(ctx context.Context, tx storage.Store, invitation domain.Invitation, target domain.InvitationStatus) (bool, error) {
	if invitation.Coordinator == nil {
		return true, nil
	}

	status := domain.CoordinatorStatusActive
	if target == domain.InvitationStatusDeclined {
		status = domain.CoordinatorStatusInactive
	}
	_, err := tx.UpdateCoordinator(ctx, invitation.Coordinator.CoordinatorID, storage.CoordinatorUpdate{
		Status: &status,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("update coordinator: %w", err)
	}
	return false, nil
}

// NewProgramInput describes a program creation request.
type NewProgramInput struct {
	Name             string
	Description      string
	Status           domain.ProgramStatus
	CountriesInScope []string
	SDGFocus         []string
	StartDate        time.Time
	EndDate          time.Time
	PartnerID        string
}

// NewProgram creates a program together with its host partner link, carrying
// full permissions, in one transaction. Every program has exactly one host
// link from the moment it exists.
func (s *Service) NewProgram(ctx context.Context, input NewProgramInput) (domain.Program, error) {
	program, err := domain.CreateProgram(domain.CreateProgramInput{
		Name:             input.Name,
		Description:      input.Description,
		Status:           input.Status,
		CountriesInScope: input.CountriesInScope,
		SDGFocus:         input.SDGFocus,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		PartnerID:        input.PartnerID,
	}, s.now, s.newID)
	if err != nil {
		return domain.Program{}, err
	}

	hostLink, err := domain.CreatePartnerLink(domain.CreatePartnerLinkInput{
		ProgramID:   program.ID,
		PartnerID:   program.PartnerID,
		Role:        domain.PartnerRoleHost,
		Permissions: domain.DefaultPermissionsForRole(domain.PartnerRoleHost),
		Status:      domain.LinkStatusAccepted,
	}, s.now, s.newID)
	if err != nil {
		return domain.Program{}, err
	}

	err = s.store.InTx(ctx, func(tx storage.Store) error {
		if err := tx.CreateProgram(ctx, program); err != nil {
			return fmt.Errorf("persist program: %w", err)
		}
		if err := tx.CreatePartnerLink(ctx, hostLink); err != nil {
			return fmt.Errorf("persist host link: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Program{}, err
	}
	return program, nil
}
