package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darajahq/daraja/internal/errors"
)

// InvitationType discriminates the two invitation kinds.
type InvitationType int

const (
	// InvitationTypeUnspecified represents an invalid invitation type.
	InvitationTypeUnspecified InvitationType = iota
	// InvitationTypeCoPartner invites a partner organization onto a program.
	InvitationTypeCoPartner
	// InvitationTypeCoordinator invites an individual coordinator.
	InvitationTypeCoordinator
)

// InvitationStatus represents the lifecycle status of an invitation.
// Status is monotonic: pending transitions to accepted or declined, both terminal.
type InvitationStatus int

const (
	// InvitationStatusUnspecified represents an invalid invitation status.
	InvitationStatusUnspecified InvitationStatus = iota
	// InvitationStatusPending indicates an invitation awaiting a response.
	InvitationStatusPending
	// InvitationStatusAccepted indicates an accepted invitation.
	InvitationStatusAccepted
	// InvitationStatusDeclined indicates a declined invitation.
	InvitationStatusDeclined
)

var (
	// ErrInvitationEmptyProgramID indicates a missing program ID.
	ErrInvitationEmptyProgramID = apperrors.New(apperrors.CodeInvitationEmptyProgramID, "program id is required")
	// ErrInvitationEmptyRecipient indicates a missing recipient email.
	ErrInvitationEmptyRecipient = apperrors.New(apperrors.CodeInvitationEmptyRecipient, "recipient email is required")
	// ErrInvitationInvalidType indicates a missing or invalid invitation type.
	ErrInvitationInvalidType = apperrors.New(apperrors.CodeInvitationInvalidType, "invitation type is required")
	// ErrInvitationMetadataMissing indicates metadata absent for the invitation type.
	ErrInvitationMetadataMissing = apperrors.New(apperrors.CodeInvitationMetadataMissing, "invitation metadata does not match its type")
	// ErrInvitationAlreadyResponded indicates a response to a terminal invitation.
	ErrInvitationAlreadyResponded = apperrors.New(apperrors.CodeInvitationAlreadyResponded, "invitation has already been responded to")
)

// CoPartnerMetadata carries the co-partner variant of invitation metadata.
type CoPartnerMetadata struct {
	PartnerID           string
	Role                PartnerRole
	ProposedPermissions Permissions
}

// CoordinatorMetadata carries the coordinator variant of invitation metadata.
type CoordinatorMetadata struct {
	CoordinatorID string
	Country       string
}

// Invitation represents a pending or answered invitation onto a program.
// Exactly one of CoPartner and Coordinator is set, matching Type.
type Invitation struct {
	ID             string
	ProgramID      string
	Type           InvitationType
	RecipientEmail string
	Token          string
	Status         InvitationStatus
	SentAt         time.Time
	ExpiresAt      time.Time
	ViewedAt       *time.Time
	RespondedAt    *time.Time
	CoPartner      *CoPartnerMetadata
	Coordinator    *CoordinatorMetadata
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Expired reports whether the invitation's expiry lies in the past.
// Expiry is descriptive only; it never transitions status by itself.
func (i Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && i.ExpiresAt.Before(now.UTC())
}

// Terminal reports whether the invitation reached a final status.
func (i Invitation) Terminal() bool {
	return i.Status == InvitationStatusAccepted || i.Status == InvitationStatusDeclined
}

// DefaultInvitationTTL is how long a new invitation stays claimable.
const DefaultInvitationTTL = 14 * 24 * time.Hour

// CreateInvitationInput describes the metadata needed to create an invitation.
type CreateInvitationInput struct {
	ProgramID      string
	Type           InvitationType
	RecipientEmail string
	Token          string
	ExpiresAt      time.Time
	CoPartner      *CoPartnerMetadata
	Coordinator    *CoordinatorMetadata
}

// CreateInvitation creates a new pending invitation with a generated ID and timestamps.
func CreateInvitation(input CreateInvitationInput, now func() time.Time, idGenerator func() (string, error)) (Invitation, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreateInvitationInput(input)
	if err != nil {
		return Invitation{}, err
	}

	invitationID, err := idGenerator()
	if err != nil {
		return Invitation{}, fmt.Errorf("generate invitation id: %w", err)
	}

	createdAt := now().UTC()
	expiresAt := normalized.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = createdAt.Add(DefaultInvitationTTL)
	}
	return Invitation{
		ID:             invitationID,
		ProgramID:      normalized.ProgramID,
		Type:           normalized.Type,
		RecipientEmail: normalized.RecipientEmail,
		Token:          normalized.Token,
		Status:         InvitationStatusPending,
		SentAt:         createdAt,
		ExpiresAt:      expiresAt,
		CoPartner:      normalized.CoPartner,
		Coordinator:    normalized.Coordinator,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, nil
}

// NormalizeCreateInvitationInput trims and validates invitation input metadata.
// The metadata variant must match the invitation type.
func NormalizeCreateInvitationInput(input CreateInvitationInput) (CreateInvitationInput, error) {
	input.ProgramID = strings.TrimSpace(input.ProgramID)
	if input.ProgramID == "" {
		return CreateInvitationInput{}, ErrInvitationEmptyProgramID
	}
	input.RecipientEmail = strings.TrimSpace(input.RecipientEmail)
	if input.RecipientEmail == "" {
		return CreateInvitationInput{}, ErrInvitationEmptyRecipient
	}
	switch input.Type {
	case InvitationTypeCoPartner:
		if input.CoPartner == nil || strings.TrimSpace(input.CoPartner.PartnerID) == "" {
			return CreateInvitationInput{}, ErrInvitationMetadataMissing
		}
		input.Coordinator = nil
	case InvitationTypeCoordinator:
		if input.Coordinator == nil || strings.TrimSpace(input.Coordinator.CoordinatorID) == "" {
			return CreateInvitationInput{}, ErrInvitationMetadataMissing
		}
		input.CoPartner = nil
	default:
		return CreateInvitationInput{}, ErrInvitationInvalidType
	}
	input.Token = strings.TrimSpace(input.Token)
	return input, nil
}

// InvitationTypeLabel returns the string label for an invitation type.
func InvitationTypeLabel(invitationType InvitationType) string {
	switch invitationType {
	case InvitationTypeCoPartner:
		return "co_partner"
	case InvitationTypeCoordinator:
		return "coordinator"
	default:
		return "unspecified"
	}
}

// InvitationTypeFromLabel converts a type label to an InvitationType value.
func InvitationTypeFromLabel(label string) InvitationType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "co_partner":
		return InvitationTypeCoPartner
	case "coordinator":
		return InvitationTypeCoordinator
	default:
		return InvitationTypeUnspecified
	}
}

// InvitationStatusLabel returns the string label for an invitation status.
func InvitationStatusLabel(status InvitationStatus) string {
	switch status {
	case InvitationStatusPending:
		return "pending"
	case InvitationStatusAccepted:
		return "accepted"
	case InvitationStatusDeclined:
		return "declined"
	default:
		return "unspecified"
	}
}

// InvitationStatusFromLabel converts a status label to an InvitationStatus value.
func InvitationStatusFromLabel(label string) InvitationStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "pending":
		return InvitationStatusPending
	case "accepted":
		return InvitationStatusAccepted
	case "declined":
		return InvitationStatusDeclined
	default:
		return InvitationStatusUnspecified
	}
}
