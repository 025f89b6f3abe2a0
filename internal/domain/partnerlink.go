package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darajahq/daraja/internal/errors"
)

// PartnerRole represents the role a partner holds on a program.
type PartnerRole int

const (
	// PartnerRoleUnspecified represents an invalid partner role.
	PartnerRoleUnspecified PartnerRole = iota
	// PartnerRoleHost indicates the partner that created the program.
	PartnerRoleHost
	// PartnerRoleCoHost indicates a co-hosting partner with edit rights.
	PartnerRoleCoHost
	// PartnerRoleSponsor indicates a funding partner with read access.
	PartnerRoleSponsor
	// PartnerRoleAdvisor indicates an advising partner with read access.
	PartnerRoleAdvisor
	// PartnerRoleSupporter indicates a supporting partner with read access.
	PartnerRoleSupporter
)

// LinkStatus represents the lifecycle status of a partner link.
type LinkStatus int

const (
	// LinkStatusUnspecified represents an invalid link status.
	LinkStatusUnspecified LinkStatus = iota
	// LinkStatusInvited indicates a link awaiting the partner's response.
	LinkStatusInvited
	// LinkStatusAccepted indicates a link the partner accepted.
	LinkStatusAccepted
	// LinkStatusDeclined indicates a link the partner declined.
	LinkStatusDeclined
)

var (
	// ErrLinkEmptyProgramID indicates a missing program ID.
	ErrLinkEmptyProgramID = apperrors.New(apperrors.CodeLinkEmptyProgramID, "program id is required")
	// ErrLinkEmptyPartnerID indicates a missing partner ID.
	ErrLinkEmptyPartnerID = apperrors.New(apperrors.CodeLinkEmptyPartnerID, "partner id is required")
	// ErrLinkInvalidRole indicates a missing or invalid partner role.
	ErrLinkInvalidRole = apperrors.New(apperrors.CodeLinkInvalidRole, "partner role is required")
)

// Permissions is the per-link permission bundle granted to a partner.
type Permissions struct {
	CanEditProgram        bool
	CanInvitePartners     bool
	CanManageInstitutions bool
	CanViewReports        bool
	CanExportData         bool
}

// DefaultPermissionsForRole returns the permission bundle a role starts with.
// Host and co-host roles carry full management rights; sponsor, advisor and
// supporter roles are read-mostly.
func DefaultPermissionsForRole(role PartnerRole) Permissions {
	switch role {
	case PartnerRoleHost, PartnerRoleCoHost:
		return Permissions{
			CanEditProgram:        true,
			CanInvitePartners:     true,
			CanManageInstitutions: true,
			CanViewReports:        true,
			CanExportData:         true,
		}
	default:
		return Permissions{
			CanViewReports: true,
			CanExportData:  true,
		}
	}
}

// PartnerLink represents a partner's relationship to a program.
// Exactly one link exists per (program, partner) pair.
type PartnerLink struct {
	ID          string
	ProgramID   string
	PartnerID   string
	Role        PartnerRole
	Permissions Permissions
	Status      LinkStatus
	InvitedAt   time.Time
	AcceptedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePartnerLinkInput describes the metadata needed to create a partner link.
type CreatePartnerLinkInput struct {
	ProgramID   string
	PartnerID   string
	Role        PartnerRole
	Permissions Permissions
	Status      LinkStatus
}

// CreatePartnerLink creates a new partner link with a generated ID and timestamps.
func CreatePartnerLink(input CreatePartnerLinkInput, now func() time.Time, idGenerator func() (string, error)) (PartnerLink, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreatePartnerLinkInput(input)
	if err != nil {
		return PartnerLink{}, err
	}

	linkID, err := idGenerator()
	if err != nil {
		return PartnerLink{}, fmt.Errorf("generate partner link id: %w", err)
	}

	createdAt := now().UTC()
	link := PartnerLink{
		ID:          linkID,
		ProgramID:   normalized.ProgramID,
		PartnerID:   normalized.PartnerID,
		Role:        normalized.Role,
		Permissions: normalized.Permissions,
		Status:      normalized.Status,
		InvitedAt:   createdAt,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if link.Status == LinkStatusAccepted {
		acceptedAt := createdAt
		link.AcceptedAt = &acceptedAt
	}
	return link, nil
}

// NormalizeCreatePartnerLinkInput trims and validates partner link input metadata.
func NormalizeCreatePartnerLinkInput(input CreatePartnerLinkInput) (CreatePartnerLinkInput, error) {
	input.ProgramID = strings.TrimSpace(input.ProgramID)
	if input.ProgramID == "" {
		return CreatePartnerLinkInput{}, ErrLinkEmptyProgramID
	}
	input.PartnerID = strings.TrimSpace(input.PartnerID)
	if input.PartnerID == "" {
		return CreatePartnerLinkInput{}, ErrLinkEmptyPartnerID
	}
	if input.Role == PartnerRoleUnspecified {
		return CreatePartnerLinkInput{}, ErrLinkInvalidRole
	}
	if input.Status == LinkStatusUnspecified {
		input.Status = LinkStatusInvited
	}
	return input, nil
}

// PartnerRoleLabel returns the string label for a partner role.
func PartnerRoleLabel(role PartnerRole) string {
	switch role {
	case PartnerRoleHost:
		return "host"
	case PartnerRoleCoHost:
		return "co_host"
	case PartnerRoleSponsor:
		return "sponsor"
	case PartnerRoleAdvisor:
		return "advisor"
	case PartnerRoleSupporter:
		return "supporter"
	default:
		return "unspecified"
	}
}

// PartnerRoleFromLabel converts a role label to a PartnerRole value.
func PartnerRoleFromLabel(label string) PartnerRole {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "host":
		return PartnerRoleHost
	case "co_host":
		return PartnerRoleCoHost
	case "sponsor":
		return PartnerRoleSponsor
	case "advisor":
		return PartnerRoleAdvisor
	case "supporter":
		return PartnerRoleSupporter
	default:
		return PartnerRoleUnspecified
	}
}

// LinkStatusLabel returns the string label for a link status.
func LinkStatusLabel(status LinkStatus) string {
	switch status {
	case LinkStatusInvited:
		return "invited"
	case LinkStatusAccepted:
		return "accepted"
	case LinkStatusDeclined:
		return "declined"
	default:
		return "unspecified"
	}
}

// LinkStatusFromLabel converts a status label to a LinkStatus value.
func LinkStatusFromLabel(label string) LinkStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "invited":
		return LinkStatusInvited
	case "accepted":
		return LinkStatusAccepted
	case "declined":
		return LinkStatusDeclined
	default:
		return LinkStatusUnspecified
	}
}
