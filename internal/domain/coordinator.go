package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darajahq/daraja/internal/errors"
)

// CoordinatorStatus represents the lifecycle status of a coordinator.
type CoordinatorStatus int

const (
	// CoordinatorStatusUnspecified represents an invalid coordinator status.
	CoordinatorStatusUnspecified CoordinatorStatus = iota
	// CoordinatorStatusInvited indicates a coordinator with a pending invitation.
	CoordinatorStatusInvited
	// CoordinatorStatusActive indicates a coordinator who accepted their invitation.
	CoordinatorStatusActive
	// CoordinatorStatusInactive indicates a coordinator who declined or was retired.
	CoordinatorStatusInactive
)

var (
	// ErrCoordinatorNameEmpty indicates a missing coordinator name.
	ErrCoordinatorNameEmpty = apperrors.New(apperrors.CodeCoordinatorNameEmpty, "coordinator first and last name are required")
	// ErrCoordinatorEmailEmpty indicates a missing coordinator email.
	ErrCoordinatorEmailEmpty = apperrors.New(apperrors.CodeCoordinatorEmailEmpty, "coordinator email is required")
	// ErrCoordinatorEmptyProgramID indicates a missing program ID.
	ErrCoordinatorEmptyProgramID = apperrors.New(apperrors.CodeCoordinatorEmptyProgramID, "program id is required")
)

// Coordinator represents a country/region-scoped onboarding coordinator.
type Coordinator struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Country   string
	Region    string
	Status    CoordinatorStatus
	ProgramID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCoordinatorInput describes the metadata needed to create a coordinator.
type CreateCoordinatorInput struct {
	FirstName string
	LastName  string
	Email     string
	Country   string
	Region    string
	Status    CoordinatorStatus
	ProgramID string
}

// CreateCoordinator creates a new coordinator with a generated ID and timestamps.
func CreateCoordinator(input CreateCoordinatorInput, now func() time.Time, idGenerator func() (string, error)) (Coordinator, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreateCoordinatorInput(input)
	if err != nil {
		return Coordinator{}, err
	}

	coordinatorID, err := idGenerator()
	if err != nil {
		return Coordinator{}, fmt.Errorf("generate coordinator id: %w", err)
	}

	createdAt := now().UTC()
	return Coordinator{
		ID:        coordinatorID,
		FirstName: normalized.FirstName,
		LastName:  normalized.LastName,
		Email:     normalized.Email,
		Country:   normalized.Country,
		Region:    normalized.Region,
		Status:    normalized.Status,
		ProgramID: normalized.ProgramID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NormalizeCreateCoordinatorInput trims and validates coordinator input metadata.
func NormalizeCreateCoordinatorInput(input CreateCoordinatorInput) (CreateCoordinatorInput, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.FirstName == "" || input.LastName == "" {
		return CreateCoordinatorInput{}, ErrCoordinatorNameEmpty
	}
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" {
		return CreateCoordinatorInput{}, ErrCoordinatorEmailEmpty
	}
	input.ProgramID = strings.TrimSpace(input.ProgramID)
	if input.ProgramID == "" {
		return CreateCoordinatorInput{}, ErrCoordinatorEmptyProgramID
	}
	input.Country = strings.ToUpper(strings.TrimSpace(input.Country))
	input.Region = strings.TrimSpace(input.Region)
	if input.Status == CoordinatorStatusUnspecified {
		input.Status = CoordinatorStatusInvited
	}
	return input, nil
}

// CoordinatorStatusLabel returns the string label for a coordinator status.
func CoordinatorStatusLabel(status CoordinatorStatus) string {
	switch status {
	case CoordinatorStatusInvited:
		return "invited"
	case CoordinatorStatusActive:
		return "active"
	case CoordinatorStatusInactive:
		return "inactive"
	default:
		return "unspecified"
	}
}

// CoordinatorStatusFromLabel converts a status label to a CoordinatorStatus value.
func CoordinatorStatusFromLabel(label string) CoordinatorStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "invited":
		return CoordinatorStatusInvited
	case "active":
		return CoordinatorStatusActive
	case "inactive":
		return CoordinatorStatusInactive
	default:
		return CoordinatorStatusUnspecified
	}
}
