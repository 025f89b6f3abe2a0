package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darajahq/daraja/internal/errors"
)

// InstitutionStatus represents the onboarding status of an institution.
type InstitutionStatus int

const (
	// InstitutionStatusUnspecified represents an invalid institution status.
	InstitutionStatusUnspecified InstitutionStatus = iota
	// InstitutionStatusOnboarding indicates an institution still being set up.
	InstitutionStatusOnboarding
	// InstitutionStatusActive indicates an institution with running activity.
	InstitutionStatusActive
	// InstitutionStatusInactive indicates an institution no longer participating.
	InstitutionStatusInactive
)

var (
	// ErrInstitutionNameEmpty indicates a missing institution name.
	ErrInstitutionNameEmpty = apperrors.New(apperrors.CodeInstitutionNameEmpty, "institution name is required")
	// ErrInstitutionEmptyProgramID indicates a missing program ID.
	ErrInstitutionEmptyProgramID = apperrors.New(apperrors.CodeInstitutionEmptyProgramID, "program id is required")
	// ErrInstitutionNegativeCount indicates a negative student or teacher count.
	ErrInstitutionNegativeCount = apperrors.New(apperrors.CodeInstitutionNegativeCount, "student and teacher counts must not be negative")
)

// Institution represents a school onboarded into a program.
type Institution struct {
	ID           string
	Name         string
	Country      string
	City         string
	Region       string
	StudentCount int
	TeacherCount int
	Status       InstitutionStatus
	ProgramID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateInstitutionInput describes the metadata needed to create an institution.
type CreateInstitutionInput struct {
	Name         string
	Country      string
	City         string
	Region       string
	StudentCount int
	TeacherCount int
	Status       InstitutionStatus
	ProgramID    string
}

// CreateInstitution creates a new institution with a generated ID and timestamps.
func CreateInstitution(input CreateInstitutionInput, now func() time.Time, idGenerator func() (string, error)) (Institution, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreateInstitutionInput(input)
	if err != nil {
		return Institution{}, err
	}

	institutionID, err := idGenerator()
	if err != nil {
		return Institution{}, fmt.Errorf("generate institution id: %w", err)
	}

	createdAt := now().UTC()
	return Institution{
		ID:           institutionID,
		Name:         normalized.Name,
		Country:      normalized.Country,
		City:         normalized.City,
		Region:       normalized.Region,
		StudentCount: normalized.StudentCount,
		TeacherCount: normalized.TeacherCount,
		Status:       normalized.Status,
		ProgramID:    normalized.ProgramID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// NormalizeCreateInstitutionInput trims and validates institution input metadata.
func NormalizeCreateInstitutionInput(input CreateInstitutionInput) (CreateInstitutionInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateInstitutionInput{}, ErrInstitutionNameEmpty
	}
	input.ProgramID = strings.TrimSpace(input.ProgramID)
	if input.ProgramID == "" {
		return CreateInstitutionInput{}, ErrInstitutionEmptyProgramID
	}
	if input.StudentCount < 0 || input.TeacherCount < 0 {
		return CreateInstitutionInput{}, ErrInstitutionNegativeCount
	}
	input.Country = strings.ToUpper(strings.TrimSpace(input.Country))
	input.City = strings.TrimSpace(input.City)
	input.Region = strings.TrimSpace(input.Region)
	if input.Status == InstitutionStatusUnspecified {
		input.Status = InstitutionStatusOnboarding
	}
	return input, nil
}

// InstitutionStatusLabel returns the string label for an institution status.
func InstitutionStatusLabel(status InstitutionStatus) string {
	switch status {
	case InstitutionStatusOnboarding:
		return "onboarding"
	case InstitutionStatusActive:
		return "active"
	case InstitutionStatusInactive:
		return "inactive"
	default:
		return "unspecified"
	}
}

// InstitutionStatusFromLabel converts a status label to an InstitutionStatus value.
func InstitutionStatusFromLabel(label string) InstitutionStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "onboarding":
		return InstitutionStatusOnboarding
	case "active":
		return InstitutionStatusActive
	case "inactive":
		return InstitutionStatusInactive
	default:
		return InstitutionStatusUnspecified
	}
}
