package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darajahq/daraja/internal/errors"
)

// ProgramStatus represents the lifecycle status of a program.
type ProgramStatus int

const (
	// ProgramStatusUnspecified represents an invalid program status.
	ProgramStatusUnspecified ProgramStatus = iota
	// ProgramStatusDraft indicates a program still being set up.
	ProgramStatusDraft
	// ProgramStatusActive indicates a program currently running.
	ProgramStatusActive
	// ProgramStatusCompleted indicates a program that finished its run.
	ProgramStatusCompleted
	// ProgramStatusArchived indicates a program removed from dashboards.
	ProgramStatusArchived
)

var (
	// ErrProgramNameEmpty indicates a missing program name.
	ErrProgramNameEmpty = apperrors.New(apperrors.CodeProgramNameEmpty, "program name is required")
	// ErrProgramEmptyPartnerID indicates a missing host partner ID.
	ErrProgramEmptyPartnerID = apperrors.New(apperrors.CodeProgramEmptyPartnerID, "host partner id is required")
)

// Program represents a partner-hosted initiative.
type Program struct {
	ID               string
	Name             string
	Description      string
	Status           ProgramStatus
	CountriesInScope []string
	SDGFocus         []string
	StartDate        time.Time
	EndDate          time.Time
	PartnerID        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CreateProgramInput describes the metadata needed to create a program.
type CreateProgramInput struct {
	Name             string
	Description      string
	Status           ProgramStatus
	CountriesInScope []string
	SDGFocus         []string
	StartDate        time.Time
	EndDate          time.Time
	PartnerID        string
}

// CreateProgram creates a new program with a generated ID and timestamps.
func CreateProgram(input CreateProgramInput, now func() time.Time, idGenerator func() (string, error)) (Program, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreateProgramInput(input)
	if err != nil {
		return Program{}, err
	}

	programID, err := idGenerator()
	if err != nil {
		return Program{}, fmt.Errorf("generate program id: %w", err)
	}

	createdAt := now().UTC()
	return Program{
		ID:               programID,
		Name:             normalized.Name,
		Description:      normalized.Description,
		Status:           normalized.Status,
		CountriesInScope: normalized.CountriesInScope,
		SDGFocus:         normalized.SDGFocus,
		StartDate:        normalized.StartDate,
		EndDate:          normalized.EndDate,
		PartnerID:        normalized.PartnerID,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}, nil
}

// NormalizeCreateProgramInput trims and validates program input metadata.
func NormalizeCreateProgramInput(input CreateProgramInput) (CreateProgramInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return CreateProgramInput{}, ErrProgramNameEmpty
	}
	input.PartnerID = strings.TrimSpace(input.PartnerID)
	if input.PartnerID == "" {
		return CreateProgramInput{}, ErrProgramEmptyPartnerID
	}
	input.Description = strings.TrimSpace(input.Description)
	if input.Status == ProgramStatusUnspecified {
		input.Status = ProgramStatusDraft
	}
	return input, nil
}

// ProgramStatusLabel returns the string label for a program status.
func ProgramStatusLabel(status ProgramStatus) string {
	switch status {
	case ProgramStatusDraft:
		return "draft"
	case ProgramStatusActive:
		return "active"
	case ProgramStatusCompleted:
		return "completed"
	case ProgramStatusArchived:
		return "archived"
	default:
		return "unspecified"
	}
}

// ProgramStatusFromLabel converts a status label to a ProgramStatus value.
func ProgramStatusFromLabel(label string) ProgramStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "draft":
		return ProgramStatusDraft
	case "active":
		return ProgramStatusActive
	case "completed":
		return ProgramStatusCompleted
	case "archived":
		return ProgramStatusArchived
	default:
		return ProgramStatusUnspecified
	}
}
