package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darajahq/daraja/internal/errors"
)

// ProjectStatus represents the lifecycle status of a project.
type ProjectStatus int

const (
	// ProjectStatusUnspecified represents an invalid project status.
	ProjectStatusUnspecified ProjectStatus = iota
	// ProjectStatusActive indicates a project currently running.
	ProjectStatusActive
	// ProjectStatusCompleted indicates a finished project.
	ProjectStatusCompleted
)

var (
	// ErrProjectEmptyProgramID indicates a missing program ID.
	ErrProjectEmptyProgramID = apperrors.New(apperrors.CodeProjectEmptyProgramID, "program id is required")
	// ErrProjectEmptyCreatorID indicates a missing creator teacher ID.
	ErrProjectEmptyCreatorID = apperrors.New(apperrors.CodeProjectEmptyCreatorID, "creator teacher id is required")
)

// Project represents classroom work created by a teacher within a program.
type Project struct {
	ID          string
	Title       string
	ProgramID   string
	CreatedByID string
	TemplateID  string
	Status      ProjectStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateProjectInput describes the metadata needed to create a project.
type CreateProjectInput struct {
	Title       string
	ProgramID   string
	CreatedByID string
	TemplateID  string
	Status      ProjectStatus
}

// CreateProject creates a new project with a generated ID and timestamps.
func CreateProject(input CreateProjectInput, now func() time.Time, idGenerator func() (string, error)) (Project, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreateProjectInput(input)
	if err != nil {
		return Project{}, err
	}

	projectID, err := idGenerator()
	if err != nil {
		return Project{}, fmt.Errorf("generate project id: %w", err)
	}

	createdAt := now().UTC()
	return Project{
		ID:          projectID,
		Title:       normalized.Title,
		ProgramID:   normalized.ProgramID,
		CreatedByID: normalized.CreatedByID,
		TemplateID:  normalized.TemplateID,
		Status:      normalized.Status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// NormalizeCreateProjectInput trims and validates project input metadata.
func NormalizeCreateProjectInput(input CreateProjectInput) (CreateProjectInput, error) {
	input.ProgramID = strings.TrimSpace(input.ProgramID)
	if input.ProgramID == "" {
		return CreateProjectInput{}, ErrProjectEmptyProgramID
	}
	input.CreatedByID = strings.TrimSpace(input.CreatedByID)
	if input.CreatedByID == "" {
		return CreateProjectInput{}, ErrProjectEmptyCreatorID
	}
	input.Title = strings.TrimSpace(input.Title)
	input.TemplateID = strings.TrimSpace(input.TemplateID)
	if input.Status == ProjectStatusUnspecified {
		input.Status = ProjectStatusActive
	}
	return input, nil
}

// ProjectStatusLabel returns the string label for a project status.
func ProjectStatusLabel(status ProjectStatus) string {
	switch status {
	case ProjectStatusActive:
		return "active"
	case ProjectStatusCompleted:
		return "completed"
	default:
		return "unspecified"
	}
}

// ProjectStatusFromLabel converts a status label to a ProjectStatus value.
func ProjectStatusFromLabel(label string) ProjectStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "active":
		return ProjectStatusActive
	case "completed":
		return ProjectStatusCompleted
	default:
		return ProjectStatusUnspecified
	}
}
