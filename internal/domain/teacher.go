package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darajahq/daraja/internal/errors"
)

var (
	// ErrTeacherNameEmpty indicates a missing teacher name.
	ErrTeacherNameEmpty = apperrors.New(apperrors.CodeTeacherNameEmpty, "teacher first and last name are required")
	// ErrTeacherEmptyInstitutionID indicates a missing institution ID.
	ErrTeacherEmptyInstitutionID = apperrors.New(apperrors.CodeTeacherEmptyInstitutionID, "institution id is required")
	// ErrTeacherEmptyProgramID indicates a missing program ID.
	ErrTeacherEmptyProgramID = apperrors.New(apperrors.CodeTeacherEmptyProgramID, "program id is required")
)

// Teacher represents an educator attached to an institution.
type Teacher struct {
	ID            string
	FirstName     string
	LastName      string
	Subject       string
	InstitutionID string
	ProgramID     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName returns the teacher's display name.
func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// CreateTeacherInput describes the metadata needed to create a teacher.
type CreateTeacherInput struct {
	FirstName     string
	LastName      string
	Subject       string
	InstitutionID string
	ProgramID     string
}

// CreateTeacher creates a new teacher with a generated ID and timestamps.
func CreateTeacher(input CreateTeacherInput, now func() time.Time, idGenerator func() (string, error)) (Teacher, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	normalized, err := NormalizeCreateTeacherInput(input)
	if err != nil {
		return Teacher{}, err
	}

	teacherID, err := idGenerator()
	if err != nil {
		return Teacher{}, fmt.Errorf("generate teacher id: %w", err)
	}

	createdAt := now().UTC()
	return Teacher{
		ID:            teacherID,
		FirstName:     normalized.FirstName,
		LastName:      normalized.LastName,
		Subject:       normalized.Subject,
		InstitutionID: normalized.InstitutionID,
		ProgramID:     normalized.ProgramID,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

// NormalizeCreateTeacherInput trims and validates teacher input metadata.
func NormalizeCreateTeacherInput(input CreateTeacherInput) (CreateTeacherInput, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if input.FirstName == "" || input.LastName == "" {
		return CreateTeacherInput{}, ErrTeacherNameEmpty
	}
	input.InstitutionID = strings.TrimSpace(input.InstitutionID)
	if input.InstitutionID == "" {
		return CreateTeacherInput{}, ErrTeacherEmptyInstitutionID
	}
	input.ProgramID = strings.TrimSpace(input.ProgramID)
	if input.ProgramID == "" {
		return CreateTeacherInput{}, ErrTeacherEmptyProgramID
	}
	input.Subject = strings.TrimSpace(input.Subject)
	return input, nil
}
