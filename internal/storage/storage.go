// Package storage defines persistence contracts for the partnership platform.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/darajahq/daraja/internal/domain"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// PartnerUpdate carries partial partner fields; nil leaves a field unchanged.
type PartnerUpdate struct {
	OrganizationName *string
	Website          *string
	ContactEmail     *string
	Languages        *[]string
	SDGFocus         *[]string
	Country          *string
}

// PartnerStore persists partner records.
type PartnerStore interface {
	CreatePartner(ctx context.Context, partner domain.Partner) error
	GetPartner(ctx context.Context, id string) (domain.Partner, error)
	UpdatePartner(ctx context.Context, id string, update PartnerUpdate) (domain.Partner, error)
	DeletePartner(ctx context.Context, id string) error
	ListPartners(ctx context.Context) ([]domain.Partner, error)
}

// ProgramUpdate carries partial program fields; nil leaves a field unchanged.
type ProgramUpdate struct {
	Name             *string
	Description      *string
	Status           *domain.ProgramStatus
	CountriesInScope *[]string
	SDGFocus         *[]string
	StartDate        *time.Time
	EndDate          *time.Time
}

// ProgramStore persists program records.
type ProgramStore interface {
	CreateProgram(ctx context.Context, program domain.Program) error
	GetProgram(ctx context.Context, id string) (domain.Program, error)
	UpdateProgram(ctx context.Context, id string, update ProgramUpdate) (domain.Program, error)
	DeleteProgram(ctx context.Context, id string) error
	// ListPrograms returns all programs in insertion order.
	ListPrograms(ctx context.Context) ([]domain.Program, error)
	ListProgramsByHost(ctx context.Context, partnerID string) ([]domain.Program, error)
}

// InstitutionUpdate carries partial institution fields; nil leaves a field unchanged.
type InstitutionUpdate struct {
	Name         *string
	Country      *string
	City         *string
	Region       *string
	StudentCount *int
	TeacherCount *int
	Status       *domain.InstitutionStatus
}

// InstitutionStore persists institution records.
type InstitutionStore interface {
	CreateInstitution(ctx context.Context, institution domain.Institution) error
	GetInstitution(ctx context.Context, id string) (domain.Institution, error)
	UpdateInstitution(ctx context.Context, id string, update InstitutionUpdate) (domain.Institution, error)
	DeleteInstitution(ctx context.Context, id string) error
	ListInstitutionsByProgram(ctx context.Context, programID string) ([]domain.Institution, error)
}

// TeacherUpdate carries partial teacher fields; nil leaves a field unchanged.
type TeacherUpdate struct {
	FirstName     *string
	LastName      *string
	Subject       *string
	InstitutionID *string
}

// TeacherStore persists teacher records.
type TeacherStore interface {
	CreateTeacher(ctx context.Context, teacher domain.Teacher) error
	GetTeacher(ctx context.Context, id string) (domain.Teacher, error)
	UpdateTeacher(ctx context.Context, id string, update TeacherUpdate) (domain.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	ListTeachersByProgram(ctx context.Context, programID string) ([]domain.Teacher, error)
}

// CoordinatorUpdate carries partial coordinator fields; nil leaves a field unchanged.
type CoordinatorUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Country   *string
	Region    *string
	Status    *domain.CoordinatorStatus
}

// CoordinatorStore persists coordinator records.
type CoordinatorStore interface {
	CreateCoordinator(ctx context.Context, coordinator domain.Coordinator) error
	GetCoordinator(ctx context.Context, id string) (domain.Coordinator, error)
	UpdateCoordinator(ctx context.Context, id string, update CoordinatorUpdate) (domain.Coordinator, error)
	DeleteCoordinator(ctx context.Context, id string) error
	ListCoordinatorsByProgram(ctx context.Context, programID string) ([]domain.Coordinator, error)
}

// PartnerLinkUpdate carries partial link fields; nil leaves a field unchanged.
type PartnerLinkUpdate struct {
	Role        *domain.PartnerRole
	Permissions *domain.Permissions
	Status      *domain.LinkStatus
	AcceptedAt  *time.Time
}

// PartnerLinkStore persists program-partner relationship records.
// At most one link exists per (program, partner) pair.
type PartnerLinkStore interface {
	CreatePartnerLink(ctx context.Context, link domain.PartnerLink) error
	GetPartnerLink(ctx context.Context, id string) (domain.PartnerLink, error)
	GetPartnerLinkByProgramAndPartner(ctx context.Context, programID, partnerID string) (domain.PartnerLink, error)
	UpdatePartnerLink(ctx context.Context, id string, update PartnerLinkUpdate) (domain.PartnerLink, error)
	DeletePartnerLink(ctx context.Context, id string) error
	ListPartnerLinksByProgram(ctx context.Context, programID string) ([]domain.PartnerLink, error)
	ListPartnerLinksByPartner(ctx context.Context, partnerID string) ([]domain.PartnerLink, error)
}

// InvitationUpdate carries partial invitation fields; nil leaves a field unchanged.
type InvitationUpdate struct {
	Status      *domain.InvitationStatus
	ViewedAt    *time.Time
	RespondedAt *time.Time
}

// InvitationStore persists invitation records.
type InvitationStore interface {
	CreateInvitation(ctx context.Context, invitation domain.Invitation) error
	GetInvitation(ctx context.Context, id string) (domain.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (domain.Invitation, error)
	UpdateInvitation(ctx context.Context, id string, update InvitationUpdate) (domain.Invitation, error)
	DeleteInvitation(ctx context.Context, id string) error
	ListInvitationsByProgram(ctx context.Context, programID string) ([]domain.Invitation, error)
}

// ProjectUpdate carries partial project fields; nil leaves a field unchanged.
type ProjectUpdate struct {
	Title      *string
	TemplateID *string
	Status     *domain.ProjectStatus
}

// ProjectStore persists project records.
type ProjectStore interface {
	CreateProject(ctx context.Context, project domain.Project) error
	GetProject(ctx context.Context, id string) (domain.Project, error)
	UpdateProject(ctx context.Context, id string, update ProjectUpdate) (domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListProjectsByProgram(ctx context.Context, programID string) ([]domain.Project, error)
}

// TemplateStore persists project template lookup records.
type TemplateStore interface {
	CreateTemplate(ctx context.Context, template domain.Template) error
	GetTemplate(ctx context.Context, id string) (domain.Template, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)
}

// Store bundles every entity contract.
type Store interface {
	PartnerStore
	ProgramStore
	InstitutionStore
	TeacherStore
	CoordinatorStore
	PartnerLinkStore
	InvitationStore
	ProjectStore
	TemplateStore
}

// TxRunner executes related multi-table mutations atomically. The Store
// passed to fn operates inside one transaction; returning an error rolls
// everything back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Store) error) error
}
