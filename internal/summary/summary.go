// Package summary joins the entity tables into denormalized program views
// and rollup metrics for partner dashboards. All reads recompute from
// storage; nothing is cached.
package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/darajahq/daraja/internal/domain"
	apperrors "github.com/darajahq/daraja/internal/errors"
	"github.com/darajahq/daraja/internal/session"
	"github.com/darajahq/daraja/internal/storage"
)

// ErrNoSession indicates a caller-scoped read without a session descriptor.
var ErrNoSession = apperrors.New(apperrors.CodeSessionMissing, "session descriptor is required")

// PartnerEntry pairs a program-partner link with its best-effort partner
// join. Partner stays nil when the referenced partner no longer exists.
type PartnerEntry struct {
	Link    domain.PartnerLink
	Partner *domain.Partner
}

// ProjectEntry pairs a project with its best-effort template and creator
// institution joins. Empty strings mean the reference did not resolve.
type ProjectEntry struct {
	Project         domain.Project
	TemplateTitle   string
	InstitutionID   string
	InstitutionName string
}

// Metrics carries the per-summary rollup counters.
type Metrics struct {
	InstitutionCount   int
	TeacherCount       int
	StudentCount       int
	CoordinatorCount   int
	ProjectCount       int
	PendingInvitations int
	Countries          []string
}

// ProgramSummary is the denormalized view of one program and everything
// attached to it.
type ProgramSummary struct {
	Program      domain.Program
	Host         *domain.Partner
	Institutions []domain.Institution
	Teachers     []domain.Teacher
	Coordinators []domain.Coordinator
	Invitations  []domain.Invitation
	Partners     []PartnerEntry
	Projects     []ProjectEntry
	Metrics      Metrics
}

// Option adjusts how summaries are resolved.
type Option func(*options)

type options struct {
	excluded       map[string]struct{}
	includeRelated bool
}

// WithExcludedInstitutions removes the given institution ids, and everything
// chained off them, from resolved summaries.
func WithExcludedInstitutions(ids ...string) Option {
	return func(o *options) {
		if o.excluded == nil {
			o.excluded = make(map[string]struct{}, len(ids))
		}
		for _, id := range ids {
			o.excluded[id] = struct{}{}
		}
	}
}

// IncludeRelatedPrograms extends partner summaries beyond hosted programs to
// programs where the partner holds an invited or accepted link.
func IncludeRelatedPrograms() Option {
	return func(o *options) {
		o.includeRelated = true
	}
}

// Service resolves program summaries against the storage contracts.
type Service struct {
	store storage.Store
}

// NewService returns a summary service backed by the provided store.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// FindProgramSummaryByID resolves one program into its summary view. A
// missing program returns nil with no error so callers can render an empty
// state. Dangling references inside the program resolve best-effort and
// never fail the summary.
func (s *Service) FindProgramSummaryByID(ctx context.Context, programID string, opts ...Option) (*ProgramSummary, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("summary service is not configured")
	}

	var resolved options
	for _, opt := range opts {
		opt(&resolved)
	}

	program, err := s.store.GetProgram(ctx, programID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load program: %w", err)
	}
	return s.buildSummary(ctx, program, resolved)
}

// ProgramSummariesForCaller resolves summaries for the partner organization
// attached to the current session descriptor.
func (s *Service) ProgramSummariesForCaller(ctx context.Context, opts ...Option) ([]ProgramSummary, error) {
	descriptor, ok := session.FromContext(ctx)
	if !ok || descriptor.Organization == "" {
		return nil, ErrNoSession
	}
	return s.ProgramSummariesForPartner(ctx, descriptor.Organization, opts...)
}

// ProgramSummariesForPartner resolves one summary per program hosted by the
// partner, in insertion order of the program table. With
// IncludeRelatedPrograms it also covers programs where the partner holds an
// invited or accepted link.
func (s *Service) ProgramSummariesForPartner(ctx context.Context, partnerID string, opts ...Option) ([]ProgramSummary, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("summary service is not configured")
	}

	var resolved options
	for _, opt := range opts {
		opt(&resolved)
	}

	related := make(map[string]struct{})
	if resolved.includeRelated {
		links, err := s.store.ListPartnerLinksByPartner(ctx, partnerID)
		if err != nil {
			return nil, fmt.Errorf("load partner links: %w", err)
		}
		for _, link := range links {
			if link.Status == domain.LinkStatusInvited || link.Status == domain.LinkStatusAccepted {
				related[link.ProgramID] = struct{}{}
			}
		}
	}

	programs, err := s.store.ListPrograms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load programs: %w", err)
	}

	var summaries []ProgramSummary
	for _, program := range programs {
		if program.PartnerID != partnerID {
			if _, ok := related[program.ID]; !ok {
				continue
			}
		}
		built, err := s.buildSummary(ctx, program, resolved)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *built)
	}
	return summaries, nil
}

func (s *Service) buildSummary(ctx context.Context, program domain.Program, resolved options) (*ProgramSummary, error) {
	out := &ProgramSummary{Program: program}
	out.Host = s.lookupPartner(ctx, program.PartnerID)

	allInstitutions, err := s.store.ListInstitutionsByProgram(ctx, program.ID)
	if err != nil {
		return nil, fmt.Errorf("load institutions: %w", err)
	}
	kept := make(map[string]domain.Institution)
	for _, institution := range allInstitutions {
		if _, excluded := resolved.excluded[institution.ID]; excluded {
			continue
		}
		out.Institutions = append(out.Institutions, institution)
		kept[institution.ID] = institution
	}

	teachers, err := s.store.ListTeachersByProgram(ctx, program.ID)
	if err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}
	for _, teacher := range teachers {
		if _, ok := kept[teacher.InstitutionID]; !ok {
			continue
		}
		out.Teachers = append(out.Teachers, teacher)
	}

	out.Coordinators, err = s.store.ListCoordinatorsByProgram(ctx, program.ID)
	if err != nil {
		return nil, fmt.Errorf("load coordinators: %w", err)
	}
	out.Invitations, err = s.store.ListInvitationsByProgram(ctx, program.ID)
	if err != nil {
		return nil, fmt.Errorf("load invitations: %w", err)
	}

	links, err := s.store.ListPartnerLinksByProgram(ctx, program.ID)
	if err != nil {
		return nil, fmt.Errorf("load partner links: %w", err)
	}
	for _, link := range links {
		out.Partners = append(out.Partners, PartnerEntry{
			Link:    link,
			Partner: s.lookupPartner(ctx, link.PartnerID),
		})
	}

	projects, err := s.store.ListProjectsByProgram(ctx, program.ID)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	for _, project := range projects {
		entry := ProjectEntry{Project: project}
		if template, err := s.store.GetTemplate(ctx, project.TemplateID); err == nil {
			entry.TemplateTitle = template.Title
		}
		if teacher, err := s.store.GetTeacher(ctx, project.CreatedByID); err == nil {
			if institution, ok := kept[teacher.InstitutionID]; ok {
				entry.InstitutionID = institution.ID
				entry.InstitutionName = institution.Name
			}
		}
		out.Projects = append(out.Projects, entry)
	}

	out.Metrics = computeMetrics(out)
	return out, nil
}

// lookupPartner is a best-effort join: any load failure resolves to nil.
func (s *Service) lookupPartner(ctx context.Context, partnerID string) *domain.Partner {
	partner, err := s.store.GetPartner(ctx, partnerID)
	if err != nil {
		return nil
	}
	return &partner
}

func computeMetrics(summary *ProgramSummary) Metrics {
	metrics := Metrics{
		InstitutionCount: len(summary.Institutions),
		TeacherCount:     len(summary.Teachers),
		CoordinatorCount: len(summary.Coordinators),
		ProjectCount:     len(summary.Projects),
	}

	seenCountries := make(map[string]struct{})
	for _, institution := range summary.Institutions {
		metrics.StudentCount += institution.StudentCount
		if institution.Country == "" {
			continue
		}
		if _, ok := seenCountries[institution.Country]; ok {
			continue
		}
		seenCountries[institution.Country] = struct{}{}
		metrics.Countries = append(metrics.Countries, institution.Country)
	}

	for _, invitation := range summary.Invitations {
		if invitation.Status == domain.InvitationStatusPending {
			metrics.PendingInvitations++
		}
	}
	return metrics
}
