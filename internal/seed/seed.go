// Package seed builds a demo dataset through the real services so local
// databases exercise the same code paths production writes go through.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/darajahq/daraja/internal/domain"
	"github.com/darajahq/daraja/internal/invite"
	"github.com/darajahq/daraja/internal/storage/sqlite"
)

// Config controls seeding.
type Config struct {
	DBPath  string
	Verbose bool
}

// DefaultConfig returns the default seed configuration.
func DefaultConfig() Config {
	return Config{DBPath: "daraja.db"}
}

// Result reports what was seeded, for CLI output.
type Result struct {
	HostPartnerID string
	Partners      int
	Programs      int
	Institutions  int
	Teachers      int
	Coordinators  int
	Invitations   int
	Projects      int
}

type partnerFixture struct {
	name      string
	website   string
	email     string
	country   string
	languages []string
	sdgFocus  []string
}

type institutionFixture struct {
	name     string
	country  string
	city     string
	students int
	teachers []teacherFixture
	projects []projectFixture
}

type teacherFixture struct {
	firstName string
	lastName  string
	subject   string
}

type projectFixture struct {
	title     string
	completed bool
}

// Run seeds the database at cfg.DBPath. Seeding is additive; it does not
// wipe existing rows.
func Run(ctx context.Context, cfg Config) (Result, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return Result{}, fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	signer, err := invite.NewEphemeralSigner("daraja-seed", "daraja-invites", nil)
	if err != nil {
		return Result{}, fmt.Errorf("create signer: %w", err)
	}
	service, err := invite.NewService(store, signer, nil, nil)
	if err != nil {
		return Result{}, fmt.Errorf("create invite service: %w", err)
	}

	seeder := &seeder{ctx: ctx, store: store, service: service, verbose: cfg.Verbose}
	return seeder.run()
}

type seeder struct {
	ctx     context.Context
	store   *sqlite.Store
	service *invite.Service
	verbose bool
	result  Result
}

func (s *seeder) logf(format string, args ...any) {
	if s.verbose {
		log.Printf(format, args...)
	}
}

func (s *seeder) run() (Result, error) {
	partners := []partnerFixture{
		{name: "Daraja Foundation", website: "https://daraja.example", email: "hello@daraja.example", country: "KE", languages: []string{"en", "sw"}, sdgFocus: []string{"4", "6"}},
		{name: "Nordic Education Trust", website: "https://net.example", email: "contact@net.example", country: "DK", languages: []string{"en", "da"}, sdgFocus: []string{"4"}},
		{name: "Amazonia Learning Collective", website: "https://alc.example", email: "oi@alc.example", country: "BR", languages: []string{"pt", "en"}, sdgFocus: []string{"4", "13"}},
	}
	partnerIDs := make([]string, 0, len(partners))
	for _, fixture := range partners {
		partner, err := domain.CreatePartner(domain.CreatePartnerInput{
			OrganizationName: fixture.name,
			Website:          fixture.website,
			ContactEmail:     fixture.email,
			Languages:        fixture.languages,
			SDGFocus:         fixture.sdgFocus,
			Country:          fixture.country,
		}, nil, nil)
		if err != nil {
			return Result{}, fmt.Errorf("build partner %s: %w", fixture.name, err)
		}
		if err := s.store.CreatePartner(s.ctx, partner); err != nil {
			return Result{}, fmt.Errorf("seed partner %s: %w", fixture.name, err)
		}
		s.logf("seeded partner %s (%s)", partner.OrganizationName, partner.ID)
		partnerIDs = append(partnerIDs, partner.ID)
		s.result.Partners++
	}
	host := partnerIDs[0]
	s.result.HostPartnerID = host

	templateID, err := s.seedTemplate("Water Quality Study")
	if err != nil {
		return Result{}, err
	}

	waterProgram, err := s.seedProgram("Clean Water Schools", host, "KE", "TZ")
	if err != nil {
		return Result{}, err
	}
	if err := s.seedInstitutions(waterProgram, templateID, []institutionFixture{
		{
			name: "Mwanza Secondary", country: "TZ", city: "Mwanza", students: 420,
			teachers: []teacherFixture{{"Neema", "Joseph", "Science"}, {"Baraka", "Mushi", "Geography"}},
			projects: []projectFixture{{title: "River Sampling", completed: true}, {title: "Rainwater Harvesting"}},
		},
		{
			name: "Kisumu Day School", country: "KE", city: "Kisumu", students: 310,
			teachers: []teacherFixture{{"Achieng", "Odhiambo", "Biology"}},
			projects: []projectFixture{{title: "Lake Health Survey"}},
		},
		{
			name: "Arusha Hills Academy", country: "TZ", city: "Arusha", students: 180,
		},
	}); err != nil {
		return Result{}, err
	}

	climateProgram, err := s.seedProgram("Climate Classrooms", host, "KE", "UG")
	if err != nil {
		return Result{}, err
	}
	if err := s.seedInstitutions(climateProgram, templateID, []institutionFixture{
		{
			name: "Kisumu Day School", country: "KE", city: "Kisumu", students: 325,
			teachers: []teacherFixture{{"Wanjiru", "Kamau", "Chemistry"}},
			projects: []projectFixture{{title: "School Garden", completed: true}},
		},
		{
			name: "Kampala Green School", country: "UG", city: "Kampala", students: 250,
			teachers: []teacherFixture{{"Moses", "Okiror", "Physics"}},
		},
	}); err != nil {
		return Result{}, err
	}

	if err := s.seedInvitations(waterProgram, climateProgram, partnerIDs); err != nil {
		return Result{}, err
	}
	return s.result, nil
}

func (s *seeder) seedTemplate(title string) (string, error) {
	now := time.Now().UTC()
	templateID, err := domain.NewID()
	if err != nil {
		return "", fmt.Errorf("generate template id: %w", err)
	}
	if err := s.store.CreateTemplate(s.ctx, domain.Template{
		ID:        templateID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return "", fmt.Errorf("seed template: %w", err)
	}
	return templateID, nil
}

func (s *seeder) seedProgram(name, hostPartnerID string, countries ...string) (string, error) {
	program, err := s.service.NewProgram(s.ctx, invite.NewProgramInput{
		Name:             name,
		Description:      name + " demo program",
		Status:           domain.ProgramStatusActive,
		CountriesInScope: countries,
		SDGFocus:         []string{"4"},
		PartnerID:        hostPartnerID,
	})
	if err != nil {
		return "", fmt.Errorf("seed program %s: %w", name, err)
	}
	s.logf("seeded program %s (%s)", program.Name, program.ID)
	s.result.Programs++
	return program.ID, nil
}

func (s *seeder) seedInstitutions(programID, templateID string, fixtures []institutionFixture) error {
	for _, fixture := range fixtures {
		institution, err := domain.CreateInstitution(domain.CreateInstitutionInput{
			Name:         fixture.name,
			Country:      fixture.country,
			City:         fixture.city,
			StudentCount: fixture.students,
			TeacherCount: len(fixture.teachers),
			Status:       domain.InstitutionStatusActive,
			ProgramID:    programID,
		}, nil, nil)
		if err != nil {
			return fmt.Errorf("build institution %s: %w", fixture.name, err)
		}
		if err := s.store.CreateInstitution(s.ctx, institution); err != nil {
			return fmt.Errorf("seed institution %s: %w", fixture.name, err)
		}
		s.result.Institutions++

		var teacherIDs []string
		for _, tf := range fixture.teachers {
			teacher, err := domain.CreateTeacher(domain.CreateTeacherInput{
				FirstName:     tf.firstName,
				LastName:      tf.lastName,
				Subject:       tf.subject,
				InstitutionID: institution.ID,
				ProgramID:     programID,
			}, nil, nil)
			if err != nil {
				return fmt.Errorf("build teacher %s %s: %w", tf.firstName, tf.lastName, err)
			}
			if err := s.store.CreateTeacher(s.ctx, teacher); err != nil {
				return fmt.Errorf("seed teacher %s %s: %w", tf.firstName, tf.lastName, err)
			}
			teacherIDs = append(teacherIDs, teacher.ID)
			s.result.Teachers++
		}

		for i, pf := range fixture.projects {
			if len(teacherIDs) == 0 {
				break
			}
			status := domain.ProjectStatusActive
			if pf.completed {
				status = domain.ProjectStatusCompleted
			}
			project, err := domain.CreateProject(domain.CreateProjectInput{
				Title:       pf.title,
				ProgramID:   programID,
				CreatedByID: teacherIDs[i%len(teacherIDs)],
				TemplateID:  templateID,
				Status:      status,
			}, nil, nil)
			if err != nil {
				return fmt.Errorf("build project %s: %w", pf.title, err)
			}
			if err := s.store.CreateProject(s.ctx, project); err != nil {
				return fmt.Errorf("seed project %s: %w", pf.title, err)
			}
			s.result.Projects++
		}
	}
	return nil
}

// seedInvitations leaves invitations in several states so dashboards have
// pending, accepted and declined rows to render.
func (s *seeder) seedInvitations(waterProgram, climateProgram string, partnerIDs []string) error {
	accepted, err := s.service.InviteCoPartner(s.ctx, invite.InviteCoPartnerInput{
		ProgramID:      waterProgram,
		PartnerID:      partnerIDs[1],
		RecipientEmail: "contact@net.example",
		Role:           domain.PartnerRoleCoHost,
	})
	if err != nil {
		return fmt.Errorf("seed co-host invitation: %w", err)
	}
	s.result.Invitations++
	if _, err := s.service.Accept(s.ctx, accepted.Invitation.ID); err != nil {
		return fmt.Errorf("accept co-host invitation: %w", err)
	}

	if _, err := s.service.InviteCoPartner(s.ctx, invite.InviteCoPartnerInput{
		ProgramID:      climateProgram,
		PartnerID:      partnerIDs[2],
		RecipientEmail: "oi@alc.example",
		Role:           domain.PartnerRoleSponsor,
	}); err != nil {
		return fmt.Errorf("seed sponsor invitation: %w", err)
	}
	s.result.Invitations++

	active, err := s.service.InviteCoordinator(s.ctx, invite.InviteCoordinatorInput{
		ProgramID:      waterProgram,
		FirstName:      "Amina",
		LastName:       "Okello",
		RecipientEmail: "amina@daraja.example",
		Country:        "KE",
		Region:         "Nyanza",
	})
	if err != nil {
		return fmt.Errorf("seed coordinator invitation: %w", err)
	}
	s.result.Invitations++
	s.result.Coordinators++
	if _, err := s.service.Accept(s.ctx, active.Invitation.ID); err != nil {
		return fmt.Errorf("accept coordinator invitation: %w", err)
	}

	declined, err := s.service.InviteCoordinator(s.ctx, invite.InviteCoordinatorInput{
		ProgramID:      climateProgram,
		FirstName:      "Peter",
		LastName:       "Ssemwanga",
		RecipientEmail: "peter@daraja.example",
		Country:        "UG",
	})
	if err != nil {
		return fmt.Errorf("seed declined coordinator invitation: %w", err)
	}
	s.result.Invitations++
	s.result.Coordinators++
	if _, err := s.service.Decline(s.ctx, declined.Invitation.ID); err != nil {
		return fmt.Errorf("decline coordinator invitation: %w", err)
	}
	return nil
}
