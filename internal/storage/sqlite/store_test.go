package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/darajahq/daraja/internal/domain"
	"github.com/darajahq/daraja/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "daraja.db"))
	if err != nil {
		t.Fatalf("open temp store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close temp store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestCreateGetPartnerRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC)
	input := domain.Partner{
		ID:               "partner-1",
		OrganizationName: "Green Schools Alliance",
		Website:          "https://greenschools.example",
		ContactEmail:     "hello@greenschools.example",
		Languages:        []string{"en", "fr"},
		SDGFocus:         []string{"4", "13"},
		Country:          "KE",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := store.CreatePartner(context.Background(), input); err != nil {
		t.Fatalf("create partner: %v", err)
	}

	got, err := store.GetPartner(context.Background(), "partner-1")
	if err != nil {
		t.Fatalf("get partner: %v", err)
	}
	if got.OrganizationName != input.OrganizationName {
		t.Fatalf("organization_name = %q, want %q", got.OrganizationName, input.OrganizationName)
	}
	if len(got.Languages) != 2 || got.Languages[0] != "en" {
		t.Fatalf("languages = %v, want %v", got.Languages, input.Languages)
	}
	if len(got.SDGFocus) != 2 || got.SDGFocus[1] != "13" {
		t.Fatalf("sdg_focus = %v, want %v", got.SDGFocus, input.SDGFocus)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, now)
	}
}

func TestCreatePartnerReturnsAlreadyExistsOnDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 4, 9, 35, 0, 0, time.UTC)
	input := domain.Partner{
		ID:               "partner-dup",
		OrganizationName: "Duplicate Org",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := store.CreatePartner(context.Background(), input); err != nil {
		t.Fatalf("create initial partner: %v", err)
	}
	err := store.CreatePartner(context.Background(), input)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestUpdatePartnerAppliesPartialFields(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	if err := store.CreatePartner(context.Background(), domain.Partner{
		ID:               "partner-upd",
		OrganizationName: "Old Name",
		Website:          "https://old.example",
		Country:          "BR",
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		t.Fatalf("create partner: %v", err)
	}

	name := "New Name"
	got, err := store.UpdatePartner(context.Background(), "partner-upd", storage.PartnerUpdate{
		OrganizationName: &name,
	})
	if err != nil {
		t.Fatalf("update partner: %v", err)
	}
	if got.OrganizationName != "New Name" {
		t.Fatalf("organization_name = %q, want %q", got.OrganizationName, "New Name")
	}
	if got.Website != "https://old.example" {
		t.Fatalf("website = %q, want untouched value", got.Website)
	}
	if got.Country != "BR" {
		t.Fatalf("country = %q, want untouched value", got.Country)
	}
}

func TestUpdatePartnerReturnsNotFoundForMissingRecord(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	name := "Ghost"
	_, err := store.UpdatePartner(context.Background(), "missing", storage.PartnerUpdate{
		OrganizationName: &name,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestDeletePartnerReturnsNotFoundForMissingRecord(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	err := store.DeletePartner(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListPartnersPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 4, 10, 15, 0, 0, time.UTC)
	for i, id := range []string{"partner-c", "partner-a", "partner-b"} {
		if err := store.CreatePartner(context.Background(), domain.Partner{
			ID:               id,
			OrganizationName: fmt.Sprintf("Org %d", i),
			CreatedAt:        now,
			UpdatedAt:        now,
		}); err != nil {
			t.Fatalf("create partner %s: %v", id, err)
		}
	}

	partners, err := store.ListPartners(context.Background())
	if err != nil {
		t.Fatalf("list partners: %v", err)
	}
	if len(partners) != 3 {
		t.Fatalf("partners len = %d, want 3", len(partners))
	}
	if partners[0].ID != "partner-c" || partners[2].ID != "partner-b" {
		t.Fatalf("partner order = [%s %s %s], want insertion order", partners[0].ID, partners[1].ID, partners[2].ID)
	}
}

func TestProgramDatesRoundTripNullable(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)
	if err := store.CreateProgram(context.Background(), domain.Program{
		ID:        "prog-nodates",
		Name:      "Undated Program",
		Status:    domain.ProgramStatusDraft,
		PartnerID: "partner-1",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create program: %v", err)
	}

	got, err := store.GetProgram(context.Background(), "prog-nodates")
	if err != nil {
		t.Fatalf("get program: %v", err)
	}
	if !got.StartDate.IsZero() {
		t.Fatalf("start_date = %v, want zero", got.StartDate)
	}
	if !got.EndDate.IsZero() {
		t.Fatalf("end_date = %v, want zero", got.EndDate)
	}
	if got.Status != domain.ProgramStatusDraft {
		t.Fatalf("status = %v, want draft", got.Status)
	}
}

func TestListProgramsByHostFiltersByPartner(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 5, 8, 30, 0, 0, time.UTC)
	for id, partnerID := range map[string]string{
		"prog-1": "partner-a",
		"prog-2": "partner-b",
	} {
		if err := store.CreateProgram(context.Background(), domain.Program{
			ID:        id,
			Name:      "Program " + id,
			Status:    domain.ProgramStatusActive,
			PartnerID: partnerID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			t.Fatalf("create program %s: %v", id, err)
		}
	}

	programs, err := store.ListProgramsByHost(context.Background(), "partner-a")
	if err != nil {
		t.Fatalf("list programs by host: %v", err)
	}
	if len(programs) != 1 {
		t.Fatalf("programs len = %d, want 1", len(programs))
	}
	if programs[0].ID != "prog-1" {
		t.Fatalf("program id = %q, want prog-1", programs[0].ID)
	}
}

func TestCreatePartnerLinkEnforcesProgramPartnerUniqueness(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 6, 12, 0, 0, 0, time.UTC)
	link := domain.PartnerLink{
		ID:          "link-1",
		ProgramID:   "prog-1",
		PartnerID:   "partner-1",
		Role:        domain.PartnerRoleCoHost,
		Permissions: domain.DefaultPermissionsForRole(domain.PartnerRoleCoHost),
		Status:      domain.LinkStatusInvited,
		InvitedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreatePartnerLink(context.Background(), link); err != nil {
		t.Fatalf("create partner link: %v", err)
	}

	link.ID = "link-2"
	err := store.CreatePartnerLink(context.Background(), link)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate pair create error = %v, want %v", err, storage.ErrAlreadyExists)
	}

	got, err := store.GetPartnerLinkByProgramAndPartner(context.Background(), "prog-1", "partner-1")
	if err != nil {
		t.Fatalf("get link by pair: %v", err)
	}
	if got.ID != "link-1" {
		t.Fatalf("link id = %q, want link-1", got.ID)
	}
	if !got.Permissions.CanInvitePartners {
		t.Fatal("expected co-host link to retain invite permission")
	}
}

func TestUpdatePartnerLinkStampsAcceptance(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 6, 12, 30, 0, 0, time.UTC)
	if err := store.CreatePartnerLink(context.Background(), domain.PartnerLink{
		ID:          "link-acc",
		ProgramID:   "prog-1",
		PartnerID:   "partner-2",
		Role:        domain.PartnerRoleSponsor,
		Permissions: domain.DefaultPermissionsForRole(domain.PartnerRoleSponsor),
		Status:      domain.LinkStatusInvited,
		InvitedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("create partner link: %v", err)
	}

	accepted := domain.LinkStatusAccepted
	acceptedAt := now.Add(time.Hour)
	got, err := store.UpdatePartnerLink(context.Background(), "link-acc", storage.PartnerLinkUpdate{
		Status:     &accepted,
		AcceptedAt: &acceptedAt,
	})
	if err != nil {
		t.Fatalf("update partner link: %v", err)
	}
	if got.Status != domain.LinkStatusAccepted {
		t.Fatalf("status = %v, want accepted", got.Status)
	}
	if got.AcceptedAt == nil || !got.AcceptedAt.Equal(acceptedAt) {
		t.Fatalf("accepted_at = %v, want %v", got.AcceptedAt, acceptedAt)
	}
}

func TestInvitationCoPartnerMetadataRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 7, 14, 0, 0, 0, time.UTC)
	invitation := domain.Invitation{
		ID:             "inv-cp",
		ProgramID:      "prog-1",
		Type:           domain.InvitationTypeCoPartner,
		RecipientEmail: "partner@example.org",
		Token:          "token-cp",
		Status:         domain.InvitationStatusPending,
		SentAt:         now,
		ExpiresAt:      now.Add(domain.DefaultInvitationTTL),
		CoPartner: &domain.CoPartnerMetadata{
			PartnerID:           "partner-9",
			Role:                domain.PartnerRoleAdvisor,
			ProposedPermissions: domain.DefaultPermissionsForRole(domain.PartnerRoleAdvisor),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateInvitation(context.Background(), invitation); err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	got, err := store.GetInvitationByToken(context.Background(), "token-cp")
	if err != nil {
		t.Fatalf("get invitation by token: %v", err)
	}
	if got.ID != "inv-cp" {
		t.Fatalf("invitation id = %q, want inv-cp", got.ID)
	}
	if got.Coordinator != nil {
		t.Fatal("expected coordinator metadata to stay nil")
	}
	if got.CoPartner == nil {
		t.Fatal("expected co-partner metadata")
	}
	if got.CoPartner.PartnerID != "partner-9" {
		t.Fatalf("partner_id = %q, want partner-9", got.CoPartner.PartnerID)
	}
	if got.CoPartner.Role != domain.PartnerRoleAdvisor {
		t.Fatalf("role = %v, want advisor", got.CoPartner.Role)
	}
	if got.CoPartner.ProposedPermissions.CanEditProgram {
		t.Fatal("expected advisor permissions to exclude program edits")
	}
	if !got.CoPartner.ProposedPermissions.CanViewReports {
		t.Fatal("expected advisor permissions to include report access")
	}
}

func TestInvitationCoordinatorMetadataRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 7, 14, 30, 0, 0, time.UTC)
	invitation := domain.Invitation{
		ID:             "inv-co",
		ProgramID:      "prog-1",
		Type:           domain.InvitationTypeCoordinator,
		RecipientEmail: "coordinator@example.org",
		Token:          "token-co",
		Status:         domain.InvitationStatusPending,
		SentAt:         now,
		ExpiresAt:      now.Add(domain.DefaultInvitationTTL),
		Coordinator: &domain.CoordinatorMetadata{
			CoordinatorID: "coord-3",
			Country:       "TZ",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateInvitation(context.Background(), invitation); err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	got, err := store.GetInvitation(context.Background(), "inv-co")
	if err != nil {
		t.Fatalf("get invitation: %v", err)
	}
	if got.CoPartner != nil {
		t.Fatal("expected co-partner metadata to stay nil")
	}
	if got.Coordinator == nil {
		t.Fatal("expected coordinator metadata")
	}
	if got.Coordinator.CoordinatorID != "coord-3" {
		t.Fatalf("coordinator_id = %q, want coord-3", got.Coordinator.CoordinatorID)
	}
	if got.Coordinator.Country != "TZ" {
		t.Fatalf("country = %q, want TZ", got.Coordinator.Country)
	}
}

func TestCreateInvitationEnforcesTokenUniqueness(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)
	base := domain.Invitation{
		ProgramID:      "prog-1",
		Type:           domain.InvitationTypeCoordinator,
		RecipientEmail: "one@example.org",
		Token:          "shared-token",
		Status:         domain.InvitationStatusPending,
		SentAt:         now,
		ExpiresAt:      now.Add(domain.DefaultInvitationTTL),
		Coordinator:    &domain.CoordinatorMetadata{CoordinatorID: "coord-1", Country: "KE"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	first := base
	first.ID = "inv-1"
	if err := store.CreateInvitation(context.Background(), first); err != nil {
		t.Fatalf("create first invitation: %v", err)
	}

	second := base
	second.ID = "inv-2"
	err := store.CreateInvitation(context.Background(), second)
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate token create error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestUpdateInvitationStampsResponse(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 7, 16, 0, 0, 0, time.UTC)
	if err := store.CreateInvitation(context.Background(), domain.Invitation{
		ID:             "inv-resp",
		ProgramID:      "prog-1",
		Type:           domain.InvitationTypeCoordinator,
		RecipientEmail: "resp@example.org",
		Token:          "token-resp",
		Status:         domain.InvitationStatusPending,
		SentAt:         now,
		ExpiresAt:      now.Add(domain.DefaultInvitationTTL),
		Coordinator:    &domain.CoordinatorMetadata{CoordinatorID: "coord-2", Country: "UG"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	accepted := domain.InvitationStatusAccepted
	respondedAt := now.Add(2 * time.Hour)
	got, err := store.UpdateInvitation(context.Background(), "inv-resp", storage.InvitationUpdate{
		Status:      &accepted,
		RespondedAt: &respondedAt,
	})
	if err != nil {
		t.Fatalf("update invitation: %v", err)
	}
	if got.Status != domain.InvitationStatusAccepted {
		t.Fatalf("status = %v, want accepted", got.Status)
	}
	if got.RespondedAt == nil || !got.RespondedAt.Equal(respondedAt) {
		t.Fatalf("responded_at = %v, want %v", got.RespondedAt, respondedAt)
	}
	if got.ViewedAt != nil {
		t.Fatalf("viewed_at = %v, want nil", got.ViewedAt)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 8, 9, 0, 0, 0, time.UTC)
	wantErr := errors.New("boom")
	err := store.InTx(context.Background(), func(tx storage.Store) error {
		if err := tx.CreatePartner(context.Background(), domain.Partner{
			ID:               "partner-tx",
			OrganizationName: "Rollback Org",
			CreatedAt:        now,
			UpdatedAt:        now,
		}); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("tx error = %v, want %v", err, wantErr)
	}

	_, err = store.GetPartner(context.Background(), "partner-tx")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get after rollback error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestInTxCommitsRelatedWrites(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 8, 9, 30, 0, 0, time.UTC)
	err := store.InTx(context.Background(), func(tx storage.Store) error {
		if err := tx.CreateProgram(context.Background(), domain.Program{
			ID:        "prog-tx",
			Name:      "Atomic Program",
			Status:    domain.ProgramStatusActive,
			PartnerID: "partner-1",
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		return tx.CreatePartnerLink(context.Background(), domain.PartnerLink{
			ID:          "link-tx",
			ProgramID:   "prog-tx",
			PartnerID:   "partner-1",
			Role:        domain.PartnerRoleHost,
			Permissions: domain.DefaultPermissionsForRole(domain.PartnerRoleHost),
			Status:      domain.LinkStatusAccepted,
			InvitedAt:   now,
			AcceptedAt:  &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		t.Fatalf("tx commit: %v", err)
	}

	if _, err := store.GetProgram(context.Background(), "prog-tx"); err != nil {
		t.Fatalf("get program after commit: %v", err)
	}
	link, err := store.GetPartnerLinkByProgramAndPartner(context.Background(), "prog-tx", "partner-1")
	if err != nil {
		t.Fatalf("get link after commit: %v", err)
	}
	if link.Status != domain.LinkStatusAccepted {
		t.Fatalf("link status = %v, want accepted", link.Status)
	}
}

func TestProjectAndTemplateRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 8, 10, 0, 0, 0, time.UTC)
	if err := store.CreateTemplate(context.Background(), domain.Template{
		ID:        "tpl-1",
		Title:     "Water Quality Study",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("create template: %v", err)
	}
	if err := store.CreateProject(context.Background(), domain.Project{
		ID:          "proj-1",
		Title:       "River Sampling",
		ProgramID:   "prog-1",
		CreatedByID: "teacher-1",
		TemplateID:  "tpl-1",
		Status:      domain.ProjectStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}

	projects, err := store.ListProjectsByProgram(context.Background(), "prog-1")
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects len = %d, want 1", len(projects))
	}
	if projects[0].TemplateID != "tpl-1" {
		t.Fatalf("template_id = %q, want tpl-1", projects[0].TemplateID)
	}

	completed := domain.ProjectStatusCompleted
	got, err := store.UpdateProject(context.Background(), "proj-1", storage.ProjectUpdate{Status: &completed})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if got.Status != domain.ProjectStatusCompleted {
		t.Fatalf("project status = %v, want completed", got.Status)
	}

	template, err := store.GetTemplate(context.Background(), "tpl-1")
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	if template.Title != "Water Quality Study" {
		t.Fatalf("template title = %q, want Water Quality Study", template.Title)
	}
}

func TestInstitutionCountsRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.March, 8, 11, 0, 0, 0, time.UTC)
	if err := store.CreateInstitution(context.Background(), domain.Institution{
		ID:           "inst-1",
		Name:         "Mwanza Secondary",
		Country:      "TZ",
		City:         "Mwanza",
		StudentCount: 420,
		TeacherCount: 18,
		Status:       domain.InstitutionStatusActive,
		ProgramID:    "prog-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("create institution: %v", err)
	}

	got, err := store.GetInstitution(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("get institution: %v", err)
	}
	if got.StudentCount != 420 {
		t.Fatalf("student_count = %d, want 420", got.StudentCount)
	}
	if got.TeacherCount != 18 {
		t.Fatalf("teacher_count = %d, want 18", got.TeacherCount)
	}
	if got.Status != domain.InstitutionStatusActive {
		t.Fatalf("status = %v, want active", got.Status)
	}
}
