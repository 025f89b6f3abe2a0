package summary

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/darajahq/daraja/internal/domain"
	"github.com/darajahq/daraja/internal/session"
	"github.com/darajahq/daraja/internal/storage/sqlite"
)

var testNow = time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)

func openTempStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "daraja.db"))
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

func seedProgram(t *testing.T, store *sqlite.Store, id, partnerID string) {
	t.Helper()
	if err := store.CreateProgram(context.Background(), domain.Program{
		ID:        id,
		Name:      "Program " + id,
		Status:    domain.ProgramStatusActive,
		PartnerID: partnerID,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}); err != nil {
		t.Fatalf("seed program %s: %v", id, err)
	}
}

func seedInstitution(t *testing.T, store *sqlite.Store, id, programID, name, country string, students int) {
	t.Helper()
	if err := store.CreateInstitution(context.Background(), domain.Institution{
		ID:           id,
		Name:         name,
		Country:      country,
		StudentCount: students,
		Status:       domain.InstitutionStatusActive,
		ProgramID:    programID,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}); err != nil {
		t.Fatalf("seed institution %s: %v", id, err)
	}
}

func seedTeacher(t *testing.T, store *sqlite.Store, id, programID, institutionID string) {
	t.Helper()
	if err := store.CreateTeacher(context.Background(), domain.Teacher{
		ID:            id,
		FirstName:     "Teacher",
		LastName:      id,
		InstitutionID: institutionID,
		ProgramID:     programID,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}); err != nil {
		t.Fatalf("seed teacher %s: %v", id, err)
	}
}

func TestFindProgramSummaryReturnsNilForMissingProgram(t *testing.T) {
	t.Parallel()

	service := NewService(openTempStore(t))
	got, err := service.FindProgramSummaryByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("find summary: %v", err)
	}
	if got != nil {
		t.Fatalf("summary = %+v, want nil", got)
	}
}

func TestFindProgramSummaryBasicMetrics(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-a", "partner-x")
	seedInstitution(t, store, "inst-1", "prog-a", "Lakeside Primary", "DK", 100)
	seedTeacher(t, store, "teach-1", "prog-a", "inst-1")

	service := NewService(store)
	got, err := service.FindProgramSummaryByID(context.Background(), "prog-a")
	if err != nil {
		t.Fatalf("find summary: %v", err)
	}
	if got == nil {
		t.Fatal("expected summary")
	}
	if got.Metrics.InstitutionCount != 1 {
		t.Fatalf("institution count = %d, want 1", got.Metrics.InstitutionCount)
	}
	if got.Metrics.StudentCount != 100 {
		t.Fatalf("student count = %d, want 100", got.Metrics.StudentCount)
	}
	if got.Metrics.TeacherCount != 1 {
		t.Fatalf("teacher count = %d, want 1", got.Metrics.TeacherCount)
	}
	if len(got.Metrics.Countries) != 1 || got.Metrics.Countries[0] != "DK" {
		t.Fatalf("countries = %v, want [DK]", got.Metrics.Countries)
	}
}

func TestFindProgramSummaryIsolatesPrograms(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-a", "partner-x")
	seedProgram(t, store, "prog-b", "partner-x")
	seedInstitution(t, store, "inst-a", "prog-a", "School A", "KE", 200)
	seedInstitution(t, store, "inst-b", "prog-b", "School B", "KE", 300)
	seedTeacher(t, store, "teach-a", "prog-a", "inst-a")
	seedTeacher(t, store, "teach-b", "prog-b", "inst-b")

	service := NewService(store)
	got, err := service.FindProgramSummaryByID(context.Background(), "prog-a")
	if err != nil {
		t.Fatalf("find summary: %v", err)
	}
	if len(got.Institutions) != 1 || got.Institutions[0].ID != "inst-a" {
		t.Fatalf("institutions = %+v, want only inst-a", got.Institutions)
	}
	if len(got.Teachers) != 1 || got.Teachers[0].ID != "teach-a" {
		t.Fatalf("teachers = %+v, want only teach-a", got.Teachers)
	}
}

func TestFindProgramSummaryExclusionRemovesContribution(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-a", "partner-x")
	seedInstitution(t, store, "inst-1", "prog-a", "Kept School", "KE", 100)
	seedInstitution(t, store, "inst-2", "prog-a", "Dropped School", "UG", 500)
	seedTeacher(t, store, "teach-1", "prog-a", "inst-1")
	seedTeacher(t, store, "teach-2", "prog-a", "inst-2")

	service := NewService(store)
	got, err := service.FindProgramSummaryByID(context.Background(), "prog-a",
		WithExcludedInstitutions("inst-2"))
	if err != nil {
		t.Fatalf("find summary: %v", err)
	}
	if got.Metrics.InstitutionCount != 1 {
		t.Fatalf("institution count = %d, want 1", got.Metrics.InstitutionCount)
	}
	if got.Metrics.StudentCount != 100 {
		t.Fatalf("student count = %d, want 100", got.Metrics.StudentCount)
	}
	if got.Metrics.TeacherCount != 1 {
		t.Fatalf("teacher count = %d, want 1", got.Metrics.TeacherCount)
	}
	if len(got.Metrics.Countries) != 1 || got.Metrics.Countries[0] != "KE" {
		t.Fatalf("countries = %v, want [KE]", got.Metrics.Countries)
	}
}

func TestFindProgramSummarySkipsTeachersWithDanglingInstitution(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-a", "partner-x")
	seedInstitution(t, store, "inst-1", "prog-a", "Real School", "KE", 50)
	seedTeacher(t, store, "teach-1", "prog-a", "inst-1")
	seedTeacher(t, store, "teach-dangling", "prog-a", "inst-gone")

	service := NewService(store)
	got, err := service.FindProgramSummaryByID(context.Background(), "prog-a")
	if err != nil {
		t.Fatalf("find summary: %v", err)
	}
	if got.Metrics.TeacherCount != 1 {
		t.Fatalf("teacher count = %d, want 1", got.Metrics.TeacherCount)
	}
}

func TestFindProgramSummaryLeavesMissingPartnerNil(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-a", "partner-gone")
	if err := store.CreatePartnerLink(context.Background(), domain.PartnerLink{
		ID:        "link-1",
		ProgramID: "prog-a",
		PartnerID: "partner-gone",
		Role:      domain.PartnerRoleHost,
		Status:    domain.LinkStatusAccepted,
		InvitedAt: testNow,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	service := NewService(store)
	got, err := service.FindProgramSummaryByID(context.Background(), "prog-a")
	if err != nil {
		t.Fatalf("find summary: %v", err)
	}
	if got.Host != nil {
		t.Fatalf("host = %+v, want nil", got.Host)
	}
	if len(got.Partners) != 1 {
		t.Fatalf("partner entries = %d, want 1", len(got.Partners))
	}
	if got.Partners[0].Partner != nil {
		t.Fatalf("partner join = %+v, want nil", got.Partners[0].Partner)
	}
}

func TestProgramSummariesForPartnerCoversHostedPrograms(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-a", "partner-x")
	seedProgram(t, store, "prog-b", "partner-y")
	seedProgram(t, store, "prog-c", "partner-x")

	service := NewService(store)
	got, err := service.ProgramSummariesForPartner(context.Background(), "partner-x")
	if err != nil {
		t.Fatalf("summaries for partner: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("summaries len = %d, want 2", len(got))
	}
	if got[0].Program.ID != "prog-a" || got[1].Program.ID != "prog-c" {
		t.Fatalf("program order = [%s %s], want insertion order", got[0].Program.ID, got[1].Program.ID)
	}
}

func TestProgramSummariesForPartnerIncludesRelatedPrograms(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-host", "partner-x")
	seedProgram(t, store, "prog-invited", "partner-y")
	seedProgram(t, store, "prog-declined", "partner-y")
	for _, link := range []domain.PartnerLink{
		{ID: "link-inv", ProgramID: "prog-invited", PartnerID: "partner-x", Role: domain.PartnerRoleSponsor, Status: domain.LinkStatusInvited},
		{ID: "link-dec", ProgramID: "prog-declined", PartnerID: "partner-x", Role: domain.PartnerRoleSponsor, Status: domain.LinkStatusDeclined},
	} {
		link.InvitedAt = testNow
		link.CreatedAt = testNow
		link.UpdatedAt = testNow
		if err := store.CreatePartnerLink(context.Background(), link); err != nil {
			t.Fatalf("seed link %s: %v", link.ID, err)
		}
	}

	service := NewService(store)

	hostedOnly, err := service.ProgramSummariesForPartner(context.Background(), "partner-x")
	if err != nil {
		t.Fatalf("summaries without related: %v", err)
	}
	if len(hostedOnly) != 1 || hostedOnly[0].Program.ID != "prog-host" {
		t.Fatalf("hosted summaries = %d, want only prog-host", len(hostedOnly))
	}

	withRelated, err := service.ProgramSummariesForPartner(context.Background(), "partner-x",
		IncludeRelatedPrograms())
	if err != nil {
		t.Fatalf("summaries with related: %v", err)
	}
	if len(withRelated) != 2 {
		t.Fatalf("related summaries len = %d, want 2", len(withRelated))
	}
	if withRelated[1].Program.ID != "prog-invited" {
		t.Fatalf("second summary = %s, want prog-invited", withRelated[1].Program.ID)
	}
}

func TestFindProgramSummaryCountsPendingInvitations(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-a", "partner-x")
	statuses := []domain.InvitationStatus{
		domain.InvitationStatusPending,
		domain.InvitationStatusPending,
		domain.InvitationStatusAccepted,
	}
	for i, status := range statuses {
		if err := store.CreateInvitation(context.Background(), domain.Invitation{
			ID:             "inv-" + string(rune('a'+i)),
			ProgramID:      "prog-a",
			Type:           domain.InvitationTypeCoordinator,
			RecipientEmail: "x@example.org",
			Token:          "token-" + string(rune('a'+i)),
			Status:         status,
			SentAt:         testNow,
			ExpiresAt:      testNow.Add(domain.DefaultInvitationTTL),
			Coordinator:    &domain.CoordinatorMetadata{CoordinatorID: "coord-1", Country: "KE"},
			CreatedAt:      testNow,
			UpdatedAt:      testNow,
		}); err != nil {
			t.Fatalf("seed invitation %d: %v", i, err)
		}
	}

	service := NewService(store)
	got, err := service.FindProgramSummaryByID(context.Background(), "prog-a")
	if err != nil {
		t.Fatalf("find summary: %v", err)
	}
	if got.Metrics.PendingInvitations != 2 {
		t.Fatalf("pending invitations = %d, want 2", got.Metrics.PendingInvitations)
	}
}

func TestProgramSummariesForCaller(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	seedProgram(t, store, "prog-a", "partner-x")
	seedProgram(t, store, "prog-b", "partner-y")

	service := NewService(store)

	if _, err := service.ProgramSummariesForCaller(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession without a descriptor, got %v", err)
	}

	ctx := session.WithDescriptor(context.Background(), session.Descriptor{
		Role:         "partner_admin",
		Organization: "partner-x",
	})
	got, err := service.ProgramSummariesForCaller(ctx)
	if err != nil {
		t.Fatalf("summaries for caller: %v", err)
	}
	if len(got) != 1 || got[0].Program.ID != "prog-a" {
		t.Fatalf("summaries = %+v, want only prog-a", got)
	}
}
