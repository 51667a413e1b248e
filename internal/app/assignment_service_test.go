package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/floor/internal/apperr"
)

type assignmentFixture struct {
	service      *AssignmentServiceImpl
	assignments  *mockAssignmentRepository
	applications *mockApplicationRepository
	workstations *mockWorkstationRepository
}

func newAssignmentFixture() *assignmentFixture {
	f := &assignmentFixture{
		assignments:  newMockAssignmentRepository(),
		applications: newMockApplicationRepository("APP-001", "APP-002", "APP-003"),
		workstations: newMockWorkstationRepository("POSTE-001", "POSTE-002", "POSTE-003"),
	}
	f.service = NewAssignmentService(f.assignments, f.applications, f.workstations, &mockTransactor{},
		WithClock(fixedClock("2024-03-01T10:00:00Z")))
	return f
}

func TestAssignApplication(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	a, err := f.service.AssignApplication(ctx, "APP-001", "POSTE-001")
	if err != nil {
		t.Fatalf("AssignApplication failed: %v", err)
	}
	if !a.Active || a.EndedAt != nil {
		t.Errorf("new assignment should be active and open: %+v", a)
	}
	if f.workstations.state("POSTE-001") != "CONFIGURED" {
		t.Errorf("workstation state = %s, want CONFIGURED", f.workstations.state("POSTE-001"))
	}

	affected, err := f.service.IsApplicationAffected(ctx, "APP-001")
	if err != nil || !affected {
		t.Errorf("IsApplicationAffected = %v, %v", affected, err)
	}
	configured, err := f.service.IsPosteConfigured(ctx, "POSTE-001")
	if err != nil || !configured {
		t.Errorf("IsPosteConfigured = %v, %v", configured, err)
	}
}

func TestAssignApplication_Conflicts(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	if _, err := f.service.AssignApplication(ctx, "APP-001", "POSTE-001"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		applicationID string
		workstationID string
		wantKind      apperr.Kind
		wantMessage   string
	}{
		{
			name:          "application already bound",
			applicationID: "APP-001", workstationID: "POSTE-002",
			wantKind:    apperr.KindAssignmentConflict,
			wantMessage: "application APP-001 is already assigned to workstation POSTE-001",
		},
		{
			name:          "workstation already configured",
			applicationID: "APP-002", workstationID: "POSTE-001",
			wantKind:    apperr.KindAssignmentConflict,
			wantMessage: "workstation POSTE-001 is already configured with application APP-001",
		},
		{
			name:          "unknown application",
			applicationID: "APP-404", workstationID: "POSTE-002",
			wantKind: apperr.KindNotFound,
		},
		{
			name:          "unknown workstation",
			applicationID: "APP-002", workstationID: "POSTE-404",
			wantKind: apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.AssignApplication(ctx, tt.applicationID, tt.workstationID)
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("expected %s, got %v", tt.wantKind, err)
			}
			if tt.wantMessage != "" && err.Error() != tt.wantMessage {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMessage)
			}
		})
	}

	if len(f.assignments.rows) != 1 {
		t.Errorf("rejected assignments must not add rows, got %d", len(f.assignments.rows))
	}
}

func TestUnassignApplication(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	if _, err := f.service.AssignApplication(ctx, "APP-001", "POSTE-001"); err != nil {
		t.Fatal(err)
	}

	ended, err := f.service.UnassignApplication(ctx, "APP-001")
	if err != nil {
		t.Fatalf("UnassignApplication failed: %v", err)
	}
	if ended.Active || ended.EndedAt == nil {
		t.Errorf("ended assignment = %+v", ended)
	}
	if f.workstations.state("POSTE-001") != "NOT_CONFIGURED" {
		t.Errorf("workstation state = %s, want NOT_CONFIGURED", f.workstations.state("POSTE-001"))
	}

	current, err := f.service.GetActiveAssignmentForApplication(ctx, "APP-001")
	if err != nil || current != nil {
		t.Errorf("GetActiveAssignmentForApplication = %+v, %v; want nil", current, err)
	}

	_, err = f.service.UnassignApplication(ctx, "APP-001")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("second unassign: expected not found, got %v", err)
	}

	// Freed on both sides
	if _, err := f.service.AssignApplication(ctx, "APP-002", "POSTE-001"); err != nil {
		t.Errorf("workstation should accept a new application: %v", err)
	}
	if _, err := f.service.AssignApplication(ctx, "APP-001", "POSTE-002"); err != nil {
		t.Errorf("application should accept a new workstation: %v", err)
	}
}

func TestAssignmentHistory(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	steps := []func() error{
		func() error { _, err := f.service.AssignApplication(ctx, "APP-001", "POSTE-001"); return err },
		func() error { _, err := f.service.UnassignApplication(ctx, "APP-001"); return err },
		func() error { _, err := f.service.AssignApplication(ctx, "APP-001", "POSTE-002"); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	history, err := f.service.GetHistoryForApplication(ctx, "APP-001")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].WorkstationID != "POSTE-002" || !history[0].Active {
		t.Errorf("newest entry = %+v", history[0])
	}
	if history[1].WorkstationID != "POSTE-001" || history[1].Active || history[1].EndedAt == nil {
		t.Errorf("oldest entry = %+v", history[1])
	}

	posteHistory, err := f.service.GetHistoryForPoste(ctx, "POSTE-001")
	if err != nil || len(posteHistory) != 1 {
		t.Errorf("GetHistoryForPoste = %d entries, %v", len(posteHistory), err)
	}
}

func TestAssignment_AtMostOneActive(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()

	apps := []string{"APP-001", "APP-002", "APP-003"}
	stations := []string{"POSTE-001", "POSTE-002", "POSTE-003"}
	for i := 0; i < 30; i++ {
		app := apps[i%len(apps)]
		station := stations[(i*2)%len(stations)]
		if i%4 == 3 {
			_, _ = f.service.UnassignApplication(ctx, app)
		} else {
			_, _ = f.service.AssignApplication(ctx, app, station)
		}

		perApp := map[string]int{}
		perStation := map[string]int{}
		for _, r := range f.assignments.rows {
			if r.Active {
				perApp[r.ApplicationID]++
				perStation[r.WorkstationID]++
			}
		}
		for id, n := range perApp {
			if n > 1 {
				t.Fatalf("step %d: application %s has %d active assignments", i, id, n)
			}
		}
		for _, id := range stations {
			want := "NOT_CONFIGURED"
			if perStation[id] > 1 {
				t.Fatalf("step %d: workstation %s has %d active assignments", i, id, perStation[id])
			} else if perStation[id] == 1 {
				want = "CONFIGURED"
			}
			if got := f.workstations.state(id); got != want {
				t.Fatalf("step %d: workstation %s state = %s, want %s", i, id, got, want)
			}
		}
	}
}

func TestActiveLookups_PreferNewestDuplicate(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	f.assignments.stage("AFF-001", "POSTE-001", "APP-001", base)
	f.assignments.stage("AFF-002", "POSTE-002", "APP-001", base.Add(time.Hour))
	f.assignments.stage("AFF-003", "POSTE-003", "APP-001", base)

	current, err := f.service.GetActiveAssignmentForApplication(ctx, "APP-001")
	if err != nil {
		t.Fatal(err)
	}
	if current == nil || current.ID != "AFF-002" {
		t.Errorf("active assignment = %+v, want AFF-002", current)
	}

	// Same start instant: the later insert wins
	f.assignments.stage("AFF-004", "POSTE-003", "APP-002", base)
	current, err = f.service.GetActiveAssignmentForPoste(ctx, "POSTE-003")
	if err != nil {
		t.Fatal(err)
	}
	if current == nil || current.ID != "AFF-004" {
		t.Errorf("active assignment = %+v, want AFF-004", current)
	}
}

func TestAssignApplication_ClosesStaleDuplicates(t *testing.T) {
	f := newAssignmentFixture()
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	f.assignments.stage("AFF-001", "POSTE-001", "APP-001", base)
	f.assignments.stage("AFF-002", "POSTE-002", "APP-001", base.Add(time.Hour))
	f.workstations.workstations["POSTE-001"].State = "CONFIGURED"
	f.workstations.workstations["POSTE-002"].State = "CONFIGURED"

	// The newest row survives and still blocks the request
	_, err := f.service.AssignApplication(ctx, "APP-001", "POSTE-003")
	if !apperr.Is(err, apperr.KindAssignmentConflict) {
		t.Fatalf("expected assignment conflict, got %v", err)
	}
	if err.Error() != "application APP-001 is already assigned to workstation POSTE-002" {
		t.Errorf("message = %q", err.Error())
	}

	if f.assignments.active("AFF-001") {
		t.Error("stale AFF-001 should be deactivated")
	}
	if !f.assignments.active("AFF-002") {
		t.Error("newest AFF-002 should stay active")
	}
	if f.workstations.state("POSTE-001") != "NOT_CONFIGURED" {
		t.Errorf("POSTE-001 state = %s, want NOT_CONFIGURED", f.workstations.state("POSTE-001"))
	}
}
