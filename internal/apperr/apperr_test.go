package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/floor/internal/core/schedule"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := NotFound("order %s not found", "OF-404")
	wrapped := fmt.Errorf("failed to cancel: %w", base)

	if !Is(wrapped, KindNotFound) {
		t.Errorf("KindOf(wrapped) = %s, want %s", KindOf(wrapped), KindNotFound)
	}
	if wrapped.Error() != "failed to cancel: order OF-404 not found" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
}

func TestUnclassifiedIsInternal(t *testing.T) {
	if KindOf(errors.New("disk full")) != KindInternal {
		t.Error("plain errors should be internal")
	}
	if Is(nil, KindInternal) {
		t.Error("nil error has no kind")
	}
}

func TestSchedulingConflictCarriesOrders(t *testing.T) {
	conflicts := []ConflictingOrder{{
		OrderID: "OF-001",
		Code:    "FAB-1",
		Start:   schedule.Date(2024, 1, 10),
		End:     schedule.Date(2024, 1, 20),
		Status:  "PENDING",
	}}
	err := fmt.Errorf("create: %w", SchedulingConflict("line busy", conflicts))

	if !Is(err, KindSchedulingConflict) {
		t.Fatalf("kind = %s", KindOf(err))
	}
	got := ConflictsOf(err)
	if len(got) != 1 || got[0].Code != "FAB-1" {
		t.Errorf("ConflictsOf = %+v", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := Wrap(KindAssignmentConflict, cause, "workstation %s already configured", "POSTE-001")

	if !errors.Is(err, cause) {
		t.Error("cause lost")
	}
	if err.Error() != "workstation POSTE-001 already configured" {
		t.Errorf("message = %q", err.Error())
	}
}
