package order

import (
	"testing"
	"time"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/core/schedule"
)

func TestCanCancel(t *testing.T) {
	tests := []struct {
		name        string
		ctx         TransitionContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can cancel pending order",
			ctx:         TransitionContext{OrderID: "OF-001", Status: StatusPending},
			wantAllowed: true,
		},
		{
			name:        "cannot cancel in-progress order",
			ctx:         TransitionContext{OrderID: "OF-001", Status: StatusInProgress},
			wantAllowed: false,
			wantReason:  "only pending orders can be cancelled (order OF-001 is IN_PROGRESS)",
		},
		{
			name:        "cannot cancel cancelled order",
			ctx:         TransitionContext{OrderID: "OF-002", Status: StatusCancelled},
			wantAllowed: false,
			wantReason:  "only pending orders can be cancelled (order OF-002 is CANCELLED)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCancel(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanStartAndHasLine(t *testing.T) {
	tests := []struct {
		name         string
		ctx          StartContext
		wantStart    bool
		wantHasLine  bool
		wantLineText string
	}{
		{
			name:        "pending order on a line",
			ctx:         StartContext{OrderID: "OF-001", Status: StatusPending, LineID: "LINE-001"},
			wantStart:   true,
			wantHasLine: true,
		},
		{
			name:         "pending order without line",
			ctx:          StartContext{OrderID: "OF-001", Status: StatusPending},
			wantStart:    true,
			wantHasLine:  false,
			wantLineText: "order OF-001 has no production line assigned",
		},
		{
			name:        "completed order",
			ctx:         StartContext{OrderID: "OF-001", Status: StatusCompleted, LineID: "LINE-001"},
			wantStart:   false,
			wantHasLine: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanStart(tt.ctx).Allowed; got != tt.wantStart {
				t.Errorf("CanStart.Allowed = %v, want %v", got, tt.wantStart)
			}
			line := HasLine(tt.ctx)
			if line.Allowed != tt.wantHasLine {
				t.Errorf("HasLine.Allowed = %v, want %v", line.Allowed, tt.wantHasLine)
			}
			if tt.wantLineText != "" && line.Reason != tt.wantLineText {
				t.Errorf("HasLine.Reason = %q, want %q", line.Reason, tt.wantLineText)
			}
		})
	}
}

func TestCanComplete(t *testing.T) {
	if !CanComplete(TransitionContext{OrderID: "OF-001", Status: StatusInProgress}).Allowed {
		t.Error("in-progress order should be completable")
	}
	result := CanComplete(TransitionContext{OrderID: "OF-001", Status: StatusPending})
	if result.Allowed {
		t.Fatal("pending order should not be completable")
	}
	if result.Error() == nil {
		t.Error("expected error from rejected guard")
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := ParseStatus(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseStatus("EN_ATTENTE"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestConflictMessage(t *testing.T) {
	w := func(a, b int) schedule.Window {
		return schedule.NewWindow(schedule.Date(2024, time.January, a), schedule.Date(2024, time.January, b))
	}

	msg := ConflictMessage("Assembly A", w(15, 25), []Conflict{
		{Code: "OF-A", Window: w(10, 20)},
		{Code: "OF-B", Window: w(22, 23)},
	})

	want := "production line 'Assembly A' is not available from 2024-01-15 to 2024-01-25; " +
		"conflicting orders: OF-A (2024-01-10 - 2024-01-20), OF-B (2024-01-22 - 2024-01-23)"
	if msg != want {
		t.Errorf("got  %q\nwant %q", msg, want)
	}
}

func TestScheduleChanged(t *testing.T) {
	base := schedule.NewWindow(schedule.Date(2024, 1, 10), schedule.Date(2024, 1, 20))
	moved := schedule.NewWindow(schedule.Date(2024, 1, 11), schedule.Date(2024, 1, 20))

	if ScheduleChanged("LINE-001", base, "LINE-001", base) {
		t.Error("identical schedule reported as changed")
	}
	if !ScheduleChanged("LINE-001", base, "LINE-002", base) {
		t.Error("line change not detected")
	}
	if !ScheduleChanged("LINE-001", base, "LINE-001", moved) {
		t.Error("date change not detected")
	}
}

func TestReactivates(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusCancelled, StatusPending, true},
		{StatusCompleted, StatusInProgress, true},
		{StatusCancelled, StatusCompleted, false},
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCancelled, false},
	}

	for _, tt := range tests {
		if got := Reactivates(tt.from, tt.to); got != tt.want {
			t.Errorf("Reactivates(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestGuardResultError(t *testing.T) {
	tests := []struct {
		name     string
		result   GuardResult
		wantKind apperr.Kind
	}{
		{"cancel refused", CanCancel(TransitionContext{OrderID: "OF-001", Status: StatusCompleted}), apperr.KindInvalidState},
		{"start refused", CanStart(StartContext{OrderID: "OF-001", Status: StatusInProgress, LineID: "LINE-001"}), apperr.KindInvalidState},
		{"complete refused", CanComplete(TransitionContext{OrderID: "OF-001", Status: StatusPending}), apperr.KindInvalidState},
		{"no line", HasLine(StartContext{OrderID: "OF-001", Status: StatusPending}), apperr.KindMissingLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Error()
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("Error() = %v, want kind %s", err, tt.wantKind)
			}
			if err.Error() != tt.result.Reason {
				t.Errorf("message = %q, want %q", err.Error(), tt.result.Reason)
			}
		})
	}

	if err := CanCancel(TransitionContext{OrderID: "OF-001", Status: StatusPending}).Error(); err != nil {
		t.Errorf("allowed guard should yield nil, got %v", err)
	}
}
