package schedule

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func day(t *testing.T, s string) Day {
	t.Helper()
	d, err := ParseDay(s)
	if err != nil {
		t.Fatalf("ParseDay(%q): %v", s, err)
	}
	return d
}

func TestWindowOverlaps(t *testing.T) {
	existing := NewWindow(Date(2024, time.January, 10), Date(2024, time.January, 20))

	tests := []struct {
		name      string
		candidate Window
		want      bool
	}{
		{"overlaps the tail", NewWindow(day(t, "2024-01-15"), day(t, "2024-01-25")), true},
		{"overlaps the head", NewWindow(day(t, "2024-01-01"), day(t, "2024-01-10")), true},
		{"contained", NewWindow(day(t, "2024-01-12"), day(t, "2024-01-13")), true},
		{"contains", NewWindow(day(t, "2024-01-01"), day(t, "2024-02-01")), true},
		{"same-day boundary at end", NewWindow(day(t, "2024-01-20"), day(t, "2024-01-22")), true},
		{"day after end", NewWindow(day(t, "2024-01-21"), day(t, "2024-01-25")), false},
		{"day before start", NewWindow(day(t, "2024-01-01"), day(t, "2024-01-09")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := existing.Overlaps(tt.candidate); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.candidate.Overlaps(existing); got != tt.want {
				t.Errorf("Overlaps is not symmetric: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindowValidate(t *testing.T) {
	if err := NewWindow(day(t, "2024-01-10"), day(t, "2024-01-10")).Validate(); err != nil {
		t.Errorf("single day window should be valid: %v", err)
	}
	if err := NewWindow(day(t, "2024-01-11"), day(t, "2024-01-10")).Validate(); err == nil {
		t.Error("expected error for inverted window")
	}
	if err := NewWindow(Day{}, day(t, "2024-01-10")).Validate(); err == nil {
		t.Error("expected error for missing start")
	}
}

func TestWindowDurationAndShift(t *testing.T) {
	w := NewWindow(day(t, "2024-02-27"), day(t, "2024-03-02"))
	if got := w.Duration(); got != 4 {
		t.Fatalf("Duration = %d, want 4 (leap year)", got)
	}

	shifted := w.Shift(day(t, "2024-12-30"))
	if shifted.End.String() != "2025-01-03" {
		t.Errorf("shifted end = %s, want 2025-01-03", shifted.End)
	}
	if shifted.Duration() != w.Duration() {
		t.Errorf("shift changed duration: %d != %d", shifted.Duration(), w.Duration())
	}
}

func TestFindFirstAvailable(t *testing.T) {
	today := day(t, "2024-03-01")
	busy := NewWindow(day(t, "2024-03-01"), day(t, "2024-03-03"))

	probe := func(w Window) (bool, error) {
		return !w.Overlaps(busy), nil
	}

	got, found, err := FindFirstAvailable(today, 5, DefaultSearchHorizon, probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a free slot")
	}
	if got.String() != "2024-03-04" {
		t.Errorf("got %s, want 2024-03-04", got)
	}
}

func TestFindFirstAvailable_Fallback(t *testing.T) {
	today := day(t, "2024-03-01")
	calls := 0
	probe := func(Window) (bool, error) {
		calls++
		return false, nil
	}

	got, found, err := FindFirstAvailable(today, 2, 365, probe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected no free slot")
	}
	if calls != 365 {
		t.Errorf("probed %d candidates, want 365", calls)
	}
	if want := today.AddDays(365); !got.Equal(want) {
		t.Errorf("fallback = %s, want %s", got, want)
	}
}

func TestFindFirstAvailable_ProbeError(t *testing.T) {
	boom := errors.New("db down")
	_, _, err := FindFirstAvailable(day(t, "2024-03-01"), 1, 10, func(Window) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected probe error, got %v", err)
	}
}

func TestDayJSON(t *testing.T) {
	var payload struct {
		Start Day `json:"start"`
		End   Day `json:"end"`
	}
	if err := json.Unmarshal([]byte(`{"start":"2024-01-10","end":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Start.String() != "2024-01-10" || !payload.End.IsZero() {
		t.Fatalf("unexpected decode: %+v", payload)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"start":"2024-01-10","end":null}` {
		t.Errorf("got %s", out)
	}

	if err := json.Unmarshal([]byte(`{"start":"10/01/2024"}`), &payload); err == nil {
		t.Error("expected error for non ISO date")
	}
}
