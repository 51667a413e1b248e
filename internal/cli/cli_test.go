package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/floor/internal/core/schedule"
	"github.com/example/floor/internal/ctxutil"
)

func TestRootCmdStructure(t *testing.T) {
	root := RootCmd()

	want := []string{"init", "order", "assign", "unassign", "affectation", "line", "poste", "app", "product", "repair", "serve", "seed", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("command %q not registered", name)
			continue
		}
		if cmd.Short == "" {
			t.Errorf("command %q should have a Short description", name)
		}
	}

	order, _, _ := root.Find([]string{"order"})
	for _, sub := range []string{"create", "update", "list", "show", "cancel", "complete", "delete", "start", "next-date", "check", "statuses"} {
		if cmd, _, err := order.Find([]string{sub}); err != nil || cmd == order {
			t.Errorf("order subcommand %q not registered", sub)
		}
	}
}

func TestUpdateOrderRequest_OnlyChangedFields(t *testing.T) {
	cmd := orderUpdateCmd()
	if err := cmd.ParseFlags([]string{"--qty", "25", "--start", "2024-03-02", "--line", ""}); err != nil {
		t.Fatal(err)
	}

	req, err := updateOrderRequest(cmd, "OF-001")
	if err != nil {
		t.Fatalf("updateOrderRequest failed: %v", err)
	}

	if req.OrderID != "OF-001" {
		t.Errorf("OrderID = %q", req.OrderID)
	}
	if req.Quantity == nil || *req.Quantity != 25 {
		t.Errorf("Quantity = %v, want 25", req.Quantity)
	}
	if req.StartDate == nil || !req.StartDate.Equal(schedule.Date(2024, 3, 2)) {
		t.Errorf("StartDate = %v, want 2024-03-02", req.StartDate)
	}
	if req.LineID == nil || *req.LineID != "" {
		t.Errorf("LineID should be set to empty, got %v", req.LineID)
	}
	if req.EndDate != nil || req.Code != nil || req.ProductID != nil || req.Status != nil {
		t.Errorf("untouched fields should stay nil: %+v", req)
	}
}

func TestCreateOrderRequest_InvalidDate(t *testing.T) {
	cmd := orderCreateCmd()
	if err := cmd.ParseFlags([]string{"--start", "03/01/2024", "--end", "2024-03-05"}); err != nil {
		t.Fatal(err)
	}

	_, err := createOrderRequest(cmd, "OF-001")
	if err == nil || !strings.Contains(err.Error(), "invalid --start") {
		t.Errorf("expected invalid --start error, got %v", err)
	}
}

func TestPersistentPreRun_ResolvesActor(t *testing.T) {
	root := RootCmd()
	if err := root.ParseFlags([]string{"--as", "jdupont"}); err != nil {
		t.Fatal(err)
	}
	if err := root.PersistentPreRunE(root, nil); err != nil {
		t.Fatal(err)
	}

	if got := ctxutil.ActorFromContext(commandContext(root)); got != "jdupont" {
		t.Errorf("actor = %q, want jdupont", got)
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	cmd := VersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var info map[string]string
	if err := json.Unmarshal(buf.Bytes(), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if info["release"] == "" || info["goVersion"] == "" {
		t.Errorf("missing fields in %v", info)
	}
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data", "floor.db")
	cmd := InitCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := runInit(cmd, dir, dbPath, false); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".floor", "config.json")); err != nil {
		t.Errorf("config not written: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database not created: %v", err)
	}

	buf.Reset()
	if err := runInit(cmd, dir, "", false); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if !strings.Contains(buf.String(), "already present") {
		t.Errorf("expected existing config to be kept, got %q", buf.String())
	}
}
