package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/example/floor/internal/ports/primary"
)

const timeLayout = "2006-01-02 15:04"

// AssignmentAdapter is a thin adapter that translates CLI operations to AssignmentService calls.
type AssignmentAdapter struct {
	service primary.AssignmentService
	repair  primary.RepairService
	out     io.Writer
}

// NewAssignmentAdapter creates a new AssignmentAdapter. repair may be nil when
// the command never repairs.
func NewAssignmentAdapter(service primary.AssignmentService, repair primary.RepairService, out io.Writer) *AssignmentAdapter {
	return &AssignmentAdapter{
		service: service,
		repair:  repair,
		out:     out,
	}
}

// Assign binds an application to a workstation.
func (a *AssignmentAdapter) Assign(ctx context.Context, applicationID, workstationID string) error {
	assignment, err := a.service.AssignApplication(ctx, applicationID, workstationID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Application %s assigned to workstation %s (%s)\n",
		assignment.ApplicationID, assignment.WorkstationID, assignment.ID)
	return nil
}

// Unassign ends an application's active assignment.
func (a *AssignmentAdapter) Unassign(ctx context.Context, applicationID string) error {
	assignment, err := a.service.UnassignApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Application %s removed from workstation %s\n",
		assignment.ApplicationID, assignment.WorkstationID)
	return nil
}

// ShowApplication prints the application's active assignment, if any.
func (a *AssignmentAdapter) ShowApplication(ctx context.Context, applicationID string) (*primary.Assignment, error) {
	current, err := a.service.GetActiveAssignmentForApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		fmt.Fprintf(a.out, "Application %s is not assigned\n", applicationID)
		return nil, nil
	}
	fmt.Fprintf(a.out, "Application %s runs on workstation %s since %s\n",
		applicationID, current.WorkstationID, current.StartedAt.Format(timeLayout))
	return current, nil
}

// ShowWorkstation prints the workstation's active assignment, if any.
func (a *AssignmentAdapter) ShowWorkstation(ctx context.Context, workstationID string) (*primary.Assignment, error) {
	current, err := a.service.GetActiveAssignmentForPoste(ctx, workstationID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		fmt.Fprintf(a.out, "Workstation %s is %s\n", workstationID, StatusLabel("NOT_CONFIGURED"))
		return nil, nil
	}
	fmt.Fprintf(a.out, "Workstation %s is %s with application %s since %s\n",
		workstationID, StatusLabel("CONFIGURED"), current.ApplicationID, current.StartedAt.Format(timeLayout))
	return current, nil
}

// HistoryForApplication prints every assignment of an application, newest first.
func (a *AssignmentAdapter) HistoryForApplication(ctx context.Context, applicationID string) ([]*primary.Assignment, error) {
	history, err := a.service.GetHistoryForApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	a.printHistory(history)
	return history, nil
}

// HistoryForWorkstation prints every assignment of a workstation, newest first.
func (a *AssignmentAdapter) HistoryForWorkstation(ctx context.Context, workstationID string) ([]*primary.Assignment, error) {
	history, err := a.service.GetHistoryForPoste(ctx, workstationID)
	if err != nil {
		return nil, err
	}
	a.printHistory(history)
	return history, nil
}

// Repair closes duplicate active assignments and reports what changed.
func (a *AssignmentAdapter) Repair(ctx context.Context) (*primary.RepairReport, error) {
	if a.repair == nil {
		return nil, fmt.Errorf("repair is not available")
	}
	report, err := a.repair.RepairDuplicateAssignments(ctx)
	if err != nil {
		return nil, err
	}

	if len(report.Deactivated) == 0 {
		fmt.Fprintln(a.out, "✓ No duplicate assignments found")
		return report, nil
	}
	fmt.Fprintf(a.out, "%s Deactivated %d duplicate assignment(s) across %d application(s) and %d workstation(s)\n",
		color.New(color.FgYellow).Sprint("!"), len(report.Deactivated), report.Applications, report.Workstations)
	for _, id := range report.Deactivated {
		fmt.Fprintf(a.out, "  %s\n", id)
	}
	return report, nil
}

func (a *AssignmentAdapter) printHistory(history []*primary.Assignment) {
	if len(history) == 0 {
		fmt.Fprintln(a.out, "No assignments found")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tAPPLICATION\tWORKSTATION\tSTART\tEND\tACTIVE")
	fmt.Fprintln(w, "--\t-----------\t-----------\t-----\t---\t------")
	for _, h := range history {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			h.ID, h.ApplicationID, h.WorkstationID, h.StartedAt.Format(timeLayout), formatEnd(h.EndedAt), activeMark(h.Active))
	}
	w.Flush()
}

func formatEnd(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timeLayout)
}

func activeMark(active bool) string {
	if active {
		return color.New(color.FgGreen).Sprint("yes")
	}
	return "no"
}
