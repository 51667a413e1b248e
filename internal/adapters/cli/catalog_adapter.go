package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/floor/internal/ports/primary"
)

// CatalogAdapter translates CLI operations to CatalogService calls.
type CatalogAdapter struct {
	service primary.CatalogService
	out     io.Writer
}

// NewCatalogAdapter creates a new CatalogAdapter with the given service.
func NewCatalogAdapter(service primary.CatalogService, out io.Writer) *CatalogAdapter {
	return &CatalogAdapter{
		service: service,
		out:     out,
	}
}

// CreateLine creates a production line.
func (a *CatalogAdapter) CreateLine(ctx context.Context, req primary.CreateLineRequest) error {
	line, err := a.service.CreateLine(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created line %s: %s\n", line.ID, line.Name)
	return nil
}

// ListLines lists production lines with their workstations.
func (a *CatalogAdapter) ListLines(ctx context.Context) error {
	lines, err := a.service.ListLines(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "No lines found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWORKSTATIONS\tPRODUCTS")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.Name, joinOrDash(l.WorkstationIDs), joinOrDash(l.ProductIDs))
	}
	w.Flush()
	return nil
}

// ShowLine displays a production line.
func (a *CatalogAdapter) ShowLine(ctx context.Context, lineID string) error {
	line, err := a.service.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nLine:         %s\n", line.ID)
	fmt.Fprintf(a.out, "Name:         %s\n", line.Name)
	fmt.Fprintf(a.out, "Workstations: %s\n", joinOrDash(line.WorkstationIDs))
	fmt.Fprintf(a.out, "Products:     %s\n\n", joinOrDash(line.ProductIDs))
	return nil
}

// AddWorkstation links a workstation to a line.
func (a *CatalogAdapter) AddWorkstation(ctx context.Context, lineID, workstationID string) error {
	if err := a.service.AddWorkstationToLine(ctx, lineID, workstationID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Workstation %s added to line %s\n", workstationID, lineID)
	return nil
}

// CreateWorkstation creates a workstation.
func (a *CatalogAdapter) CreateWorkstation(ctx context.Context, req primary.CreateWorkstationRequest) error {
	ws, err := a.service.CreateWorkstation(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created workstation %s: %s\n", ws.ID, ws.Name)
	return nil
}

// ListWorkstations lists workstations with their state.
func (a *CatalogAdapter) ListWorkstations(ctx context.Context, filters primary.WorkstationFilters) error {
	stations, err := a.service.ListWorkstations(ctx, filters)
	if err != nil {
		return err
	}
	if len(stations) == 0 {
		fmt.Fprintln(a.out, "No workstations found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE")
	for _, s := range stations {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, StatusLabel(s.State))
	}
	w.Flush()
	return nil
}

// ShowWorkstation displays a workstation.
func (a *CatalogAdapter) ShowWorkstation(ctx context.Context, workstationID string) error {
	ws, err := a.service.GetWorkstation(ctx, workstationID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nWorkstation: %s\nName:        %s\nState:       %s\n\n", ws.ID, ws.Name, StatusLabel(ws.State))
	return nil
}

// CreateApplication creates an application.
func (a *CatalogAdapter) CreateApplication(ctx context.Context, req primary.CreateApplicationRequest) error {
	app, err := a.service.CreateApplication(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created application %s: %s\n", app.ID, app.Name)
	return nil
}

// ListApplications lists applications.
func (a *CatalogAdapter) ListApplications(ctx context.Context) error {
	apps, err := a.service.ListApplications(ctx)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(a.out, "No applications found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOPERATION")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\n", app.ID, app.Name, dash(app.OperationName))
	}
	w.Flush()
	return nil
}

// ShowApplication displays an application.
func (a *CatalogAdapter) ShowApplication(ctx context.Context, applicationID string) error {
	app, err := a.service.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nApplication: %s\nName:        %s\n", app.ID, app.Name)
	if app.OperationName != "" {
		fmt.Fprintf(a.out, "Operation:   %s\n", app.OperationName)
	}
	if app.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", app.Description)
	}
	fmt.Fprintln(a.out)
	return nil
}

// CreateProduct creates a product.
func (a *CatalogAdapter) CreateProduct(ctx context.Context, req primary.CreateProductRequest) error {
	product, err := a.service.CreateProduct(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created product %s: %s\n", product.ID, product.Name)
	return nil
}

// ListProducts lists products.
func (a *CatalogAdapter) ListProducts(ctx context.Context) error {
	products, err := a.service.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tREFERENCE")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, dash(p.Reference))
	}
	w.Flush()
	return nil
}

// ShowProduct displays a product.
func (a *CatalogAdapter) ShowProduct(ctx context.Context, productID string) error {
	product, err := a.service.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nProduct:   %s\nName:      %s\nReference: %s\n\n", product.ID, product.Name, dash(product.Reference))
	return nil
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
