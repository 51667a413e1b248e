package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/core/schedule"
	"github.com/example/floor/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

var (
	_ secondary.Transactor               = (*mockTransactor)(nil)
	_ secondary.OrderRepository          = (*mockOrderRepository)(nil)
	_ secondary.ProductionLineRepository = (*mockLineRepository)(nil)
	_ secondary.ProductRepository        = (*mockProductRepository)(nil)
	_ secondary.WorkstationRepository    = (*mockWorkstationRepository)(nil)
	_ secondary.ApplicationRepository    = (*mockApplicationRepository)(nil)
	_ secondary.AssignmentRepository     = (*mockAssignmentRepository)(nil)
)

// mockTransactor runs fn directly and counts units of work.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// mockOrderRepository implements secondary.OrderRepository for testing.
type mockOrderRepository struct {
	orders    map[string]*secondary.OrderRecord
	nextSeq   int
	updates   int
	createErr error
	updateErr error
	findErr   error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[string]*secondary.OrderRecord)}
}

func (m *mockOrderRepository) put(r *secondary.OrderRecord) {
	m.orders[r.ID] = r
}

func (m *mockOrderRepository) Create(ctx context.Context, order *secondary.OrderRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*secondary.OrderRecord, error) {
	if o, ok := m.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, apperr.NotFound("order %s not found", id)
}

func (m *mockOrderRepository) List(ctx context.Context, filters secondary.OrderFilters) ([]*secondary.OrderRecord, error) {
	var result []*secondary.OrderRecord
	for _, o := range m.orders {
		if filters.LineID != "" && o.LineID != filters.LineID {
			continue
		}
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		copied := *o
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockOrderRepository) Update(ctx context.Context, order *secondary.OrderRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.orders[order.ID]
	if !ok {
		return apperr.NotFound("order %s not found", order.ID)
	}
	copied := *order
	copied.CreatedBy = existing.CreatedBy
	m.orders[order.ID] = &copied
	m.updates++
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.orders[id]; !ok {
		return apperr.NotFound("order %s not found", id)
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepository) GetNextID(ctx context.Context) (string, error) {
	// Created orders start at OF-101, clear of staged fixtures
	m.nextSeq++
	return fmt.Sprintf("OF-%03d", 100+m.nextSeq), nil
}

// FindConflicting returns matches in map order; callers must sort.
func (m *mockOrderRepository) FindConflicting(ctx context.Context, q secondary.ConflictQuery) ([]*secondary.OrderRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	excluded := map[string]bool{}
	for _, s := range q.ExcludeStatuses {
		excluded[s] = true
	}
	var result []*secondary.OrderRecord
	for _, o := range m.orders {
		if o.LineID != q.LineID || excluded[o.Status] || o.ID == q.ExcludeOrderID {
			continue
		}
		if o.Window().Overlaps(q.Window) {
			copied := *o
			result = append(result, &copied)
		}
	}
	return result, nil
}

// mockLineRepository implements secondary.ProductionLineRepository for testing.
type mockLineRepository struct {
	lines map[string]*secondary.ProductionLineRecord
}

func newMockLineRepository(lines ...*secondary.ProductionLineRecord) *mockLineRepository {
	m := &mockLineRepository{lines: make(map[string]*secondary.ProductionLineRecord)}
	for _, l := range lines {
		m.lines[l.ID] = l
	}
	return m
}

func (m *mockLineRepository) Create(ctx context.Context, line *secondary.ProductionLineRecord) error {
	copied := *line
	m.lines[line.ID] = &copied
	return nil
}

func (m *mockLineRepository) GetByID(ctx context.Context, id string) (*secondary.ProductionLineRecord, error) {
	if l, ok := m.lines[id]; ok {
		return l, nil
	}
	return nil, apperr.NotFound("production line %s not found", id)
}

func (m *mockLineRepository) List(ctx context.Context) ([]*secondary.ProductionLineRecord, error) {
	var result []*secondary.ProductionLineRecord
	for _, l := range m.lines {
		result = append(result, l)
	}
	return result, nil
}

func (m *mockLineRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("LINE-%03d", len(m.lines)+1), nil
}

func (m *mockLineRepository) AddWorkstation(ctx context.Context, lineID, workstationID string) error {
	l, ok := m.lines[lineID]
	if !ok {
		return apperr.NotFound("production line %s not found", lineID)
	}
	for _, id := range l.WorkstationIDs {
		if id == workstationID {
			return nil
		}
	}
	l.WorkstationIDs = append(l.WorkstationIDs, workstationID)
	return nil
}

func (m *mockLineRepository) AddProduct(ctx context.Context, lineID, productID string) error {
	l, ok := m.lines[lineID]
	if !ok {
		return apperr.NotFound("production line %s not found", lineID)
	}
	l.ProductIDs = append(l.ProductIDs, productID)
	return nil
}

// mockProductRepository implements secondary.ProductRepository for testing.
type mockProductRepository struct {
	products map[string]*secondary.ProductRecord
}

func newMockProductRepository(ids ...string) *mockProductRepository {
	m := &mockProductRepository{products: make(map[string]*secondary.ProductRecord)}
	for _, id := range ids {
		m.products[id] = &secondary.ProductRecord{ID: id, Name: "Product " + id}
	}
	return m
}

func (m *mockProductRepository) Create(ctx context.Context, product *secondary.ProductRecord) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*secondary.ProductRecord, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("product %s not found", id)
}

func (m *mockProductRepository) List(ctx context.Context) ([]*secondary.ProductRecord, error) {
	var result []*secondary.ProductRecord
	for _, p := range m.products {
		result = append(result, p)
	}
	return result, nil
}

func (m *mockProductRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("PROD-%03d", len(m.products)+1), nil
}

// mockWorkstationRepository implements secondary.WorkstationRepository for testing.
type mockWorkstationRepository struct {
	workstations map[string]*secondary.WorkstationRecord
}

func newMockWorkstationRepository(ids ...string) *mockWorkstationRepository {
	m := &mockWorkstationRepository{workstations: make(map[string]*secondary.WorkstationRecord)}
	for _, id := range ids {
		m.workstations[id] = &secondary.WorkstationRecord{ID: id, Name: "Workstation " + id, State: "NOT_CONFIGURED"}
	}
	return m
}

func (m *mockWorkstationRepository) Create(ctx context.Context, ws *secondary.WorkstationRecord) error {
	copied := *ws
	m.workstations[ws.ID] = &copied
	return nil
}

func (m *mockWorkstationRepository) GetByID(ctx context.Context, id string) (*secondary.WorkstationRecord, error) {
	if w, ok := m.workstations[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, apperr.NotFound("workstation %s not found", id)
}

func (m *mockWorkstationRepository) List(ctx context.Context, filters secondary.WorkstationFilters) ([]*secondary.WorkstationRecord, error) {
	var result []*secondary.WorkstationRecord
	for _, w := range m.workstations {
		if filters.State != "" && w.State != filters.State {
			continue
		}
		result = append(result, w)
	}
	return result, nil
}

func (m *mockWorkstationRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("POSTE-%03d", len(m.workstations)+1), nil
}

func (m *mockWorkstationRepository) UpdateState(ctx context.Context, id, state string) error {
	w, ok := m.workstations[id]
	if !ok {
		return apperr.NotFound("workstation %s not found", id)
	}
	w.State = state
	return nil
}

func (m *mockWorkstationRepository) state(id string) string {
	return m.workstations[id].State
}

// mockApplicationRepository implements secondary.ApplicationRepository for testing.
type mockApplicationRepository struct {
	applications map[string]*secondary.ApplicationRecord
}

func newMockApplicationRepository(ids ...string) *mockApplicationRepository {
	m := &mockApplicationRepository{applications: make(map[string]*secondary.ApplicationRecord)}
	for _, id := range ids {
		m.applications[id] = &secondary.ApplicationRecord{ID: id, Name: "Application " + id}
	}
	return m
}

func (m *mockApplicationRepository) Create(ctx context.Context, app *secondary.ApplicationRecord) error {
	copied := *app
	m.applications[app.ID] = &copied
	return nil
}

func (m *mockApplicationRepository) GetByID(ctx context.Context, id string) (*secondary.ApplicationRecord, error) {
	if a, ok := m.applications[id]; ok {
		return a, nil
	}
	return nil, apperr.NotFound("application %s not found", id)
}

func (m *mockApplicationRepository) List(ctx context.Context) ([]*secondary.ApplicationRecord, error) {
	var result []*secondary.ApplicationRecord
	for _, a := range m.applications {
		result = append(result, a)
	}
	return result, nil
}

func (m *mockApplicationRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("APP-%03d", len(m.applications)+1), nil
}

// mockAssignmentRepository implements secondary.AssignmentRepository for testing.
// It does not enforce the single-active rule, so duplicates can be staged.
type mockAssignmentRepository struct {
	rows      []*secondary.AssignmentRecord
	createErr error
}

func newMockAssignmentRepository() *mockAssignmentRepository {
	return &mockAssignmentRepository{}
}

// stage inserts a row directly, bypassing the service.
func (m *mockAssignmentRepository) stage(id, workstationID, applicationID string, startedAt time.Time) {
	m.rows = append(m.rows, &secondary.AssignmentRecord{
		ID: id, WorkstationID: workstationID, ApplicationID: applicationID,
		StartedAt: startedAt, Active: true, Seq: int64(len(m.rows) + 1),
	})
}

func (m *mockAssignmentRepository) Create(ctx context.Context, a *secondary.AssignmentRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *a
	copied.Seq = int64(len(m.rows) + 1)
	m.rows = append(m.rows, &copied)
	return nil
}

func (m *mockAssignmentRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("AFF-%03d", len(m.rows)+1), nil
}

func (m *mockAssignmentRepository) Deactivate(ctx context.Context, id string, endedAt time.Time) error {
	for _, r := range m.rows {
		if r.ID == id {
			r.Active = false
			r.EndedAt = endedAt
			return nil
		}
	}
	return apperr.NotFound("assignment %s not found", id)
}

func (m *mockAssignmentRepository) filter(keep func(*secondary.AssignmentRecord) bool) []*secondary.AssignmentRecord {
	var result []*secondary.AssignmentRecord
	// Oldest first, the opposite of the real ordering
	for _, r := range m.rows {
		if keep(r) {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result
}

func (m *mockAssignmentRepository) ListActiveByApplication(ctx context.Context, id string) ([]*secondary.AssignmentRecord, error) {
	return m.filter(func(r *secondary.AssignmentRecord) bool { return r.Active && r.ApplicationID == id }), nil
}

func (m *mockAssignmentRepository) ListActiveByWorkstation(ctx context.Context, id string) ([]*secondary.AssignmentRecord, error) {
	return m.filter(func(r *secondary.AssignmentRecord) bool { return r.Active && r.WorkstationID == id }), nil
}

func (m *mockAssignmentRepository) ListByApplication(ctx context.Context, id string) ([]*secondary.AssignmentRecord, error) {
	rows := m.filter(func(r *secondary.AssignmentRecord) bool { return r.ApplicationID == id })
	reverse(rows)
	return rows, nil
}

func (m *mockAssignmentRepository) ListByWorkstation(ctx context.Context, id string) ([]*secondary.AssignmentRecord, error) {
	rows := m.filter(func(r *secondary.AssignmentRecord) bool { return r.WorkstationID == id })
	reverse(rows)
	return rows, nil
}

func (m *mockAssignmentRepository) FindDuplicateActive(ctx context.Context) (*secondary.DuplicateOwners, error) {
	apps := map[string]int{}
	stations := map[string]int{}
	for _, r := range m.rows {
		if r.Active {
			apps[r.ApplicationID]++
			stations[r.WorkstationID]++
		}
	}
	owners := &secondary.DuplicateOwners{}
	for id, n := range apps {
		if n > 1 {
			owners.ApplicationIDs = append(owners.ApplicationIDs, id)
		}
	}
	for id, n := range stations {
		if n > 1 {
			owners.WorkstationIDs = append(owners.WorkstationIDs, id)
		}
	}
	return owners, nil
}

func (m *mockAssignmentRepository) active(id string) bool {
	for _, r := range m.rows {
		if r.ID == id {
			return r.Active
		}
	}
	return false
}

func reverse(rows []*secondary.AssignmentRecord) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// ============================================================================
// Fixtures
// ============================================================================

func day(s string) schedule.Day {
	d, err := schedule.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func pendingOrder(id, lineID, start, end string) *secondary.OrderRecord {
	return &secondary.OrderRecord{
		ID: id, Code: "FAB-" + id, Status: "PENDING", Quantity: 10,
		StartDate: day(start), EndDate: day(end), LineID: lineID,
	}
}
