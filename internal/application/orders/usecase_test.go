package orders_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventory-ops/internal/application/audit"
	"github.com/tu-usuario/inventory-ops/internal/application/auth"
	"github.com/tu-usuario/inventory-ops/internal/application/dto"
	"github.com/tu-usuario/inventory-ops/internal/application/orders"
	"github.com/tu-usuario/inventory-ops/internal/domain"
	"github.com/tu-usuario/inventory-ops/internal/domain/entity"
	"github.com/tu-usuario/inventory-ops/internal/domain/repository"
	"github.com/tu-usuario/inventory-ops/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria con semántica transaccional: el TxRunner de test trabaja
// sobre una copia y solo la publica si el callback termina sin error. Así se
// puede simular una falla entre el flip de estado y el descuento de stock.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	orders    map[string]*entity.Order
	products  map[string]*entity.Product
	usernames map[string]string // accountID -> username, para las vistas joineadas
}

func newMemStore() *memStore {
	return &memStore{
		orders:    map[string]*entity.Order{},
		products:  map[string]*entity.Product{},
		usernames: map[string]string{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.orders {
		o := *v
		c.orders[k] = &o
	}
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.usernames {
		c.usernames[k] = v
	}
	return c
}

type memOrderRepo struct{ s *memStore }

var _ repository.OrderRepository = (*memOrderRepo)(nil)

func (r *memOrderRepo) Create(_ context.Context, order *entity.Order) error {
	o := *order
	r.s.orders[order.ID] = &o
	return nil
}

func (r *memOrderRepo) GetForUpdate(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	o, ok := r.s.orders[id]
	if !ok {
		return errors.New("orden inexistente")
	}
	o.Status = status
	return nil
}

func (r *memOrderRepo) view(o *entity.Order) *entity.OrderView {
	v := &entity.OrderView{Order: *o}
	if p, ok := r.s.products[o.ProductID]; ok {
		v.ProductName = p.Name
	}
	v.Requester = r.s.usernames[o.AccountID]
	return v
}

func (r *memOrderRepo) ListAll(_ context.Context) ([]*entity.OrderView, error) {
	var out []*entity.OrderView
	for _, o := range r.s.orders {
		out = append(out, r.view(o))
	}
	return out, nil
}

func (r *memOrderRepo) ListByAccount(_ context.Context, accountID string) ([]*entity.OrderView, error) {
	var out []*entity.OrderView
	for _, o := range r.s.orders {
		if o.AccountID == accountID {
			out = append(out, r.view(o))
		}
	}
	return out, nil
}

func (r *memOrderRepo) Count(_ context.Context) (int, error) { return len(r.s.orders), nil }

type memProductRepo struct {
	s          *memStore
	failAdjust bool // simula una falla del store entre las dos escrituras del approve
}

var _ repository.ProductRepository = (*memProductRepo)(nil)

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) AdjustQuantity(_ context.Context, productID string, delta int) error {
	if r.failAdjust {
		return errors.New("falla inyectada: update de stock")
	}
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Quantity += delta // sin piso, igual que el repo real
	return nil
}

func (r *memProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) Count(_ context.Context) (int, error) { return len(r.s.products), nil }

type memTxRunner struct {
	s          *memStore
	failAdjust bool
}

var _ orders.TxRunner = (*memTxRunner)(nil)

// Run ejecuta fn sobre una copia del store. Si fn falla, la copia se descarta
// (rollback); si termina bien, la copia reemplaza al store (commit atómico).
func (tx *memTxRunner) Run(_ context.Context, fn func(repository.OrderRepository, repository.ProductRepository) error) error {
	staged := tx.s.clone()
	if err := fn(&memOrderRepo{s: staged}, &memProductRepo{s: staged, failAdjust: tx.failAdjust}); err != nil {
		return err
	}
	*tx.s = *staged
	return nil
}

// Sinks de auditoría en memoria.

type memAuditRepo struct {
	mu      sync.Mutex
	records []*entity.AuditRecord
}

var _ repository.AuditRepository = (*memAuditRepo)(nil)

func (r *memAuditRepo) Append(_ context.Context, rec *entity.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

func (r *memAuditRepo) ListRecent(_ context.Context, limit int) ([]*entity.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditRecord
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

func (r *memAuditRepo) countAction(action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.Action == action {
			n++
		}
	}
	return n
}

type noopTrail struct{}

func (noopTrail) Append(*entity.AuditRecord) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	store    *memStore
	tx       *memTxRunner
	auditLog *memAuditRepo
	recorder *audit.Recorder
	uc       *orders.UseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	tx := &memTxRunner{s: store}
	auditLog := &memAuditRepo{}
	recorder := audit.NewRecorder(auditLog, noopTrail{}, logger.Nop(), 64)
	uc := orders.NewUseCase(&memOrderRepo{s: store}, &memProductRepo{s: store}, tx, recorder)
	return &testEnv{store: store, tx: tx, auditLog: auditLog, recorder: recorder, uc: uc}
}

// flush drena el worker de auditoría para poder asertar sobre los registros.
func (e *testEnv) flush() { e.recorder.Close() }

func (e *testEnv) addProduct(id, name string, quantity int) {
	e.store.products[id] = &entity.Product{ID: id, Name: name, SKU: "SKU-" + id, Quantity: quantity}
}

func (e *testEnv) addAccount(id, username string) {
	e.store.usernames[id] = username
}

func identity(id, username, role string) *auth.Identity {
	return &auth.Identity{AccountID: id, Username: username, Role: role}
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CreaOrdenPending(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)
	env.addAccount("u1", "user")

	out, err := env.uc.Submit(context.Background(), identity("u1", "user", entity.RoleUser), dto.CreateOrderRequest{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.Equal(t, 3, out.Quantity)

	env.flush()
	assert.Equal(t, 1, env.auditLog.countAction("create_order"))
}

func TestSubmit_NoChequeaDisponibilidadDeStock(t *testing.T) {
	// Política explícita: el stock se consume en la aprobación, no al crear.
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)

	out, err := env.uc.Submit(context.Background(), identity("u1", "user", entity.RoleUser), dto.CreateOrderRequest{ProductID: "p1", Quantity: 100})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, out.Status)
}

func TestSubmit_ProductoInexistente(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Submit(context.Background(), identity("u1", "user", entity.RoleUser), dto.CreateOrderRequest{ProductID: "no-existe", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestSubmit_CantidadNoPositiva(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)

	for _, qty := range []int{0, -3} {
		_, err := env.uc.Submit(context.Background(), identity("u1", "user", entity.RoleUser), dto.CreateOrderRequest{ProductID: "p1", Quantity: qty})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d debe rechazarse", qty)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve
// ──────────────────────────────────────────────────────────────────────────────

func submitOrder(t *testing.T, env *testEnv, accountID, productID string, qty int) string {
	t.Helper()
	out, err := env.uc.Submit(context.Background(), identity(accountID, "user", entity.RoleUser), dto.CreateOrderRequest{ProductID: productID, Quantity: qty})
	require.NoError(t, err)
	return out.ID
}

func TestApprove_CambiaEstadoYDescuentaStock(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)
	orderID := submitOrder(t, env, "u1", "p1", 3)

	err := env.uc.Approve(context.Background(), identity("m1", "manager", entity.RoleManager), orderID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusApproved, env.store.orders[orderID].Status)
	assert.Equal(t, 2, env.store.products["p1"].Quantity)

	env.flush()
	assert.Equal(t, 1, env.auditLog.countAction("approve_order"))
}

func TestApprove_OrdenYaTerminal_FallaSinEfectos(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)
	orderID := submitOrder(t, env, "u1", "p1", 3)

	manager := identity("m1", "manager", entity.RoleManager)
	require.NoError(t, env.uc.Approve(context.Background(), manager, orderID))

	// Segundo approve: transición desde estado terminal.
	err := env.uc.Approve(context.Background(), manager, orderID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Sin efectos observables: ni stock ni auditoría duplicada.
	assert.Equal(t, 2, env.store.products["p1"].Quantity)
	env.flush()
	assert.Equal(t, 1, env.auditLog.countAction("approve_order"))
}

func TestApprove_OrdenInexistente(t *testing.T) {
	env := newTestEnv(t)

	err := env.uc.Approve(context.Background(), identity("m1", "manager", entity.RoleManager), "no-existe")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestApprove_PermiteStockNegativo(t *testing.T) {
	// Comportamiento histórico: el descuento no aplica piso.
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)
	orderID := submitOrder(t, env, "u1", "p1", 100)

	require.NoError(t, env.uc.Approve(context.Background(), identity("m1", "manager", entity.RoleManager), orderID))
	assert.Equal(t, -95, env.store.products["p1"].Quantity)
}

func TestApprove_FallaEntreEscrituras_NoDejaEstadoParcial(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)
	orderID := submitOrder(t, env, "u1", "p1", 3)

	// Falla inyectada después del flip de estado, en el update de stock.
	env.tx.failAdjust = true
	err := env.uc.Approve(context.Background(), identity("m1", "manager", entity.RoleManager), orderID)
	require.Error(t, err)

	// Todo o nada: ni el estado ni el stock cambiaron, y no hay auditoría.
	assert.Equal(t, entity.OrderStatusPending, env.store.orders[orderID].Status)
	assert.Equal(t, 5, env.store.products["p1"].Quantity)

	// Recuperación: sin la falla, la aprobación completa ambas escrituras.
	env.tx.failAdjust = false
	require.NoError(t, env.uc.Approve(context.Background(), identity("m1", "manager", entity.RoleManager), orderID))
	assert.Equal(t, entity.OrderStatusApproved, env.store.orders[orderID].Status)
	assert.Equal(t, 2, env.store.products["p1"].Quantity)

	env.flush()
	assert.Equal(t, 1, env.auditLog.countAction("approve_order"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reject
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_NoTocaStock(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)
	orderID := submitOrder(t, env, "u1", "p1", 3)

	require.NoError(t, env.uc.Reject(context.Background(), identity("m1", "manager", entity.RoleManager), orderID))

	assert.Equal(t, entity.OrderStatusRejected, env.store.orders[orderID].Status)
	assert.Equal(t, 5, env.store.products["p1"].Quantity)
}

func TestReject_LuegoApprove_Falla(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)
	orderID := submitOrder(t, env, "u1", "p1", 3)

	manager := identity("m1", "manager", entity.RoleManager)
	require.NoError(t, env.uc.Reject(context.Background(), manager, orderID))

	err := env.uc.Approve(context.Background(), manager, orderID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 5, env.store.products["p1"].Quantity)
}

func TestReject_OrdenYaRechazada_Falla(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 5)
	orderID := submitOrder(t, env, "u1", "p1", 3)

	manager := identity("m1", "manager", entity.RoleManager)
	require.NoError(t, env.uc.Reject(context.Background(), manager, orderID))
	assert.ErrorIs(t, env.uc.Reject(context.Background(), manager, orderID), domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// List
// ──────────────────────────────────────────────────────────────────────────────

func TestList_RolUserVeSoloLasPropias(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 50)
	env.addAccount("u1", "ana")
	env.addAccount("u2", "beto")
	submitOrder(t, env, "u1", "p1", 1)
	submitOrder(t, env, "u2", "p1", 2)
	submitOrder(t, env, "u2", "p1", 3)

	own, err := env.uc.List(context.Background(), identity("u2", "beto", entity.RoleUser))
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, o := range own {
		assert.Equal(t, "beto", o.Requester)
	}
}

func TestList_ManagerYAdminVenTodas_ConNombresJoineados(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("p1", "Widget", 50)
	env.addAccount("u1", "ana")
	env.addAccount("u2", "beto")
	submitOrder(t, env, "u1", "p1", 1)
	submitOrder(t, env, "u2", "p1", 2)

	for _, role := range []string{entity.RoleManager, entity.RoleAdmin} {
		all, err := env.uc.List(context.Background(), identity("x", "jefe", role))
		require.NoError(t, err)
		require.Len(t, all, 2, "rol %s debe ver todas las órdenes", role)
		for _, o := range all {
			assert.Equal(t, "Widget", o.ProductName)
			assert.NotEmpty(t, o.Requester)
			assert.False(t, o.CreatedAt.After(time.Now()))
		}
	}
}
