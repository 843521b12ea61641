package order_test

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/jhoicas/ecommerce-api/internal/domain"
	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore: base de datos en memoria con transacciones serializadas.
// RunOrder toma un snapshot, ejecuta fn y lo restaura si fn falla (rollback).
// ──────────────────────────────────────────────────────────────────────────────

var errInjected = errors.New("fallo inyectado")

type memState struct {
	users     map[string]entity.User
	addresses map[string]entity.Address
	orders    map[string]entity.Order
	items     []entity.OrderItem
	variants  map[string]entity.ProductVariant
	products  map[string]entity.Product
}

func (s memState) clone() memState {
	out := memState{
		users:     make(map[string]entity.User, len(s.users)),
		addresses: make(map[string]entity.Address, len(s.addresses)),
		orders:    make(map[string]entity.Order, len(s.orders)),
		items:     append([]entity.OrderItem(nil), s.items...),
		variants:  make(map[string]entity.ProductVariant, len(s.variants)),
		products:  make(map[string]entity.Product, len(s.products)),
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.addresses {
		out.addresses[k] = v
	}
	for k, v := range s.orders {
		out.orders[k] = v
	}
	for k, v := range s.variants {
		out.variants[k] = v
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	return out
}

type memStore struct {
	mu    sync.Mutex
	state memState

	txCount        int
	failDecrement  bool
	trackingLookup int
	// prependItems guarda cada línea al inicio, como un heap sin orden físico.
	prependItems bool
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		users:     map[string]entity.User{},
		addresses: map[string]entity.Address{},
		orders:    map[string]entity.Order{},
		variants:  map[string]entity.ProductVariant{},
		products:  map[string]entity.Product{},
	}}
}

func (s *memStore) addUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[u.ID] = u
}

func (s *memStore) addVariant(p entity.Product, v entity.ProductVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[p.ID] = p
	s.state.variants[v.ID] = v
}

func (s *memStore) addOrder(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.orders[o.ID] = o
}

func (s *memStore) stock(variantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.variants[variantID].StockQuantity
}

func (s *memStore) address(id string) entity.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.addresses[id]
}

func (s *memStore) counts() (orders, items, addresses int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.orders), len(s.state.items), len(s.state.addresses)
}

// RunOrder implementa order.TxRunner.
func (s *memStore) RunOrder(ctx context.Context, fn func(
	addressRepo repository.AddressRepository,
	orderRepo repository.OrderRepository,
	variantRepo repository.VariantRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++
	snapshot := s.state.clone()
	if err := fn(&memAddresses{s: s}, &memOrders{s: s}, &memVariants{s: s}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// pooled devuelve repos que toman el lock por operación (fuera de transacción).
func (s *memStore) pooled() (*lockedOrders, *lockedUsers) {
	return &lockedOrders{s: s}, &lockedUsers{s: s}
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos atados a la "transacción": el lock del store ya está tomado.
// ──────────────────────────────────────────────────────────────────────────────

type memAddresses struct{ s *memStore }

var _ repository.AddressRepository = (*memAddresses)(nil)

func (r *memAddresses) FindMatch(_ context.Context, userID string, f entity.AddressFields) (*entity.Address, error) {
	ids := make([]string, 0, len(r.s.state.addresses))
	for id := range r.s.state.addresses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a := r.s.state.addresses[id]
		if a.UserID == userID && a.AddressFields == f {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memAddresses) Create(_ context.Context, a *entity.Address) error {
	r.s.state.addresses[a.ID] = *a
	return nil
}

func (r *memAddresses) GetByID(_ context.Context, id string) (*entity.Address, error) {
	if a, ok := r.s.state.addresses[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r *memAddresses) ListByUser(context.Context, string) ([]*entity.Address, error) {
	return nil, nil
}
func (r *memAddresses) Update(context.Context, *entity.Address) error { return nil }
func (r *memAddresses) ClearRoleFlag(context.Context, string, entity.AddressRole) error {
	return nil
}
func (r *memAddresses) SetRoleFlag(context.Context, string, entity.AddressRole) error {
	return nil
}

type memOrders struct{ s *memStore }

var _ repository.OrderRepository = (*memOrders)(nil)

func (r *memOrders) TrackingNumberExists(_ context.Context, tracking string) (bool, error) {
	r.s.trackingLookup++
	for _, o := range r.s.state.orders {
		if o.TrackingNumber == tracking {
			return true, nil
		}
	}
	return false, nil
}

func (r *memOrders) Create(_ context.Context, o *entity.Order) error {
	for _, existing := range r.s.state.orders {
		if existing.TrackingNumber == o.TrackingNumber {
			return &domain.ConflictError{Message: "tracking_number duplicado"}
		}
	}
	r.s.state.orders[o.ID] = *o
	return nil
}

func (r *memOrders) CreateItem(_ context.Context, it *entity.OrderItem) error {
	if _, ok := r.s.state.orders[it.OrderID]; !ok {
		return errors.New("fk order_items.order_id")
	}
	if r.s.prependItems {
		r.s.state.items = append([]entity.OrderItem{*it}, r.s.state.items...)
		return nil
	}
	r.s.state.items = append(r.s.state.items, *it)
	return nil
}

func (r *memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	if o, ok := r.s.state.orders[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (r *memOrders) GetDetail(_ context.Context, id string) (*entity.OrderDetail, error) {
	o, ok := r.s.state.orders[id]
	if !ok {
		return nil, nil
	}
	d := &entity.OrderDetail{
		Order:           o,
		ShippingAddress: r.s.state.addresses[o.ShippingAddressID].AddressFields,
		BillingAddress:  r.s.state.addresses[o.BillingAddressID].AddressFields,
	}
	for _, it := range r.s.state.items {
		if it.OrderID != id {
			continue
		}
		line := entity.OrderItemDetail{OrderItem: it}
		if v, ok := r.s.state.variants[it.VariantID]; ok {
			line.VariantName = v.Name
			line.SKU = v.SKU
			line.ProductID = v.ProductID
			line.ProductName = r.s.state.products[v.ProductID].Name
		}
		d.Items = append(d.Items, line)
	}
	sort.SliceStable(d.Items, func(i, j int) bool { return d.Items[i].LineNo < d.Items[j].LineNo })
	return d, nil
}

func (r *memOrders) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	var out []*entity.Order
	for _, o := range r.s.state.orders {
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		cp := o
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memOrders) UpdateStatus(_ context.Context, id string, st entity.OrderStatus) error {
	o, ok := r.s.state.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = st
	r.s.state.orders[id] = o
	return nil
}

func (r *memOrders) UpdateStatusFrom(_ context.Context, id string, to entity.OrderStatus, from []entity.OrderStatus) (bool, error) {
	o, ok := r.s.state.orders[id]
	if !ok || !slices.Contains(from, o.Status) {
		return false, nil
	}
	o.Status = to
	r.s.state.orders[id] = o
	return true, nil
}

type memVariants struct{ s *memStore }

var _ repository.VariantRepository = (*memVariants)(nil)

func (r *memVariants) Create(_ context.Context, v *entity.ProductVariant) error {
	r.s.state.variants[v.ID] = *v
	return nil
}

func (r *memVariants) GetByID(_ context.Context, id string) (*entity.ProductVariant, error) {
	if v, ok := r.s.state.variants[id]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *memVariants) GetForUpdate(ctx context.Context, id string) (*entity.ProductVariant, error) {
	return r.GetByID(ctx, id)
}

func (r *memVariants) ListByProduct(context.Context, string) ([]*entity.ProductVariant, error) {
	return nil, nil
}
func (r *memVariants) Update(context.Context, *entity.ProductVariant) error { return nil }

func (r *memVariants) DecrementStock(_ context.Context, id string, qty int) error {
	if r.s.failDecrement {
		return errInjected
	}
	v := r.s.state.variants[id]
	v.StockQuantity -= qty
	r.s.state.variants[id] = v
	return nil
}

func (r *memVariants) SetStock(context.Context, string, int) error { return nil }
func (r *memVariants) Delete(context.Context, string) error        { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Repos "de pool": toman el lock en cada llamada.
// ──────────────────────────────────────────────────────────────────────────────

type lockedOrders struct{ s *memStore }

var _ repository.OrderRepository = (*lockedOrders)(nil)

func (r *lockedOrders) tx() *memOrders { return &memOrders{s: r.s} }

func (r *lockedOrders) TrackingNumberExists(ctx context.Context, t string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tx().TrackingNumberExists(ctx, t)
}

func (r *lockedOrders) Create(ctx context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tx().Create(ctx, o)
}

func (r *lockedOrders) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tx().CreateItem(ctx, it)
}

func (r *lockedOrders) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tx().GetByID(ctx, id)
}

func (r *lockedOrders) GetDetail(ctx context.Context, id string) (*entity.OrderDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tx().GetDetail(ctx, id)
}

func (r *lockedOrders) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tx().List(ctx, f)
}

func (r *lockedOrders) UpdateStatus(ctx context.Context, id string, st entity.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tx().UpdateStatus(ctx, id, st)
}

func (r *lockedOrders) UpdateStatusFrom(ctx context.Context, id string, to entity.OrderStatus, from []entity.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.tx().UpdateStatusFrom(ctx, id, to, from)
}

type lockedUsers struct{ s *memStore }

var _ repository.UserRepository = (*lockedUsers)(nil)

func (r *lockedUsers) Create(context.Context, *entity.User) error { return nil }

func (r *lockedUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.state.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *lockedUsers) GetByEmail(context.Context, string) (*entity.User, error)      { return nil, nil }
func (r *lockedUsers) GetByExternalID(context.Context, string) (*entity.User, error) { return nil, nil }
func (r *lockedUsers) Update(context.Context, *entity.User) error                    { return nil }
func (r *lockedUsers) List(context.Context, int, int) ([]*entity.User, error)        { return nil, nil }
func (r *lockedUsers) Delete(context.Context, string) error                          { return nil }
