package usecase_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/jhoicas/ecommerce-api/internal/domain/entity"
	"github.com/jhoicas/ecommerce-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos usados por los casos de uso de catálogo.
// ──────────────────────────────────────────────────────────────────────────────

type memDiscounts struct {
	byID map[string]*entity.Discount
}

var _ repository.DiscountRepository = (*memDiscounts)(nil)

func newMemDiscounts(ds ...*entity.Discount) *memDiscounts {
	m := &memDiscounts{byID: map[string]*entity.Discount{}}
	for _, d := range ds {
		m.byID[d.ID] = d
	}
	return m
}

func (m *memDiscounts) Create(_ context.Context, d *entity.Discount) error {
	cp := *d
	m.byID[d.ID] = &cp
	return nil
}

func (m *memDiscounts) GetByID(_ context.Context, id string) (*entity.Discount, error) {
	if d, ok := m.byID[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (m *memDiscounts) GetByCode(_ context.Context, code string) (*entity.Discount, error) {
	for _, d := range m.byID {
		if d.Code == code {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memDiscounts) List(context.Context) ([]*entity.Discount, error) {
	out := make([]*entity.Discount, 0, len(m.byID))
	for _, d := range m.byID {
		out = append(out, d)
	}
	return out, nil
}

func (m *memDiscounts) Update(ctx context.Context, d *entity.Discount) error { return m.Create(ctx, d) }

func (m *memDiscounts) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

// memAddresses implementa AddressRepository y AddressTxRunner (rollback por snapshot).
type memAddresses struct {
	mu   sync.Mutex
	byID map[string]entity.Address
	fail error
}

var _ repository.AddressRepository = (*memAddresses)(nil)

func newMemAddresses(as ...entity.Address) *memAddresses {
	m := &memAddresses{byID: map[string]entity.Address{}}
	for _, a := range as {
		m.byID[a.ID] = a
	}
	return m
}

func (m *memAddresses) RunAddresses(_ context.Context, fn func(repository.AddressRepository) error) error {
	m.mu.Lock()
	snapshot := make(map[string]entity.Address, len(m.byID))
	for k, v := range m.byID {
		snapshot[k] = v
	}
	m.mu.Unlock()
	if err := fn(m); err != nil {
		m.mu.Lock()
		m.byID = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memAddresses) FindMatch(_ context.Context, userID string, f entity.AddressFields) (*entity.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.UserID == userID && a.AddressFields == f {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memAddresses) Create(_ context.Context, a *entity.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[a.ID] = *a
	return nil
}

func (m *memAddresses) GetByID(_ context.Context, id string) (*entity.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *memAddresses) ListByUser(_ context.Context, userID string) ([]*entity.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Address
	for _, a := range m.byID {
		if a.UserID == userID {
			cp := a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memAddresses) Update(ctx context.Context, a *entity.Address) error { return m.Create(ctx, a) }

func (m *memAddresses) ClearRoleFlag(_ context.Context, userID string, role entity.AddressRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.byID {
		if a.UserID != userID {
			continue
		}
		if role == entity.AddressRoleBilling {
			a.IsBilling = false
		} else {
			a.IsShipping = false
		}
		m.byID[id] = a
	}
	return nil
}

func (m *memAddresses) SetRoleFlag(_ context.Context, id string, role entity.AddressRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	a := m.byID[id]
	if role == entity.AddressRoleBilling {
		a.IsBilling = true
	} else {
		a.IsShipping = true
	}
	m.byID[id] = a
	return nil
}

type memCategories struct {
	byID map[string]*entity.Category
}

var _ repository.CategoryRepository = (*memCategories)(nil)

func newMemCategories() *memCategories {
	return &memCategories{byID: map[string]*entity.Category{}}
}

func (m *memCategories) Create(_ context.Context, c *entity.Category) error {
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	if c, ok := m.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCategories) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range m.byID {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCategories) List(context.Context) ([]*entity.Category, error) { return nil, nil }

func (m *memCategories) Update(ctx context.Context, c *entity.Category) error {
	return m.Create(ctx, c)
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

// memStorage ObjectStorage en memoria.
type memStorage struct {
	objects map[string][]byte
	seq     int
}

func newMemStorage() *memStorage { return &memStorage{objects: map[string][]byte{}} }

func (s *memStorage) Put(_ context.Context, ext string, r io.Reader) (string, int64, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return "", 0, err
	}
	s.seq++
	key := string(rune('a'+s.seq)) + ext
	s.objects[key] = buf.Bytes()
	return key, n, nil
}

func (s *memStorage) URL(key string) string { return "/uploads/" + key }

func (s *memStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type bracketSanitizer struct{}

func (bracketSanitizer) Sanitize(s string) string { return "[" + s + "]" }

type memSettings struct {
	byKey map[string]*entity.Setting
}

var _ repository.SettingRepository = (*memSettings)(nil)

func (m *memSettings) Get(_ context.Context, key string) (*entity.Setting, error) {
	if s, ok := m.byKey[key]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *memSettings) List(context.Context) ([]*entity.Setting, error) { return nil, nil }

func (m *memSettings) Upsert(_ context.Context, s *entity.Setting) error {
	cp := *s
	m.byKey[s.Key] = &cp
	return nil
}

func (m *memSettings) Delete(_ context.Context, key string) error {
	delete(m.byKey, key)
	return nil
}
