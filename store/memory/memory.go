// Package memory provides an in-memory billing.Store for tests and demos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/rent-engine/billing"
	"github.com/warp/rent-engine/rent"
)

// Store keeps every record in maps guarded by one RWMutex. WithTx holds
// the write lock for the whole function and snapshots state first, so a
// failed transaction rolls back and a committed one is observed atomically.
type Store struct {
	mu sync.RWMutex

	tenants  map[rent.TenantID]billing.Tenant
	rooms    map[rent.RoomID]billing.Room
	stays    map[string]rent.Stay
	rates    map[string]rent.RatePeriod
	payments map[rent.PaymentID]rent.Payment
}

func New() *Store {
	return &Store{
		tenants:  make(map[rent.TenantID]billing.Tenant),
		rooms:    make(map[rent.RoomID]billing.Room),
		stays:    make(map[string]rent.Stay),
		rates:    make(map[string]rent.RatePeriod),
		payments: make(map[rent.PaymentID]rent.Payment),
	}
}

var _ billing.Store = (*Store)(nil)

// =============================================================================
// TENANTS
// =============================================================================

func (m *Store) Tenant(_ context.Context, id rent.TenantID) (*billing.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tenants[id]
	if !ok || t.Deleted {
		return nil, nil
	}
	return &t, nil
}

func (m *Store) SaveTenant(_ context.Context, t billing.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tenants[t.ID] = t
	return nil
}

// =============================================================================
// ROOMS
// =============================================================================

func (m *Store) Room(_ context.Context, id rent.RoomID) (*billing.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Store) ListRooms(_ context.Context) ([]billing.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rooms := make([]billing.Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
	return rooms, nil
}

func (m *Store) SaveRoom(_ context.Context, r billing.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rooms[r.ID] = r
	return nil
}

// =============================================================================
// OCCUPANCY TIMELINE
// =============================================================================

func (m *Store) StaysByTenant(_ context.Context, tenantID rent.TenantID) ([]rent.Stay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stays []rent.Stay
	for _, s := range m.stays {
		if s.TenantID != tenantID {
			continue
		}
		if room, ok := m.rooms[s.RoomID]; ok {
			s.RoomNumber = room.Number
		}
		stays = append(stays, s)
	}
	sort.Slice(stays, func(i, j int) bool { return stays[i].FromDate.Before(stays[j].FromDate) })
	return stays, nil
}

func (m *Store) OpenStay(_ context.Context, stay rent.Stay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stays[stay.ID] = stay
	return nil
}

func (m *Store) CloseStay(_ context.Context, stayID string, on rent.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stays[stayID]
	if !ok {
		return rent.ErrNoActiveStay
	}
	s.ToDate = &on
	m.stays[stayID] = s
	return nil
}

func (m *Store) CountOpenStays(_ context.Context, roomID rent.RoomID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, s := range m.stays {
		if s.RoomID == roomID && s.ToDate == nil {
			count++
		}
	}
	return count, nil
}

// =============================================================================
// RATE TIMELINE
// =============================================================================

func (m *Store) RatesOverlapping(_ context.Context, roomID rent.RoomID, from, to rent.Date) ([]rent.RatePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []rent.RatePeriod
	for _, rp := range m.rates {
		if rp.RoomID == roomID && rp.OverlapsRange(from, to) {
			out = append(out, rp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EffectiveFrom.Before(out[j].EffectiveFrom) })
	return out, nil
}

func (m *Store) CurrentRate(_ context.Context, roomID rent.RoomID) (*rent.RatePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rp := range m.rates {
		if rp.RoomID == roomID && rp.EffectiveTo == nil {
			out := rp
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Store) OpenRate(_ context.Context, rp rent.RatePeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rates[rp.ID] = rp
	return nil
}

func (m *Store) CloseRate(_ context.Context, rateID string, on rent.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rp, ok := m.rates[rateID]
	if !ok {
		return rent.ErrRoomNotFound
	}
	rp.EffectiveTo = &on
	m.rates[rateID] = rp
	return nil
}

// =============================================================================
// PAYMENT LEDGER
// =============================================================================

func (m *Store) PaymentsByTenant(_ context.Context, tenantID rent.TenantID) ([]rent.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []rent.Payment
	for _, p := range m.payments {
		if p.TenantID == tenantID && !p.Deleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidUpto.Before(out[j].PaidUpto) })
	return out, nil
}

func (m *Store) PaymentByID(_ context.Context, id rent.PaymentID) (*rent.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Store) InsertPayment(_ context.Context, p rent.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.payments[p.ID] = p
	return nil
}

func (m *Store) SoftDeletePayment(_ context.Context, id rent.PaymentID, by string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok || p.Deleted {
		return rent.ErrPaymentNotFound
	}
	p.Deleted = true
	p.DeletedBy = by
	p.DeletedAt = &at
	m.payments[id] = p
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx runs fn against an unlocked view while holding the write lock,
// restoring the previous state if fn fails.
func (m *Store) WithTx(ctx context.Context, fn func(billing.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	backup := m.snapshotLocked()
	if err := fn(&txView{parent: m}); err != nil {
		m.restoreLocked(backup)
		return err
	}
	return nil
}

type stateSnapshot struct {
	stays    map[string]rent.Stay
	rates    map[string]rent.RatePeriod
	payments map[rent.PaymentID]rent.Payment
	rooms    map[rent.RoomID]billing.Room
}

func (m *Store) snapshotLocked() stateSnapshot {
	snap := stateSnapshot{
		stays:    make(map[string]rent.Stay, len(m.stays)),
		rates:    make(map[string]rent.RatePeriod, len(m.rates)),
		payments: make(map[rent.PaymentID]rent.Payment, len(m.payments)),
		rooms:    make(map[rent.RoomID]billing.Room, len(m.rooms)),
	}
	for k, v := range m.stays {
		snap.stays[k] = v
	}
	for k, v := range m.rates {
		snap.rates[k] = v
	}
	for k, v := range m.payments {
		snap.payments[k] = v
	}
	for k, v := range m.rooms {
		snap.rooms[k] = v
	}
	return snap
}

func (m *Store) restoreLocked(snap stateSnapshot) {
	m.stays = snap.stays
	m.rates = snap.rates
	m.payments = snap.payments
	m.rooms = snap.rooms
}

// txView forwards to the parent's internal state without re-locking; the
// parent holds the write lock for the duration of WithTx.
type txView struct {
	parent *Store
}

var _ billing.Store = (*txView)(nil)

func (t *txView) Tenant(_ context.Context, id rent.TenantID) (*billing.Tenant, error) {
	tn, ok := t.parent.tenants[id]
	if !ok || tn.Deleted {
		return nil, nil
	}
	return &tn, nil
}

func (t *txView) SaveTenant(_ context.Context, tn billing.Tenant) error {
	t.parent.tenants[tn.ID] = tn
	return nil
}

func (t *txView) Room(_ context.Context, id rent.RoomID) (*billing.Room, error) {
	r, ok := t.parent.rooms[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (t *txView) ListRooms(_ context.Context) ([]billing.Room, error) {
	rooms := make([]billing.Room, 0, len(t.parent.rooms))
	for _, r := range t.parent.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Number < rooms[j].Number })
	return rooms, nil
}

func (t *txView) SaveRoom(_ context.Context, r billing.Room) error {
	t.parent.rooms[r.ID] = r
	return nil
}

func (t *txView) StaysByTenant(_ context.Context, tenantID rent.TenantID) ([]rent.Stay, error) {
	var stays []rent.Stay
	for _, s := range t.parent.stays {
		if s.TenantID != tenantID {
			continue
		}
		if room, ok := t.parent.rooms[s.RoomID]; ok {
			s.RoomNumber = room.Number
		}
		stays = append(stays, s)
	}
	sort.Slice(stays, func(i, j int) bool { return stays[i].FromDate.Before(stays[j].FromDate) })
	return stays, nil
}

func (t *txView) OpenStay(_ context.Context, stay rent.Stay) error {
	t.parent.stays[stay.ID] = stay
	return nil
}

func (t *txView) CloseStay(_ context.Context, stayID string, on rent.Date) error {
	s, ok := t.parent.stays[stayID]
	if !ok {
		return rent.ErrNoActiveStay
	}
	s.ToDate = &on
	t.parent.stays[stayID] = s
	return nil
}

func (t *txView) CountOpenStays(_ context.Context, roomID rent.RoomID) (int, error) {
	count := 0
	for _, s := range t.parent.stays {
		if s.RoomID == roomID && s.ToDate == nil {
			count++
		}
	}
	return count, nil
}

func (t *txView) RatesOverlapping(_ context.Context, roomID rent.RoomID, from, to rent.Date) ([]rent.RatePeriod, error) {
	var out []rent.RatePeriod
	for _, rp := range t.parent.rates {
		if rp.RoomID == roomID && rp.OverlapsRange(from, to) {
			out = append(out, rp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EffectiveFrom.Before(out[j].EffectiveFrom) })
	return out, nil
}

func (t *txView) CurrentRate(_ context.Context, roomID rent.RoomID) (*rent.RatePeriod, error) {
	for _, rp := range t.parent.rates {
		if rp.RoomID == roomID && rp.EffectiveTo == nil {
			out := rp
			return &out, nil
		}
	}
	return nil, nil
}

func (t *txView) OpenRate(_ context.Context, rp rent.RatePeriod) error {
	t.parent.rates[rp.ID] = rp
	return nil
}

func (t *txView) CloseRate(_ context.Context, rateID string, on rent.Date) error {
	rp, ok := t.parent.rates[rateID]
	if !ok {
		return rent.ErrRoomNotFound
	}
	rp.EffectiveTo = &on
	t.parent.rates[rateID] = rp
	return nil
}

func (t *txView) PaymentsByTenant(_ context.Context, tenantID rent.TenantID) ([]rent.Payment, error) {
	var out []rent.Payment
	for _, p := range t.parent.payments {
		if p.TenantID == tenantID && !p.Deleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidUpto.Before(out[j].PaidUpto) })
	return out, nil
}

func (t *txView) PaymentByID(_ context.Context, id rent.PaymentID) (*rent.Payment, error) {
	p, ok := t.parent.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (t *txView) InsertPayment(_ context.Context, p rent.Payment) error {
	t.parent.payments[p.ID] = p
	return nil
}

func (t *txView) SoftDeletePayment(_ context.Context, id rent.PaymentID, by string, at time.Time) error {
	p, ok := t.parent.payments[id]
	if !ok || p.Deleted {
		return rent.ErrPaymentNotFound
	}
	p.Deleted = true
	p.DeletedBy = by
	p.DeletedAt = &at
	t.parent.payments[id] = p
	return nil
}

// Nested transactions just run in the enclosing one.
func (t *txView) WithTx(ctx context.Context, fn func(billing.Store) error) error {
	return fn(t)
}
