/*
store.go - Persistence interface for the billing domain

PURPOSE:
  Defines the boundary between the domain logic and the database. Every
  read accessor returns active records only — soft-deleted tenants and
  payments are filtered here, so the pure rent package never reasons about
  deletion semantics.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite
  - store/memory: in-memory for tests and demos

ATOMIC DUAL WRITES:
  Room changes and rate changes close one timeline record and open another.
  Both writes must land together or not at all, so they run inside WithTx;
  a reader must never observe a closed-but-not-reopened timeline.
*/
package billing

import (
	"context"
	"time"

	"github.com/warp/rent-engine/rent"
)

// Store is the persistence boundary for the billing domain.
type Store interface {
	// Tenants (active only)
	Tenant(ctx context.Context, id rent.TenantID) (*Tenant, error)
	SaveTenant(ctx context.Context, t Tenant) error

	// Rooms
	Room(ctx context.Context, id rent.RoomID) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	SaveRoom(ctx context.Context, r Room) error

	// Occupancy timeline. StaysByTenant returns stays ordered by FromDate
	// ascending with RoomNumber populated. CountOpenStays counts occupants
	// with an open stay in the room.
	StaysByTenant(ctx context.Context, tenantID rent.TenantID) ([]rent.Stay, error)
	OpenStay(ctx context.Context, stay rent.Stay) error
	CloseStay(ctx context.Context, stayID string, on rent.Date) error
	CountOpenStays(ctx context.Context, roomID rent.RoomID) (int, error)

	// Rate timeline. RatesOverlapping mirrors the engine-side filter:
	// effective_from <= to AND (effective_to IS NULL OR effective_to >= from),
	// ordered by effective_from.
	RatesOverlapping(ctx context.Context, roomID rent.RoomID, from, to rent.Date) ([]rent.RatePeriod, error)
	CurrentRate(ctx context.Context, roomID rent.RoomID) (*rent.RatePeriod, error)
	OpenRate(ctx context.Context, rp rent.RatePeriod) error
	CloseRate(ctx context.Context, rateID string, on rent.Date) error

	// Payment ledger (non-deleted only, except PaymentByID which reports
	// deletion state so the guard can reject repeats).
	PaymentsByTenant(ctx context.Context, tenantID rent.TenantID) ([]rent.Payment, error)
	PaymentByID(ctx context.Context, id rent.PaymentID) (*rent.Payment, error)
	InsertPayment(ctx context.Context, p rent.Payment) error
	SoftDeletePayment(ctx context.Context, id rent.PaymentID, by string, at time.Time) error

	// WithTx executes fn within a transaction; fn's error rolls back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
