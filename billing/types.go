// Package billing implements the occupancy-management domain on top of the
// pure rent engine. It loads timeline snapshots from a Store, serializes
// ledger mutations per tenant, and exposes the operations the host API
// calls: pending rent, payment context, payment recording and deletion,
// and the atomic stay/rate timeline mutations.
package billing

import (
	"time"

	"github.com/warp/rent-engine/rent"
)

// =============================================================================
// COLLABORATOR RECORDS
// =============================================================================

// Tenant is the person being billed. Everything beyond identity lives in
// the host CRUD layer; the engine only needs existence and soft-delete
// state.
type Tenant struct {
	ID        rent.TenantID
	Name      string
	Phone     string
	CreatedAt time.Time
	Deleted   bool
}

// Room is a rentable unit. RentAmount mirrors the room's current rate
// period for display; the rate history is authoritative for billing.
type Room struct {
	ID         rent.RoomID
	Number     string
	Capacity   int
	RentAmount rent.Money
	IsAC       bool
	CreatedAt  time.Time
}

// =============================================================================
// REQUESTS
// =============================================================================

// RecordPaymentRequest is the input to the only payment-mutating entry
// point. PaidFrom is never accepted from the caller; the service derives it
// from the ledger cursor.
type RecordPaymentRequest struct {
	TenantID      rent.TenantID
	PaidUpto      rent.Date
	Amount        rent.Money
	PaymentDate   *rent.Date // nil = today
	FrequencyCode string
	ModeCode      string
	Notes         string
	CreatedBy     string
}

// CheckInRequest opens a tenant's first stay in a room, or a new stay after
// a gap.
type CheckInRequest struct {
	TenantID rent.TenantID
	RoomID   rent.RoomID
	FromDate rent.Date
	ToDate   *rent.Date // usually nil: open-ended
}

// PaymentContextResult is the payment-form preview plus tenant identity.
type PaymentContextResult struct {
	TenantID   rent.TenantID
	TenantName string
	rent.PaymentContext
}
