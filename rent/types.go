/*
Package rent provides the core rent accounting engine.

PURPOSE:
  This package contains the pure types and algorithms that reconstruct how
  much rent a tenant owes as of any date. It combines three time-varying
  timelines — occupancy (which room, when), room rates (what price, when),
  and payments (which windows are settled) — using interval arithmetic,
  calendar-aware proration, and deterministic rounding.

KEY CONCEPTS IN THIS FILE (types.go):
  - Stay: one contiguous occupancy of a tenant in a room
  - RatePeriod: one contiguous pricing configuration for a room
  - Payment: a recorded rent payment settling an inclusive billing window
  - RentSlice: a prorated charge for a month- and rate-bounded sub-interval

DESIGN PRINCIPLES:
  1. Purity: every calculation takes immutable snapshots as plain arguments
     and performs no I/O; loaders live in the billing and store packages.
  2. Precision: decimal.Decimal for all money, rounded half-away-from-zero
     at two decimals, independently at each proration step.
  3. Inclusive ranges: every date range in this package is closed-closed.
     [Jan 1, Jan 31] is the whole of January, 31 days.
  4. Open ends: a nil ToDate / EffectiveTo means "still active".

SEE ALSO:
  - interval.go: closed-interval subtraction
  - slicer.go:   calendar-month proration
  - pending.go:  the owed-amount orchestration
  - cursor.go:   the settled-ledger cursor and payment validation
*/
package rent

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TenantID string
type RoomID string
type PaymentID string

// =============================================================================
// STAY - Occupancy timeline record
// =============================================================================

// Stay is one contiguous occupancy of a tenant in a room. Stays for a
// tenant never overlap and at most one is open (ToDate == nil) at a time.
// A closed stay is immutable.
type Stay struct {
	ID       string
	TenantID TenantID
	RoomID   RoomID

	// RoomNumber is denormalized onto the snapshot so breakdown lines can
	// be tagged without a second lookup.
	RoomNumber string

	FromDate Date
	ToDate   *Date // nil = currently active
}

// Contains reports whether the stay covers the given date.
func (s Stay) Contains(d Date) bool {
	if d.Before(s.FromDate) {
		return false
	}
	return s.ToDate == nil || d.BeforeOrEqual(*s.ToDate)
}

// IsOpen reports whether the stay is still active.
func (s Stay) IsOpen() bool { return s.ToDate == nil }

// BillableRange clips the stay to [FromDate, min(ToDate ?? asOf, asOf)].
// The second return is false when the clipped range is empty or inverted,
// e.g. a stay that begins after asOf.
func (s Stay) BillableRange(asOf Date) (Interval, bool) {
	to := asOf
	if s.ToDate != nil {
		to = MinDate(*s.ToDate, asOf)
	}
	if s.FromDate.After(to) {
		return Interval{}, false
	}
	return Interval{From: s.FromDate, To: to}, true
}

// =============================================================================
// RATE PERIOD - Pricing timeline record
// =============================================================================

// RatePeriod is one contiguous pricing configuration for a room. RentAmount
// is a monthly figure; proration happens in the slicer. Periods for a room
// never overlap and at most one is open (EffectiveTo == nil).
type RatePeriod struct {
	ID         string
	RoomID     RoomID
	RentAmount Money
	IsAC       bool
	EffectiveFrom Date
	EffectiveTo   *Date // nil = current rate
}

// OverlapsRange reports whether the period intersects [from, to].
func (rp RatePeriod) OverlapsRange(from, to Date) bool {
	if rp.EffectiveFrom.After(to) {
		return false
	}
	return rp.EffectiveTo == nil || rp.EffectiveTo.AfterOrEqual(from)
}

// RatesOverlapping filters rate periods to those intersecting [from, to],
// ordered by EffectiveFrom. Callers must treat the result as the complete
// rate history for the window; a sub-range covered by no period is a data
// gap that the slicer tolerates by producing no slice.
func RatesOverlapping(rates []RatePeriod, from, to Date) []RatePeriod {
	var out []RatePeriod
	for _, rp := range rates {
		if rp.OverlapsRange(from, to) {
			out = append(out, rp)
		}
	}
	sortRatesByEffectiveFrom(out)
	return out
}

// =============================================================================
// PAYMENT - Settled billing window
// =============================================================================

// Payment is a single recorded rent payment. PaidFrom/PaidUpto is the
// inclusive billing window it settles; Amount is what actually changed
// hands and may differ from the prorated rent (adjustments, goodwill).
// The frequency code is caller-supplied and informational only — it is
// never used to recompute dates.
type Payment struct {
	ID       PaymentID
	TenantID TenantID

	Amount      Money
	PaymentDate Date

	PaidFrom Date
	PaidUpto Date

	FrequencyCode string
	ModeCode      string
	Notes         string

	CreatedBy string
	CreatedAt time.Time

	Deleted   bool
	DeletedAt *time.Time
	DeletedBy string
}

// Window returns the inclusive billing window this payment settles.
func (p Payment) Window() Interval {
	return Interval{From: p.PaidFrom, To: p.PaidUpto}
}

// PaymentWindows collects the settled windows of non-deleted payments.
func PaymentWindows(payments []Payment) []Interval {
	var out []Interval
	for _, p := range payments {
		if !p.Deleted {
			out = append(out, p.Window())
		}
	}
	return out
}

// =============================================================================
// RENT SLICE - Prorated charge for a bounded sub-interval
// =============================================================================

// RentSlice is a charge for a sub-interval bounded by calendar-month and
// rate-change edges. RentPerDay is the monthly rate divided by the days in
// that slice's calendar month; Amount is RentPerDay times the inclusive day
// count. Both are rounded independently.
type RentSlice struct {
	From       Date
	To         Date
	RentPerDay Money
	Amount     Money
}

// Days returns the inclusive day count of the slice.
func (s RentSlice) Days() int { return InclusiveDays(s.From, s.To) }

func sortRatesByEffectiveFrom(rates []RatePeriod) {
	// Insertion sort: rate histories are tiny and usually already ordered.
	for i := 1; i < len(rates); i++ {
		for j := i; j > 0 && rates[j].EffectiveFrom.Before(rates[j-1].EffectiveFrom); j-- {
			rates[j], rates[j-1] = rates[j-1], rates[j]
		}
	}
}
