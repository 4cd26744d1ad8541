/*
cursor.go - The settled-ledger cursor and payment validation

PURPOSE:
  A tenant's payments form a contiguous ledger of settled billing windows.
  The cursor — the next unbilled date — is never stored; it is recomputed
  from the latest payment's end date every time, which makes reads naturally
  idempotent. This file derives the cursor, locates the stay that the next
  window must bill against, validates a requested window end, and guards
  deletion so the settled timeline never develops a gap.

INVARIANT:
  Sorted by PaidUpto, the non-deleted windows of a tenant are contiguous
  and non-overlapping. Enforced by construction here, not by a stored
  constraint; concurrent commits are serialized by the billing layer.
*/
package rent

// =============================================================================
// CURSOR DERIVATION
// =============================================================================

// LatestPayment returns the non-deleted payment with the greatest PaidUpto,
// or nil when the tenant has none.
func LatestPayment(payments []Payment) *Payment {
	var latest *Payment
	for i := range payments {
		p := &payments[i]
		if p.Deleted {
			continue
		}
		if latest == nil || p.PaidUpto.After(latest.PaidUpto) {
			latest = p
		}
	}
	return latest
}

// NextUnbilledStart derives the cursor: the day after the latest settled
// window, or the first stay's start date when nothing is settled yet.
// Stays must be ordered by FromDate ascending.
func NextUnbilledStart(stays []Stay, payments []Payment) (Date, error) {
	if len(stays) == 0 {
		return Date{}, ErrNoStayHistory
	}
	if latest := LatestPayment(payments); latest != nil {
		return latest.PaidUpto.AddDays(1), nil
	}
	return stays[0].FromDate, nil
}

// StayCovering returns the stay whose range contains the date, or nil.
func StayCovering(stays []Stay, d Date) *Stay {
	for i := range stays {
		if stays[i].Contains(d) {
			return &stays[i]
		}
	}
	return nil
}

// =============================================================================
// BILLING WINDOW RESOLUTION
// =============================================================================

// BillingWindow is the validated result of resolving a payment request:
// the derived start, the caller's end, and the stay being billed.
type BillingWindow struct {
	PaidFrom Date
	PaidUpto Date
	Stay     Stay
}

// ResolveBillingWindow computes the next unbilled start, finds the stay
// containing it, and validates the requested end date against both.
//
// Failures:
//   - ErrNoStayHistory: tenant was never assigned a room
//   - ErrNoUnpaidPeriod: the cursor falls in no stay (fully settled, or a
//     gap between stays)
//   - ErrInvalidRange: paidUpto precedes the cursor
//   - ErrExceedsStay: paidUpto runs past a closed stay's end
func ResolveBillingWindow(stays []Stay, payments []Payment, paidUpto Date) (BillingWindow, error) {
	paidFrom, err := NextUnbilledStart(stays, payments)
	if err != nil {
		return BillingWindow{}, err
	}

	stay := StayCovering(stays, paidFrom)
	if stay == nil {
		return BillingWindow{}, ErrNoUnpaidPeriod
	}

	if paidUpto.Before(paidFrom) {
		return BillingWindow{}, &InvalidRangeError{PaidFrom: paidFrom, PaidUpto: paidUpto}
	}
	if stay.ToDate != nil && paidUpto.After(*stay.ToDate) {
		return BillingWindow{}, &ExceedsStayError{PaidUpto: paidUpto, StayEnd: *stay.ToDate}
	}

	return BillingWindow{PaidFrom: paidFrom, PaidUpto: paidUpto, Stay: *stay}, nil
}

// =============================================================================
// DELETION GUARD
// =============================================================================

// CanDeletePayment permits soft-deleting a payment only when no other
// non-deleted payment for the tenant starts later. Removing anything but
// the newest window would punch a hole in the settled timeline.
func CanDeletePayment(payments []Payment, target Payment) error {
	for _, p := range payments {
		if p.Deleted || p.ID == target.ID {
			continue
		}
		if p.PaidFrom.After(target.PaidFrom) {
			return ErrLaterPaymentsExist
		}
	}
	return nil
}

// =============================================================================
// PAYMENT CONTEXT - Read-only preview for the payment form
// =============================================================================

// PaymentContext is everything a payment form needs before committing:
// the derived window start, the cap on the window end, and what is owed as
// of today. MaxPaidUpto is nil when nothing is currently owed — there is
// no amount to cap, so a bounding date would be meaningless.
type PaymentContext struct {
	PaidFrom      Date
	MaxPaidUpto   *Date
	PendingAmount Money
	AsOf          Date
	HasActiveStay bool
}

// BuildPaymentContext computes the preview without creating a record.
// The pending amount considers only the stay containing the cursor, clipped
// to today, matching what the next payment could actually settle.
func BuildPaymentContext(stays []Stay, payments []Payment, rates []RatePeriod, today Date) (PaymentContext, error) {
	paidFrom, err := NextUnbilledStart(stays, payments)
	if err != nil {
		return PaymentContext{}, err
	}

	stay := StayCovering(stays, paidFrom)
	if stay == nil {
		return PaymentContext{}, ErrNoUnpaidPeriod
	}

	maxPaidUpto := today
	if stay.ToDate != nil {
		maxPaidUpto = *stay.ToDate
	}

	pending := ZeroMoney()
	if billable, ok := stay.BillableRange(today); ok {
		for _, unpaid := range Subtract(billable, PaymentWindows(payments)) {
			for _, slice := range SliceRent(unpaid.From, unpaid.To, rates) {
				pending = pending.Add(slice.Amount)
			}
		}
	}
	pending = pending.Round2()

	ctx := PaymentContext{
		PaidFrom:      paidFrom,
		PendingAmount: pending,
		AsOf:          today,
		HasActiveStay: stay.ToDate == nil,
	}
	if pending.IsPositive() {
		ctx.MaxPaidUpto = &maxPaidUpto
	} else {
		ctx.PendingAmount = ZeroMoney()
	}
	return ctx, nil
}
