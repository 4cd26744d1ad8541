package rent_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/rent-engine/rent"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func openStay(id string, from rent.Date) rent.Stay {
	return rent.Stay{ID: id, TenantID: "t-1", RoomID: "room-1", RoomNumber: "101", FromDate: from}
}

func closedStay(id string, from, to rent.Date) rent.Stay {
	s := openStay(id, from)
	s.ToDate = &to
	return s
}

func payment(id string, paidFrom, paidUpto rent.Date) rent.Payment {
	return rent.Payment{
		ID:          rent.PaymentID(id),
		TenantID:    "t-1",
		Amount:      money("1000"),
		PaymentDate: paidUpto,
		PaidFrom:    paidFrom,
		PaidUpto:    paidUpto,
	}
}

// =============================================================================
// CURSOR DERIVATION
// =============================================================================

func TestNextUnbilledStart_NoPayments_StayStart(t *testing.T) {
	stays := []rent.Stay{openStay("s1", date(2026, time.January, 1))}

	got, err := rent.NextUnbilledStart(stays, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(date(2026, time.January, 1)) {
		t.Errorf("cursor = %v, want 2026-01-01", got)
	}
}

func TestNextUnbilledStart_AfterLatestPayment(t *testing.T) {
	// GIVEN: Two payments, recorded out of order
	// THEN: Cursor is the day after the greatest paidUpto

	stays := []rent.Stay{openStay("s1", date(2026, time.January, 1))}
	payments := []rent.Payment{
		payment("p2", date(2026, time.February, 1), date(2026, time.February, 28)),
		payment("p1", date(2026, time.January, 1), date(2026, time.January, 31)),
	}

	got, err := rent.NextUnbilledStart(stays, payments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(date(2026, time.March, 1)) {
		t.Errorf("cursor = %v, want 2026-03-01", got)
	}
}

func TestNextUnbilledStart_DeletedPaymentsIgnored(t *testing.T) {
	stays := []rent.Stay{openStay("s1", date(2026, time.January, 1))}
	deleted := payment("p2", date(2026, time.February, 1), date(2026, time.February, 28))
	deleted.Deleted = true
	payments := []rent.Payment{
		payment("p1", date(2026, time.January, 1), date(2026, time.January, 31)),
		deleted,
	}

	got, err := rent.NextUnbilledStart(stays, payments)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(date(2026, time.February, 1)) {
		t.Errorf("cursor = %v, want 2026-02-01 (deleted window must not count)", got)
	}
}

func TestNextUnbilledStart_NoStays(t *testing.T) {
	_, err := rent.NextUnbilledStart(nil, nil)
	if !errors.Is(err, rent.ErrNoStayHistory) {
		t.Errorf("expected ErrNoStayHistory, got %v", err)
	}
}

// =============================================================================
// BILLING WINDOW RESOLUTION
// =============================================================================

func TestResolveBillingWindow_ValidRequest(t *testing.T) {
	stays := []rent.Stay{openStay("s1", date(2026, time.January, 1))}
	payments := []rent.Payment{
		payment("p1", date(2026, time.January, 1), date(2026, time.January, 31)),
	}

	win, err := rent.ResolveBillingWindow(stays, payments, date(2026, time.February, 28))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !win.PaidFrom.Equal(date(2026, time.February, 1)) {
		t.Errorf("paidFrom = %v, want 2026-02-01", win.PaidFrom)
	}
	if win.Stay.ID != "s1" {
		t.Errorf("resolved stay = %s, want s1", win.Stay.ID)
	}
}

func TestResolveBillingWindow_EndBeforeCursor(t *testing.T) {
	stays := []rent.Stay{openStay("s1", date(2026, time.January, 1))}
	payments := []rent.Payment{
		payment("p1", date(2026, time.January, 1), date(2026, time.January, 31)),
	}

	_, err := rent.ResolveBillingWindow(stays, payments, date(2026, time.January, 15))
	if !errors.Is(err, rent.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestResolveBillingWindow_BeyondClosedStay(t *testing.T) {
	stays := []rent.Stay{closedStay("s1", date(2026, time.January, 1), date(2026, time.March, 31))}

	_, err := rent.ResolveBillingWindow(stays, nil, date(2026, time.April, 15))
	if !errors.Is(err, rent.ErrExceedsStay) {
		t.Errorf("expected ErrExceedsStay, got %v", err)
	}
}

func TestResolveBillingWindow_FullySettledStay(t *testing.T) {
	// GIVEN: A closed stay settled through its end
	// THEN: The cursor lands outside every stay

	stays := []rent.Stay{closedStay("s1", date(2026, time.January, 1), date(2026, time.January, 31))}
	payments := []rent.Payment{
		payment("p1", date(2026, time.January, 1), date(2026, time.January, 31)),
	}

	_, err := rent.ResolveBillingWindow(stays, payments, date(2026, time.February, 28))
	if !errors.Is(err, rent.ErrNoUnpaidPeriod) {
		t.Errorf("expected ErrNoUnpaidPeriod, got %v", err)
	}
}

func TestResolveBillingWindow_CursorInGapBetweenStays(t *testing.T) {
	// GIVEN: Settled through the first stay, second stay starts later
	// THEN: The cursor falls in the gap and resolution fails

	stays := []rent.Stay{
		closedStay("s1", date(2026, time.January, 1), date(2026, time.January, 31)),
		openStay("s2", date(2026, time.March, 1)),
	}
	payments := []rent.Payment{
		payment("p1", date(2026, time.January, 1), date(2026, time.January, 31)),
	}

	_, err := rent.ResolveBillingWindow(stays, payments, date(2026, time.March, 31))
	if !errors.Is(err, rent.ErrNoUnpaidPeriod) {
		t.Errorf("expected ErrNoUnpaidPeriod, got %v", err)
	}
}

// =============================================================================
// DELETION GUARD
// =============================================================================

func TestCanDeletePayment_LatestAllowed(t *testing.T) {
	p1 := payment("p1", date(2026, time.January, 1), date(2026, time.January, 31))
	p2 := payment("p2", date(2026, time.February, 1), date(2026, time.February, 28))

	if err := rent.CanDeletePayment([]rent.Payment{p1, p2}, p2); err != nil {
		t.Errorf("deleting the latest payment should be allowed, got %v", err)
	}
}

func TestCanDeletePayment_EarlierRejected(t *testing.T) {
	// GIVEN: A payment with a later window still on the books (Scenario:
	// removing the older one would punch a hole in the settled timeline)

	p1 := payment("p1", date(2026, time.January, 1), date(2026, time.January, 31))
	p2 := payment("p2", date(2026, time.February, 1), date(2026, time.February, 28))

	err := rent.CanDeletePayment([]rent.Payment{p1, p2}, p1)
	if !errors.Is(err, rent.ErrLaterPaymentsExist) {
		t.Errorf("expected ErrLaterPaymentsExist, got %v", err)
	}
}

func TestCanDeletePayment_DeletedLaterIgnored(t *testing.T) {
	p1 := payment("p1", date(2026, time.January, 1), date(2026, time.January, 31))
	p2 := payment("p2", date(2026, time.February, 1), date(2026, time.February, 28))
	p2.Deleted = true

	if err := rent.CanDeletePayment([]rent.Payment{p1, p2}, p1); err != nil {
		t.Errorf("soft-deleted later payment must not block, got %v", err)
	}
}

// =============================================================================
// PAYMENT CONTEXT
// =============================================================================

func TestBuildPaymentContext_OpenStayWithPending(t *testing.T) {
	// GIVEN: Open stay from Jan 1 at 3100/month, nothing paid, today Jan 31
	// THEN: paidFrom=Jan 1, cap=today, pending=3100.00

	stays := []rent.Stay{openStay("s1", date(2026, time.January, 1))}
	rates := []rent.RatePeriod{
		ratePeriod("r1", "3100", date(2026, time.January, 1), nil),
	}
	today := date(2026, time.January, 31)

	ctx, err := rent.BuildPaymentContext(stays, nil, rates, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.PaidFrom.Equal(date(2026, time.January, 1)) {
		t.Errorf("paidFrom = %v, want 2026-01-01", ctx.PaidFrom)
	}
	if ctx.MaxPaidUpto == nil || !ctx.MaxPaidUpto.Equal(today) {
		t.Errorf("maxPaidUpto = %v, want %v", ctx.MaxPaidUpto, today)
	}
	if got := ctx.PendingAmount.String(); got != "3100.00" {
		t.Errorf("pending = %s, want 3100.00", got)
	}
	if !ctx.HasActiveStay {
		t.Error("expected HasActiveStay")
	}
}

func TestBuildPaymentContext_ClosedStay_CapIsStayEnd(t *testing.T) {
	stays := []rent.Stay{closedStay("s1", date(2026, time.January, 1), date(2026, time.January, 20))}
	rates := []rent.RatePeriod{
		ratePeriod("r1", "3100", date(2026, time.January, 1), nil),
	}

	ctx, err := rent.BuildPaymentContext(stays, nil, rates, date(2026, time.January, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.MaxPaidUpto == nil || !ctx.MaxPaidUpto.Equal(date(2026, time.January, 20)) {
		t.Errorf("maxPaidUpto = %v, want the stay end 2026-01-20", ctx.MaxPaidUpto)
	}
	if ctx.HasActiveStay {
		t.Error("closed stay must not report HasActiveStay")
	}
}

func TestBuildPaymentContext_NothingPending_NilCap(t *testing.T) {
	// GIVEN: Paid through today
	// THEN: No cap and zero pending; there is nothing to bound

	stays := []rent.Stay{openStay("s1", date(2026, time.January, 1))}
	payments := []rent.Payment{
		payment("p1", date(2026, time.January, 1), date(2026, time.January, 31)),
	}
	rates := []rent.RatePeriod{
		ratePeriod("r1", "3100", date(2026, time.January, 1), nil),
	}

	ctx, err := rent.BuildPaymentContext(stays, payments, rates, date(2026, time.January, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.MaxPaidUpto != nil {
		t.Errorf("maxPaidUpto = %v, want nil when nothing is pending", ctx.MaxPaidUpto)
	}
	if !ctx.PendingAmount.IsZero() {
		t.Errorf("pending = %s, want 0.00", ctx.PendingAmount)
	}
	if !ctx.PaidFrom.Equal(date(2026, time.February, 1)) {
		t.Errorf("paidFrom = %v, want 2026-02-01", ctx.PaidFrom)
	}
}
