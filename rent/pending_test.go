package rent_test

import (
	"testing"
	"time"

	"github.com/warp/rent-engine/rent"
)

// =============================================================================
// SINGLE STAY
// =============================================================================

func TestCalculatePendingRent_FullMonth_NoPayments(t *testing.T) {
	// GIVEN: Open stay from Jan 1 at 3100/month (100.00/day in January),
	//        no payments
	// WHEN: Calculating as of Jan 31
	// THEN: One slice covering the month, total 3100.00

	result := rent.CalculatePendingRent(rent.PendingRentInput{
		TenantID: "t-1",
		AsOf:     date(2026, time.January, 31),
		Stays:    []rent.Stay{openStay("s1", date(2026, time.January, 1))},
		RatesByRoom: map[rent.RoomID][]rent.RatePeriod{
			"room-1": {ratePeriod("r1", "3100", date(2026, time.January, 1), nil)},
		},
	})

	if got := result.Total.String(); got != "3100.00" {
		t.Errorf("total = %s, want 3100.00", got)
	}
	if len(result.Breakdown) != 1 {
		t.Fatalf("expected 1 breakdown line, got %d", len(result.Breakdown))
	}
	line := result.Breakdown[0]
	if !line.From.Equal(date(2026, time.January, 1)) || !line.To.Equal(date(2026, time.January, 31)) {
		t.Errorf("line range = [%v, %v], want the whole of January", line.From, line.To)
	}
	if line.RoomNumber != "101" {
		t.Errorf("line room number = %s, want 101", line.RoomNumber)
	}
	if len(result.RateGaps) != 0 {
		t.Errorf("unexpected rate gaps: %v", result.RateGaps)
	}
}

func TestCalculatePendingRent_PartiallyPaid(t *testing.T) {
	// GIVEN: Same stay/rate, but Jan 1-15 already settled
	// THEN: Only Jan 16-31 owed: 16 days x 100.00

	result := rent.CalculatePendingRent(rent.PendingRentInput{
		TenantID: "t-1",
		AsOf:     date(2026, time.January, 31),
		Stays:    []rent.Stay{openStay("s1", date(2026, time.January, 1))},
		Payments: []rent.Payment{
			payment("p1", date(2026, time.January, 1), date(2026, time.January, 15)),
		},
		RatesByRoom: map[rent.RoomID][]rent.RatePeriod{
			"room-1": {ratePeriod("r1", "3100", date(2026, time.January, 1), nil)},
		},
	})

	if got := result.Total.String(); got != "1600.00" {
		t.Errorf("total = %s, want 1600.00", got)
	}
	if len(result.Breakdown) != 1 {
		t.Fatalf("expected 1 breakdown line, got %d", len(result.Breakdown))
	}
	if !result.Breakdown[0].From.Equal(date(2026, time.January, 16)) {
		t.Errorf("unpaid range starts %v, want 2026-01-16", result.Breakdown[0].From)
	}
}

func TestCalculatePendingRent_MidMonthRateChange(t *testing.T) {
	// GIVEN: Rent raised 3000 -> 3300 effective Jan 16, nothing paid
	// THEN: 15 days at 96.77 (1451.55) + 16 days at 106.45 (1703.20)

	result := rent.CalculatePendingRent(rent.PendingRentInput{
		TenantID: "t-1",
		AsOf:     date(2026, time.January, 31),
		Stays:    []rent.Stay{openStay("s1", date(2026, time.January, 1))},
		RatesByRoom: map[rent.RoomID][]rent.RatePeriod{
			"room-1": {
				ratePeriod("r1", "3000", date(2026, time.January, 1), datePtr(date(2026, time.January, 15))),
				ratePeriod("r2", "3300", date(2026, time.January, 16), nil),
			},
		},
	})

	if len(result.Breakdown) != 2 {
		t.Fatalf("expected 2 breakdown lines, got %d", len(result.Breakdown))
	}
	if got := result.Breakdown[0].Amount.String(); got != "1451.55" {
		t.Errorf("first line = %s, want 1451.55", got)
	}
	if got := result.Breakdown[1].Amount.String(); got != "1703.20" {
		t.Errorf("second line = %s, want 1703.20", got)
	}
	if got := result.Total.String(); got != "3154.75" {
		t.Errorf("total = %s, want 3154.75", got)
	}
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestCalculatePendingRent_NoStays_ZeroTotal(t *testing.T) {
	// A tenant with no stay history owes zero; that is an answer, not an
	// error.

	result := rent.CalculatePendingRent(rent.PendingRentInput{
		TenantID: "t-1",
		AsOf:     date(2026, time.January, 31),
	})

	if !result.Total.IsZero() {
		t.Errorf("total = %s, want zero", result.Total)
	}
	if result.Breakdown == nil || len(result.Breakdown) != 0 {
		t.Errorf("breakdown = %v, want empty non-nil slice", result.Breakdown)
	}
}

func TestCalculatePendingRent_StayStartsAfterAsOf_Skipped(t *testing.T) {
	result := rent.CalculatePendingRent(rent.PendingRentInput{
		TenantID: "t-1",
		AsOf:     date(2026, time.January, 31),
		Stays:    []rent.Stay{openStay("s1", date(2026, time.March, 1))},
		RatesByRoom: map[rent.RoomID][]rent.RatePeriod{
			"room-1": {ratePeriod("r1", "3100", date(2026, time.January, 1), nil)},
		},
	})

	if !result.Total.IsZero() {
		t.Errorf("future stay must not bill, got %s", result.Total)
	}
}

func TestCalculatePendingRent_FullySettled_ZeroTotal(t *testing.T) {
	result := rent.CalculatePendingRent(rent.PendingRentInput{
		TenantID: "t-1",
		AsOf:     date(2026, time.January, 31),
		Stays:    []rent.Stay{openStay("s1", date(2026, time.January, 1))},
		Payments: []rent.Payment{
			payment("p1", date(2026, time.January, 1), date(2026, time.January, 31)),
		},
		RatesByRoom: map[rent.RoomID][]rent.RatePeriod{
			"room-1": {ratePeriod("r1", "3100", date(2026, time.January, 1), nil)},
		},
	})

	if !result.Total.IsZero() {
		t.Errorf("total = %s, want zero", result.Total)
	}
	if len(result.Breakdown) != 0 {
		t.Errorf("unexpected breakdown: %v", result.Breakdown)
	}
}

func TestCalculatePendingRent_RateGapSurfaced(t *testing.T) {
	// GIVEN: The room has no rate before Jan 16
	// THEN: Jan 1-15 contributes zero but is reported as a gap

	result := rent.CalculatePendingRent(rent.PendingRentInput{
		TenantID: "t-1",
		AsOf:     date(2026, time.January, 31),
		Stays:    []rent.Stay{openStay("s1", date(2026, time.January, 1))},
		RatesByRoom: map[rent.RoomID][]rent.RatePeriod{
			"room-1": {ratePeriod("r2", "3300", date(2026, time.January, 16), nil)},
		},
	})

	if len(result.RateGaps) != 1 {
		t.Fatalf("expected 1 rate gap, got %v", result.RateGaps)
	}
	gap := result.RateGaps[0]
	if gap.RoomID != "room-1" {
		t.Errorf("gap room = %s, want room-1", gap.RoomID)
	}
	if !gap.Range.From.Equal(date(2026, time.January, 1)) || !gap.Range.To.Equal(date(2026, time.January, 15)) {
		t.Errorf("gap range = %v, want [2026-01-01, 2026-01-15]", gap.Range)
	}
	// Only Jan 16-31 billed: 3300/31 = 106.45/day x 16 days.
	if got := result.Total.String(); got != "1703.20" {
		t.Errorf("total = %s, want 1703.20", got)
	}
}

// =============================================================================
// MULTIPLE STAYS
// =============================================================================

func TestCalculatePendingRent_RoomChangeMidMonth(t *testing.T) {
	// GIVEN: Moved from room 101 (3100) to room 202 (3410) on Jan 16;
	//        old stay closed Jan 15, new stay opens Jan 16, nothing paid
	// THEN: Each stay bills its own room's rate

	moveOut := date(2026, time.January, 15)
	first := rent.Stay{
		ID: "s1", TenantID: "t-1", RoomID: "room-1", RoomNumber: "101",
		FromDate: date(2026, time.January, 1), ToDate: &moveOut,
	}
	second := rent.Stay{
		ID: "s2", TenantID: "t-1", RoomID: "room-2", RoomNumber: "202",
		FromDate: date(2026, time.January, 16),
	}

	result := rent.CalculatePendingRent(rent.PendingRentInput{
		TenantID: "t-1",
		AsOf:     date(2026, time.January, 31),
		Stays:    []rent.Stay{first, second},
		RatesByRoom: map[rent.RoomID][]rent.RatePeriod{
			"room-1": {ratePeriod("r1", "3100", date(2026, time.January, 1), nil)},
			"room-2": {{
				ID: "r2", RoomID: "room-2", RentAmount: money("3410"),
				EffectiveFrom: date(2026, time.January, 1),
			}},
		},
	})

	if len(result.Breakdown) != 2 {
		t.Fatalf("expected 2 breakdown lines, got %d", len(result.Breakdown))
	}
	// Room 101: 15 days x 100.00
	if got := result.Breakdown[0].Amount.String(); got != "1500.00" {
		t.Errorf("first stay amount = %s, want 1500.00", got)
	}
	if result.Breakdown[0].RoomNumber != "101" {
		t.Errorf("first line room = %s, want 101", result.Breakdown[0].RoomNumber)
	}
	// Room 202: 3410/31 = 110.00/day x 16 days
	if got := result.Breakdown[1].Amount.String(); got != "1760.00" {
		t.Errorf("second stay amount = %s, want 1760.00", got)
	}
	if result.Breakdown[1].RoomNumber != "202" {
		t.Errorf("second line room = %s, want 202", result.Breakdown[1].RoomNumber)
	}
	if got := result.Total.String(); got != "3260.00" {
		t.Errorf("total = %s, want 3260.00", got)
	}
}
