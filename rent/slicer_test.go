package rent_test

import (
	"testing"
	"time"

	"github.com/warp/rent-engine/rent"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(s string) rent.Money {
	return rent.MustParseMoney(s)
}

func ratePeriod(id string, amount string, from rent.Date, to *rent.Date) rent.RatePeriod {
	return rent.RatePeriod{
		ID:            id,
		RoomID:        "room-1",
		RentAmount:    money(amount),
		EffectiveFrom: from,
		EffectiveTo:   to,
	}
}

func datePtr(d rent.Date) *rent.Date { return &d }

func sliceTotal(slices []rent.RentSlice) rent.Money {
	total := rent.ZeroMoney()
	for _, s := range slices {
		total = total.Add(s.Amount)
	}
	return total
}

// =============================================================================
// DAILY RATE ROUNDING
// =============================================================================

func TestSliceRent_DailyRate_ThirtyDayMonth(t *testing.T) {
	// GIVEN: 3000/month in April (30 days)
	// THEN: exactly 100.00/day

	rates := []rent.RatePeriod{
		ratePeriod("r1", "3000", date(2026, time.April, 1), nil),
	}
	slices := rent.SliceRent(date(2026, time.April, 1), date(2026, time.April, 30), rates)

	if len(slices) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(slices))
	}
	if got := slices[0].RentPerDay.String(); got != "100.00" {
		t.Errorf("rent per day = %s, want 100.00", got)
	}
	if got := slices[0].Amount.String(); got != "3000.00" {
		t.Errorf("amount = %s, want 3000.00", got)
	}
}

func TestSliceRent_DailyRate_ThirtyOneDayMonth(t *testing.T) {
	// GIVEN: 3000/month in January (31 days)
	// THEN: 3000/31 rounds half-away-from-zero to 96.77

	rates := []rent.RatePeriod{
		ratePeriod("r1", "3000", date(2026, time.January, 1), nil),
	}
	slices := rent.SliceRent(date(2026, time.January, 1), date(2026, time.January, 31), rates)

	if len(slices) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(slices))
	}
	if got := slices[0].RentPerDay.String(); got != "96.77" {
		t.Errorf("rent per day = %s, want 96.77", got)
	}
	// The amount derives from the rounded daily rate, not from 3000.
	if got := slices[0].Amount.String(); got != "2999.87" {
		t.Errorf("amount = %s, want 2999.87", got)
	}
}

func TestSliceRent_February_LeapYear(t *testing.T) {
	rates := []rent.RatePeriod{
		ratePeriod("r1", "2900", date(2024, time.February, 1), nil),
	}
	slices := rent.SliceRent(date(2024, time.February, 1), date(2024, time.February, 29), rates)

	if len(slices) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(slices))
	}
	if got := slices[0].RentPerDay.String(); got != "100.00" {
		t.Errorf("rent per day = %s, want 100.00 (2900/29)", got)
	}
}

// =============================================================================
// MONTH BOUNDARIES
// =============================================================================

func TestSliceRent_SplitsAtMonthBoundary(t *testing.T) {
	// GIVEN: A range spanning January into February
	// THEN: One slice per calendar month with that month's divisor

	rates := []rent.RatePeriod{
		ratePeriod("r1", "3100", date(2026, time.January, 1), nil),
	}
	slices := rent.SliceRent(date(2026, time.January, 20), date(2026, time.February, 10), rates)

	if len(slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(slices))
	}

	// Jan 20-31: 3100/31 = 100.00/day, 12 days
	if !slices[0].To.Equal(date(2026, time.January, 31)) {
		t.Errorf("first slice ends %v, want 2026-01-31", slices[0].To)
	}
	if got := slices[0].Amount.String(); got != "1200.00" {
		t.Errorf("january amount = %s, want 1200.00", got)
	}

	// Feb 1-10: 3100/28 = 110.7142... -> 110.71/day, 10 days
	if !slices[1].From.Equal(date(2026, time.February, 1)) {
		t.Errorf("second slice starts %v, want 2026-02-01", slices[1].From)
	}
	if got := slices[1].RentPerDay.String(); got != "110.71" {
		t.Errorf("february rent per day = %s, want 110.71", got)
	}
	if got := slices[1].Amount.String(); got != "1107.10" {
		t.Errorf("february amount = %s, want 1107.10", got)
	}
}

// =============================================================================
// RATE CHANGES
// =============================================================================

func TestSliceRent_SplitsAtRateChange(t *testing.T) {
	// GIVEN: Rent raised from 3000 to 3300 effective Jan 16
	// THEN: Two slices, each priced by its own period

	rates := []rent.RatePeriod{
		ratePeriod("r1", "3000", date(2026, time.January, 1), datePtr(date(2026, time.January, 15))),
		ratePeriod("r2", "3300", date(2026, time.January, 16), nil),
	}
	slices := rent.SliceRent(date(2026, time.January, 1), date(2026, time.January, 31), rates)

	if len(slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(slices))
	}

	// Jan 1-15 at 3000/31 = 96.77/day
	if got := slices[0].Amount.String(); got != "1451.55" {
		t.Errorf("first slice amount = %s, want 1451.55", got)
	}
	// Jan 16-31 at 3300/31 = 106.45/day, 16 days
	if got := slices[1].RentPerDay.String(); got != "106.45" {
		t.Errorf("second slice rent per day = %s, want 106.45", got)
	}
	if got := slices[1].Amount.String(); got != "1703.20" {
		t.Errorf("second slice amount = %s, want 1703.20", got)
	}

	if got := sliceTotal(slices).String(); got != "3154.75" {
		t.Errorf("total = %s, want 3154.75", got)
	}
}

func TestSliceRent_RateOutsideRange_NoSlices(t *testing.T) {
	// GIVEN: The only rate period ends before the billed range
	// THEN: No slices; the range is a pricing gap

	rates := []rent.RatePeriod{
		ratePeriod("r1", "3000", date(2025, time.January, 1), datePtr(date(2025, time.December, 31))),
	}
	slices := rent.SliceRent(date(2026, time.March, 1), date(2026, time.March, 31), rates)

	if len(slices) != 0 {
		t.Errorf("expected no slices, got %v", slices)
	}
}

func TestSliceRent_UnorderedRates_SlicesOrdered(t *testing.T) {
	// GIVEN: Rate periods supplied newest-first
	// THEN: Slices still come out in chronological order

	rates := []rent.RatePeriod{
		ratePeriod("r2", "3300", date(2026, time.January, 16), nil),
		ratePeriod("r1", "3000", date(2026, time.January, 1), datePtr(date(2026, time.January, 15))),
	}
	slices := rent.SliceRent(date(2026, time.January, 1), date(2026, time.January, 31), rates)

	if len(slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(slices))
	}
	if !slices[0].From.Equal(date(2026, time.January, 1)) || !slices[1].From.Equal(date(2026, time.January, 16)) {
		t.Errorf("slices out of order: %v then %v", slices[0], slices[1])
	}
}

func TestSliceRent_CoversEveryDayExactlyOnce(t *testing.T) {
	// GIVEN: Contiguous rate history over a multi-month range
	// THEN: Slice day counts sum to the range's day count

	rates := []rent.RatePeriod{
		ratePeriod("r1", "3000", date(2026, time.January, 1), datePtr(date(2026, time.February, 14))),
		ratePeriod("r2", "3250", date(2026, time.February, 15), nil),
	}
	from, to := date(2026, time.January, 10), date(2026, time.March, 20)
	slices := rent.SliceRent(from, to, rates)

	got := 0
	for _, s := range slices {
		got += s.Days()
	}
	if want := rent.InclusiveDays(from, to); got != want {
		t.Errorf("slices cover %d days, range has %d", got, want)
	}
}

// =============================================================================
// GAP DETECTION
// =============================================================================

func TestUncoveredRanges(t *testing.T) {
	// GIVEN: A hole between two rate periods
	// THEN: The hole is reported

	rates := []rent.RatePeriod{
		ratePeriod("r1", "3000", date(2026, time.January, 1), datePtr(date(2026, time.January, 10))),
		ratePeriod("r2", "3300", date(2026, time.January, 21), nil),
	}
	gaps := rent.UncoveredRanges(date(2026, time.January, 1), date(2026, time.January, 31), rates)

	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %v", gaps)
	}
	if !gaps[0].From.Equal(date(2026, time.January, 11)) || !gaps[0].To.Equal(date(2026, time.January, 20)) {
		t.Errorf("gap = %v, want [2026-01-11, 2026-01-20]", gaps[0])
	}
}

func TestUncoveredRanges_FullCoverage_Empty(t *testing.T) {
	rates := []rent.RatePeriod{
		ratePeriod("r1", "3000", date(2026, time.January, 1), nil),
	}
	gaps := rent.UncoveredRanges(date(2026, time.January, 1), date(2026, time.December, 31), rates)
	if len(gaps) != 0 {
		t.Errorf("expected no gaps, got %v", gaps)
	}
}
