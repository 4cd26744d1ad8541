package rent

// =============================================================================
// RENT SLICER - Calendar-month proration across rate changes
// =============================================================================

// SliceRent partitions [from, to] at calendar-month boundaries and at
// rate-change boundaries, producing a prorated charge per slice.
//
// Rent is defined as a monthly amount. The daily rate for a slice is the
// monthly amount divided by the number of days in that slice's calendar
// month, so a 3000 rent is 100.00/day in a 30-day month and 96.77/day in a
// 31-day month. The divisor tracks the actual month on purpose: a fixed
// 30-day divisor would make a full month of occupancy bill to something
// other than the monthly rent.
//
// Rounding is half-away-from-zero at two decimals, applied to the daily
// rate first and then again to the slice amount; the amount is never
// derived from the unrounded daily rate.
//
// A sub-range covered by no rate period yields no slice. Callers that need
// to surface such gaps can compare slice coverage against the input range
// (see UncoveredRanges).
func SliceRent(from, to Date, rates []RatePeriod) []RentSlice {
	var result []RentSlice

	for _, rate := range RatesOverlapping(rates, from, to) {
		sliceFrom := MaxDate(from, rate.EffectiveFrom)
		sliceTo := to
		if rate.EffectiveTo != nil {
			sliceTo = MinDate(to, *rate.EffectiveTo)
		}
		if sliceFrom.After(sliceTo) {
			continue
		}

		cursor := sliceFrom
		for cursor.BeforeOrEqual(sliceTo) {
			periodStart := cursor
			periodEnd := MinDate(cursor.MonthEnd(), sliceTo)

			rentPerDay := rate.RentAmount.DivInt(periodStart.DaysInMonth()).Round2()
			days := InclusiveDays(periodStart, periodEnd)
			amount := rentPerDay.MulInt(days).Round2()

			result = append(result, RentSlice{
				From:       periodStart,
				To:         periodEnd,
				RentPerDay: rentPerDay,
				Amount:     amount,
			})

			cursor = periodEnd.AddDays(1)
		}
	}

	return result
}

// UncoveredRanges returns the sub-intervals of [from, to] that no rate
// period covers. A non-empty result means the room is mispriced for those
// days and the slicer silently contributed zero for them.
func UncoveredRanges(from, to Date, rates []RatePeriod) []Interval {
	var covered []Interval
	for _, rate := range rates {
		effTo := to
		if rate.EffectiveTo != nil {
			effTo = *rate.EffectiveTo
		}
		covered = append(covered, Interval{From: rate.EffectiveFrom, To: effTo})
	}
	return Subtract(Interval{From: from, To: to}, covered)
}
