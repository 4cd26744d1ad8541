/*
pending.go - Pending rent calculation

PURPOSE:
  Orchestrates the occupancy timeline, rate timeline, interval subtraction,
  and rent slicer into the answer operators actually want: how much does
  this tenant owe as of some date, and for which days at which rates.

ALGORITHM:
  For each stay, clip to [fromDate, min(toDate ?? asOf, asOf)], subtract
  every settled payment window, slice each unpaid remainder against the
  room's rate history, and accumulate the slices into a breakdown tagged
  with the room number. The grand total is rounded once more at the end.

SOFT FAILURES:
  A tenant with no stays owes zero — that is an answer, not an error.
  A room with no rate for some sub-range contributes zero for those days;
  the gap is reported on the result so the host can log and alert, because
  silence here means under-billing.
*/
package rent

// PendingRentInput is the immutable snapshot a calculation runs against.
// The billing layer loads it; this package never touches a store.
type PendingRentInput struct {
	TenantID TenantID
	AsOf     Date

	// Stays ordered by FromDate ascending.
	Stays []Stay

	// Payments with deleted records already filtered out or flagged.
	Payments []Payment

	// RatesByRoom holds each room's rate history overlapping the stay
	// windows being billed.
	RatesByRoom map[RoomID][]RatePeriod
}

// PendingRentLine is one slice of owed rent in the breakdown.
type PendingRentLine struct {
	From       Date
	To         Date
	RentPerDay Money
	Amount     Money
	RoomNumber string
}

// PendingRentResult is the total owed and its line-item breakdown.
type PendingRentResult struct {
	TenantID  TenantID
	AsOf      Date
	Total     Money
	Breakdown []PendingRentLine

	// RateGaps lists unpaid day ranges for which the room had no rate
	// period. They contribute zero to Total but must not go unnoticed.
	RateGaps []RateGapError
}

// CalculatePendingRent reconstructs the amount owed as of the input's AsOf
// date. A tenant with no stay history yields a zero-total, empty-breakdown
// result.
func CalculatePendingRent(in PendingRentInput) PendingRentResult {
	result := PendingRentResult{
		TenantID:  in.TenantID,
		AsOf:      in.AsOf,
		Total:     ZeroMoney(),
		Breakdown: []PendingRentLine{},
	}

	paid := PaymentWindows(in.Payments)

	for _, stay := range in.Stays {
		billable, ok := stay.BillableRange(in.AsOf)
		if !ok {
			continue
		}

		rates := in.RatesByRoom[stay.RoomID]

		for _, unpaid := range Subtract(billable, paid) {
			for _, slice := range SliceRent(unpaid.From, unpaid.To, rates) {
				result.Total = result.Total.Add(slice.Amount)
				result.Breakdown = append(result.Breakdown, PendingRentLine{
					From:       slice.From,
					To:         slice.To,
					RentPerDay: slice.RentPerDay,
					Amount:     slice.Amount,
					RoomNumber: stay.RoomNumber,
				})
			}

			for _, gap := range UncoveredRanges(unpaid.From, unpaid.To, rates) {
				result.RateGaps = append(result.RateGaps, RateGapError{
					RoomID: stay.RoomID,
					Range:  gap,
				})
			}
		}
	}

	result.Total = result.Total.Round2()
	return result
}
