/*
errors.go - Centralized error types for the rent engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The billing and api packages wrap these with additional context.

ERROR CATEGORIES:
  1. Ledger errors     - Payment cursor and contiguity violations
  2. Timeline errors   - Missing or inconsistent stay/rate history
  3. Lookup errors     - Referenced records that don't exist

USAGE:
  Callers branch with errors.Is():

    if errors.Is(err, rent.ErrExceedsStay) {
        // reject the request with the stay's close date
    }
*/
package rent

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoStayHistory is returned when a tenant has never been assigned a
	// room. Pending-rent reads treat this as "zero owed"; payment creation
	// treats it as a hard failure, since there is nothing to bill against.
	ErrNoStayHistory = errors.New("tenant has no stay history")

	// ErrNoUnpaidPeriod is returned when the next unbilled date does not
	// fall inside any stay: every day is already settled, or the date lands
	// in a gap between stays.
	ErrNoUnpaidPeriod = errors.New("no stay exists for the unpaid period")

	// ErrInvalidRange is returned when a requested paid-upto date precedes
	// the computed paid-from date.
	ErrInvalidRange = errors.New("paid-upto date is before the unpaid period")

	// ErrExceedsStay is returned when a requested paid-upto date extends
	// past a closed stay's end.
	ErrExceedsStay = errors.New("payment exceeds stay duration")

	// ErrMissingRateConfiguration marks a date range for which a room has
	// no rate period at all. Calculations soft-fail (the range contributes
	// zero) but the condition is surfaced for operator follow-up, since it
	// silently under-bills.
	ErrMissingRateConfiguration = errors.New("room has no rate configuration for period")

	// ErrLaterPaymentsExist is returned when deleting a payment that is not
	// the tenant's most recent settled window. Only the newest window may
	// ever be removed, so the settled timeline never develops a gap.
	ErrLaterPaymentsExist = errors.New("newer payments exist for this tenant")

	// ErrConcurrentLedgerConflict is returned when two payment commits race
	// and the ledger cursor moved between read and write. The caller should
	// retry the whole recompute-and-commit sequence.
	ErrConcurrentLedgerConflict = errors.New("concurrent ledger modification detected")

	// ErrNoActiveStay is returned by stay mutations that need an open stay
	// (room change, check-out) when the tenant has none.
	ErrNoActiveStay = errors.New("tenant has no active stay")

	// ErrStayOverlap is returned when opening a stay whose range overlaps
	// an existing stay for the same tenant.
	ErrStayOverlap = errors.New("stay overlaps an existing stay")

	// ErrTenantNotFound / ErrRoomNotFound / ErrPaymentNotFound are returned
	// for identifiers that resolve to no active record.
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrRoomFull is returned when a check-in would exceed room capacity.
	ErrRoomFull = errors.New("room is at full capacity")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ExceedsStayError reports how far a requested window runs past the stay.
type ExceedsStayError struct {
	PaidUpto Date
	StayEnd  Date
}

func (e *ExceedsStayError) Error() string {
	return fmt.Sprintf("payment exceeds stay duration: paid upto %s, stay ends %s",
		e.PaidUpto, e.StayEnd)
}

func (e *ExceedsStayError) Unwrap() error { return ErrExceedsStay }

// InvalidRangeError reports an inverted billing window.
type InvalidRangeError struct {
	PaidFrom Date
	PaidUpto Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("paid-upto %s is before the unpaid period starting %s",
		e.PaidUpto, e.PaidFrom)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// RateGapError identifies the room and range a rate gap covers.
type RateGapError struct {
	RoomID RoomID
	Range  Interval
}

func (e *RateGapError) Error() string {
	return fmt.Sprintf("room %s has no rate configuration for %s", e.RoomID, e.Range)
}

func (e *RateGapError) Unwrap() error { return ErrMissingRateConfiguration }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentLedgerConflict)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoStayHistory) ||
		errors.Is(err, ErrNoUnpaidPeriod) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrExceedsStay) ||
		errors.Is(err, ErrLaterPaymentsExist) ||
		errors.Is(err, ErrNoActiveStay) ||
		errors.Is(err, ErrStayOverlap) ||
		errors.Is(err, ErrRoomFull)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTenantNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}
