package billing

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warp/rent-engine/rent"
)

// Clock supplies "today" so calculations are testable against fixed dates.
type Clock func() rent.Date

// Service is the domain facade over the pure rent engine. All payment
// mutations for a tenant are serialized through a per-tenant lock: two
// concurrent commits would otherwise both read the same ledger cursor and
// write overlapping windows.
type Service struct {
	store Store
	now   Clock

	mu          sync.Mutex
	tenantLocks map[rent.TenantID]*sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{
		store:       store,
		now:         rent.Today,
		tenantLocks: make(map[rent.TenantID]*sync.Mutex),
	}
}

// WithClock overrides the date source. Used by tests and scenarios.
func (s *Service) WithClock(now Clock) *Service {
	s.now = now
	return s
}

func (s *Service) lockTenant(id rent.TenantID) func() {
	s.mu.Lock()
	l, ok := s.tenantLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.tenantLocks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// =============================================================================
// READS
// =============================================================================

// PendingRent reconstructs what the tenant owes as of asOf. A tenant with
// no stay history owes zero; that is a result, not an error. Rate gaps are
// logged here so a mispriced room is visible to operators even though the
// calculation soft-fails.
func (s *Service) PendingRent(ctx context.Context, tenantID rent.TenantID, asOf rent.Date) (rent.PendingRentResult, error) {
	if _, err := s.requireTenant(ctx, tenantID); err != nil {
		return rent.PendingRentResult{}, err
	}

	input, err := s.loadPendingInput(ctx, s.store, tenantID, asOf)
	if err != nil {
		return rent.PendingRentResult{}, err
	}

	result := rent.CalculatePendingRent(input)
	for _, gap := range result.RateGaps {
		log.Printf("rate gap: %v", &gap)
	}
	return result, nil
}

// PaymentContext computes the payment-form preview: the derived window
// start, the cap on its end, and the pending amount as of today. When the
// pending amount rounds to zero the cap is reported as nil — there is
// nothing owed to bound.
func (s *Service) PaymentContext(ctx context.Context, tenantID rent.TenantID) (PaymentContextResult, error) {
	tenant, err := s.requireTenant(ctx, tenantID)
	if err != nil {
		return PaymentContextResult{}, err
	}

	stays, err := s.store.StaysByTenant(ctx, tenantID)
	if err != nil {
		return PaymentContextResult{}, err
	}
	if len(stays) == 0 {
		return PaymentContextResult{}, rent.ErrNoStayHistory
	}

	payments, err := s.store.PaymentsByTenant(ctx, tenantID)
	if err != nil {
		return PaymentContextResult{}, err
	}

	today := s.now()
	paidFrom, err := rent.NextUnbilledStart(stays, payments)
	if err != nil {
		return PaymentContextResult{}, err
	}
	stay := rent.StayCovering(stays, paidFrom)
	if stay == nil {
		return PaymentContextResult{}, rent.ErrNoUnpaidPeriod
	}

	rateFrom, rateTo := stay.FromDate, today
	if stay.ToDate != nil {
		rateTo = rent.MaxDate(today, *stay.ToDate)
	}
	rates, err := s.store.RatesOverlapping(ctx, stay.RoomID, rateFrom, rateTo)
	if err != nil {
		return PaymentContextResult{}, err
	}

	preview, err := rent.BuildPaymentContext(stays, payments, rates, today)
	if err != nil {
		return PaymentContextResult{}, err
	}

	return PaymentContextResult{
		TenantID:       tenantID,
		TenantName:     tenant.Name,
		PaymentContext: preview,
	}, nil
}

// PaymentHistory returns the tenant's non-deleted payments, newest first
// by payment date.
func (s *Service) PaymentHistory(ctx context.Context, tenantID rent.TenantID) ([]rent.Payment, error) {
	if _, err := s.requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	payments, err := s.store.PaymentsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	// PaymentsByTenant orders by paid_upto for ledger use; history wants
	// recency of the transaction itself.
	sortPaymentsByDateDesc(payments)
	return payments, nil
}

// =============================================================================
// PAYMENT MUTATIONS
// =============================================================================

// RecordPayment derives the next unbilled window start, validates the
// requested end against the covering stay, and commits the payment. The
// insert re-reads the ledger inside the store transaction and fails with
// ErrConcurrentLedgerConflict if the cursor moved, so retried requests
// cannot produce overlapping windows even across processes.
func (s *Service) RecordPayment(ctx context.Context, req RecordPaymentRequest) (rent.Payment, error) {
	if _, err := s.requireTenant(ctx, req.TenantID); err != nil {
		return rent.Payment{}, err
	}

	unlock := s.lockTenant(req.TenantID)
	defer unlock()

	stays, err := s.store.StaysByTenant(ctx, req.TenantID)
	if err != nil {
		return rent.Payment{}, err
	}
	payments, err := s.store.PaymentsByTenant(ctx, req.TenantID)
	if err != nil {
		return rent.Payment{}, err
	}

	window, err := rent.ResolveBillingWindow(stays, payments, req.PaidUpto)
	if err != nil {
		return rent.Payment{}, err
	}

	paymentDate := s.now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment := rent.Payment{
		ID:            rent.PaymentID(uuid.NewString()),
		TenantID:      req.TenantID,
		Amount:        req.Amount.Round2(),
		PaymentDate:   paymentDate,
		PaidFrom:      window.PaidFrom,
		PaidUpto:      window.PaidUpto,
		FrequencyCode: req.FrequencyCode,
		ModeCode:      req.ModeCode,
		Notes:         req.Notes,
		CreatedBy:     req.CreatedBy,
		CreatedAt:     time.Now().UTC(),
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		current, err := tx.PaymentsByTenant(ctx, req.TenantID)
		if err != nil {
			return err
		}
		checkFrom, err := rent.NextUnbilledStart(stays, current)
		if err != nil {
			return err
		}
		if !checkFrom.Equal(window.PaidFrom) {
			return rent.ErrConcurrentLedgerConflict
		}
		return tx.InsertPayment(ctx, payment)
	})
	if err != nil {
		return rent.Payment{}, err
	}

	return payment, nil
}

// DeletePayment soft-deletes a payment, rejected unless it is the tenant's
// most recent settled window. Anything else would leave a gap in the
// middle of the settled timeline.
func (s *Service) DeletePayment(ctx context.Context, id rent.PaymentID, actor string) error {
	payment, err := s.store.PaymentByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil || payment.Deleted {
		return rent.ErrPaymentNotFound
	}

	unlock := s.lockTenant(payment.TenantID)
	defer unlock()

	payments, err := s.store.PaymentsByTenant(ctx, payment.TenantID)
	if err != nil {
		return err
	}
	if err := rent.CanDeletePayment(payments, *payment); err != nil {
		return err
	}

	return s.store.SoftDeletePayment(ctx, id, actor, time.Now().UTC())
}

// =============================================================================
// OCCUPANCY MUTATIONS
// =============================================================================

// CheckIn opens a stay for the tenant in the room. Rejected when the room
// is at capacity or when the new range would overlap an existing stay.
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (rent.Stay, error) {
	if _, err := s.requireTenant(ctx, req.TenantID); err != nil {
		return rent.Stay{}, err
	}
	room, err := s.store.Room(ctx, req.RoomID)
	if err != nil {
		return rent.Stay{}, err
	}
	if room == nil {
		return rent.Stay{}, rent.ErrRoomNotFound
	}

	unlock := s.lockTenant(req.TenantID)
	defer unlock()

	occupied, err := s.store.CountOpenStays(ctx, req.RoomID)
	if err != nil {
		return rent.Stay{}, err
	}
	if occupied >= room.Capacity {
		return rent.Stay{}, rent.ErrRoomFull
	}

	stays, err := s.store.StaysByTenant(ctx, req.TenantID)
	if err != nil {
		return rent.Stay{}, err
	}
	newRange := rent.Interval{From: req.FromDate, To: farFuture()}
	if req.ToDate != nil {
		newRange.To = *req.ToDate
	}
	for _, existing := range stays {
		existingTo := farFuture()
		if existing.ToDate != nil {
			existingTo = *existing.ToDate
		}
		if newRange.Overlaps(rent.Interval{From: existing.FromDate, To: existingTo}) {
			return rent.Stay{}, rent.ErrStayOverlap
		}
	}

	stay := rent.Stay{
		ID:         uuid.NewString(),
		TenantID:   req.TenantID,
		RoomID:     req.RoomID,
		RoomNumber: room.Number,
		FromDate:   req.FromDate,
		ToDate:     req.ToDate,
	}
	if err := s.store.OpenStay(ctx, stay); err != nil {
		return rent.Stay{}, err
	}
	return stay, nil
}

// ChangeRoom closes the tenant's open stay on the move date and opens a
// stay in the new room the following day, in one store transaction. The
// old room bills through the move date; the new one starts the day after,
// so no day is ever billed in two rooms.
func (s *Service) ChangeRoom(ctx context.Context, tenantID rent.TenantID, newRoomID rent.RoomID, on rent.Date) (rent.Stay, error) {
	if _, err := s.requireTenant(ctx, tenantID); err != nil {
		return rent.Stay{}, err
	}
	room, err := s.store.Room(ctx, newRoomID)
	if err != nil {
		return rent.Stay{}, err
	}
	if room == nil {
		return rent.Stay{}, rent.ErrRoomNotFound
	}

	unlock := s.lockTenant(tenantID)
	defer unlock()

	stays, err := s.store.StaysByTenant(ctx, tenantID)
	if err != nil {
		return rent.Stay{}, err
	}
	active := openStay(stays)
	if active == nil {
		return rent.Stay{}, rent.ErrNoActiveStay
	}
	if active.RoomID == newRoomID {
		return rent.Stay{}, fmt.Errorf("tenant already occupies room %s: %w", newRoomID, rent.ErrStayOverlap)
	}
	if on.Before(active.FromDate) {
		return rent.Stay{}, fmt.Errorf("move date %s precedes stay start %s: %w",
			on, active.FromDate, rent.ErrInvalidRange)
	}

	occupied, err := s.store.CountOpenStays(ctx, newRoomID)
	if err != nil {
		return rent.Stay{}, err
	}
	if occupied >= room.Capacity {
		return rent.Stay{}, rent.ErrRoomFull
	}

	next := rent.Stay{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		RoomID:     newRoomID,
		RoomNumber: room.Number,
		FromDate:   on.AddDays(1),
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.CloseStay(ctx, active.ID, on); err != nil {
			return err
		}
		return tx.OpenStay(ctx, next)
	})
	if err != nil {
		return rent.Stay{}, err
	}
	return next, nil
}

// CheckOut closes the tenant's open stay on the given date.
func (s *Service) CheckOut(ctx context.Context, tenantID rent.TenantID, on rent.Date) error {
	if _, err := s.requireTenant(ctx, tenantID); err != nil {
		return err
	}

	unlock := s.lockTenant(tenantID)
	defer unlock()

	stays, err := s.store.StaysByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	active := openStay(stays)
	if active == nil {
		return rent.ErrNoActiveStay
	}
	if on.Before(active.FromDate) {
		return fmt.Errorf("check-out date %s precedes stay start %s: %w",
			on, active.FromDate, rent.ErrInvalidRange)
	}
	return s.store.CloseStay(ctx, active.ID, on)
}

// =============================================================================
// RATE MUTATIONS
// =============================================================================

// ChangeRate closes the room's current rate period the day before
// effectiveFrom and opens the new one, atomically. The room's display rent
// is updated in the same transaction.
func (s *Service) ChangeRate(ctx context.Context, roomID rent.RoomID, amount rent.Money, isAC bool, effectiveFrom rent.Date) (rent.RatePeriod, error) {
	room, err := s.store.Room(ctx, roomID)
	if err != nil {
		return rent.RatePeriod{}, err
	}
	if room == nil {
		return rent.RatePeriod{}, rent.ErrRoomNotFound
	}

	current, err := s.store.CurrentRate(ctx, roomID)
	if err != nil {
		return rent.RatePeriod{}, err
	}
	if current != nil && !effectiveFrom.After(current.EffectiveFrom) {
		return rent.RatePeriod{}, fmt.Errorf("effective-from %s does not follow current period start %s: %w",
			effectiveFrom, current.EffectiveFrom, rent.ErrInvalidRange)
	}

	next := rent.RatePeriod{
		ID:            uuid.NewString(),
		RoomID:        roomID,
		RentAmount:    amount.Round2(),
		IsAC:          isAC,
		EffectiveFrom: effectiveFrom,
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		if current != nil {
			if err := tx.CloseRate(ctx, current.ID, effectiveFrom.AddDays(-1)); err != nil {
				return err
			}
		}
		if err := tx.OpenRate(ctx, next); err != nil {
			return err
		}
		updated := *room
		updated.RentAmount = next.RentAmount
		updated.IsAC = isAC
		return tx.SaveRoom(ctx, updated)
	})
	if err != nil {
		return rent.RatePeriod{}, err
	}
	return next, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Service) requireTenant(ctx context.Context, id rent.TenantID) (*Tenant, error) {
	tenant, err := s.store.Tenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil || tenant.Deleted {
		return nil, rent.ErrTenantNotFound
	}
	return tenant, nil
}

func (s *Service) loadPendingInput(ctx context.Context, store Store, tenantID rent.TenantID, asOf rent.Date) (rent.PendingRentInput, error) {
	stays, err := store.StaysByTenant(ctx, tenantID)
	if err != nil {
		return rent.PendingRentInput{}, err
	}
	payments, err := store.PaymentsByTenant(ctx, tenantID)
	if err != nil {
		return rent.PendingRentInput{}, err
	}

	// A tenant can occupy the same room across separate stays; widen the
	// query window per room so each room's history is loaded exactly once.
	windows := make(map[rent.RoomID]rent.Interval)
	for _, stay := range stays {
		billable, ok := stay.BillableRange(asOf)
		if !ok {
			continue
		}
		if w, seen := windows[stay.RoomID]; seen {
			billable = rent.Interval{
				From: rent.MinDate(w.From, billable.From),
				To:   rent.MaxDate(w.To, billable.To),
			}
		}
		windows[stay.RoomID] = billable
	}

	ratesByRoom := make(map[rent.RoomID][]rent.RatePeriod)
	for roomID, w := range windows {
		rates, err := store.RatesOverlapping(ctx, roomID, w.From, w.To)
		if err != nil {
			return rent.PendingRentInput{}, err
		}
		ratesByRoom[roomID] = rates
	}

	return rent.PendingRentInput{
		TenantID:    tenantID,
		AsOf:        asOf,
		Stays:       stays,
		Payments:    payments,
		RatesByRoom: ratesByRoom,
	}, nil
}

// farFuture stands in for an open stay's missing end when checking overlap.
func farFuture() rent.Date { return rent.NewDate(9999, time.December, 31) }

func openStay(stays []rent.Stay) *rent.Stay {
	for i := range stays {
		if stays[i].IsOpen() {
			return &stays[i]
		}
	}
	return nil
}

func sortPaymentsByDateDesc(payments []rent.Payment) {
	for i := 1; i < len(payments); i++ {
		for j := i; j > 0 && payments[j].PaymentDate.After(payments[j-1].PaymentDate); j-- {
			payments[j], payments[j-1] = payments[j-1], payments[j]
		}
	}
}
