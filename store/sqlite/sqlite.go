/*
Package sqlite provides the SQLite-backed billing.Store.

PURPOSE:
  Persists rooms, tenants, and the three timelines the engine reads:
  occupancy (stays), room rates (room_rate_history), and the payment
  ledger. In production, the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  tenants:           Billed persons (soft-deleted, never removed)
  rooms:             Rentable units with capacity and display rent
  stays:             Occupancy timeline; ToDate NULL = still resident
  room_rate_history: Rate timeline; effective_to NULL = current rate
  payments:          Append-style ledger; rows are soft-deleted, never
                     updated or removed, so the audit trail survives

DATE ENCODING:
  Billing dates are day-granular and stored as YYYY-MM-DD text, which
  compares correctly with SQLite's string ordering. Audit timestamps
  (created_at, deleted_at) are RFC3339.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  while a payment commits.

USAGE:
  store, err := sqlite.New("./data/rent.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := billing.NewService(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - billing/store.go: Interface definition
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/rent-engine/billing"
	"github.com/warp/rent-engine/rent"
)

// Store implements billing.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Tenants (soft-deleted)
	CREATE TABLE IF NOT EXISTS tenants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		created_at TEXT NOT NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE
	);

	-- Rooms
	CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		capacity INTEGER NOT NULL,
		rent_amount TEXT NOT NULL,
		is_ac BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- Occupancy timeline. to_date NULL means the stay is still open.
	CREATE TABLE IF NOT EXISTS stays (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_stays_tenant
		ON stays(tenant_id, from_date);
	CREATE INDEX IF NOT EXISTS idx_stays_room_open
		ON stays(room_id) WHERE to_date IS NULL;

	-- Rate timeline. effective_to NULL means the rate is current.
	CREATE TABLE IF NOT EXISTS room_rate_history (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		rent_amount TEXT NOT NULL,
		is_ac BOOLEAN NOT NULL DEFAULT FALSE,
		effective_from TEXT NOT NULL,
		effective_to TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_rates_room
		ON room_rate_history(room_id, effective_from);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_rates_room_current
		ON room_rate_history(room_id) WHERE effective_to IS NULL;

	-- Payment ledger. Rows are soft-deleted, never updated or removed.
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		paid_from TEXT NOT NULL,
		paid_upto TEXT NOT NULL,
		frequency_code TEXT,
		mode_code TEXT,
		notes TEXT,
		created_by TEXT,
		created_at TEXT NOT NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TEXT,
		deleted_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_payments_tenant
		ON payments(tenant_id, paid_upto);
	CREATE INDEX IF NOT EXISTS idx_payments_tenant_active
		ON payments(tenant_id) WHERE deleted = FALSE;
	`

	_, err := s.db.Exec(schema)
	return err
}

var _ billing.Store = (*Store)(nil)

// executor is satisfied by *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// TENANTS
// =============================================================================

// Tenant returns the tenant by ID, or nil if missing or soft-deleted.
func (s *Store) Tenant(ctx context.Context, id rent.TenantID) (*billing.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getTenant(ctx, s.db, id)
}

func getTenant(ctx context.Context, db executor, id rent.TenantID) (*billing.Tenant, error) {
	var t billing.Tenant
	var phone sql.NullString
	var createdAt string

	err := db.QueryRowContext(ctx,
		"SELECT id, name, phone, created_at, deleted FROM tenants WHERE id = ? AND deleted = FALSE",
		string(id),
	).Scan(&t.ID, &t.Name, &phone, &createdAt, &t.Deleted)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t.Phone = phone.String
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &t, nil
}

// SaveTenant inserts or updates a tenant.
func (s *Store) SaveTenant(ctx context.Context, t billing.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveTenant(ctx, s.db, t)
}

func saveTenant(ctx context.Context, db executor, t billing.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, phone, created_at, deleted)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			deleted = excluded.deleted
	`

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, query,
		string(t.ID), t.Name, nullString(t.Phone),
		createdAt.Format(time.RFC3339), t.Deleted,
	)
	return err
}

// =============================================================================
// ROOMS
// =============================================================================

// Room returns the room by ID, or nil if missing.
func (s *Store) Room(ctx context.Context, id rent.RoomID) (*billing.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getRoom(ctx, s.db, id)
}

func getRoom(ctx context.Context, db executor, id rent.RoomID) (*billing.Room, error) {
	var r billing.Room
	var rentAmount, createdAt string

	err := db.QueryRowContext(ctx,
		"SELECT id, number, capacity, rent_amount, is_ac, created_at FROM rooms WHERE id = ?",
		string(id),
	).Scan(&r.ID, &r.Number, &r.Capacity, &rentAmount, &r.IsAC, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.RentAmount = rent.MustParseMoney(rentAmount)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

// ListRooms returns all rooms ordered by number.
func (s *Store) ListRooms(ctx context.Context) ([]billing.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listRooms(ctx, s.db)
}

func listRooms(ctx context.Context, db executor) ([]billing.Room, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, number, capacity, rent_amount, is_ac, created_at FROM rooms ORDER BY number",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []billing.Room
	for rows.Next() {
		var r billing.Room
		var rentAmount, createdAt string
		if err := rows.Scan(&r.ID, &r.Number, &r.Capacity, &rentAmount, &r.IsAC, &createdAt); err != nil {
			return nil, err
		}
		r.RentAmount = rent.MustParseMoney(rentAmount)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// SaveRoom inserts or updates a room.
func (s *Store) SaveRoom(ctx context.Context, r billing.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveRoom(ctx, s.db, r)
}

func saveRoom(ctx context.Context, db executor, r billing.Room) error {
	query := `
		INSERT INTO rooms (id, number, capacity, rent_amount, is_ac, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			capacity = excluded.capacity,
			rent_amount = excluded.rent_amount,
			is_ac = excluded.is_ac
	`

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, query,
		string(r.ID), r.Number, r.Capacity, r.RentAmount.String(), r.IsAC,
		createdAt.Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// OCCUPANCY TIMELINE
// =============================================================================

// StaysByTenant returns the tenant's stays ordered by from_date ascending,
// with the room number joined in for display.
func (s *Store) StaysByTenant(ctx context.Context, tenantID rent.TenantID) ([]rent.Stay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return staysByTenant(ctx, s.db, tenantID)
}

func staysByTenant(ctx context.Context, db executor, tenantID rent.TenantID) ([]rent.Stay, error) {
	query := `
		SELECT s.id, s.tenant_id, s.room_id, r.number, s.from_date, s.to_date
		FROM stays s
		JOIN rooms r ON r.id = s.room_id
		WHERE s.tenant_id = ?
		ORDER BY s.from_date ASC
	`

	rows, err := db.QueryContext(ctx, query, string(tenantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stays []rent.Stay
	for rows.Next() {
		var stay rent.Stay
		var fromDate string
		var toDate sql.NullString
		if err := rows.Scan(&stay.ID, &stay.TenantID, &stay.RoomID, &stay.RoomNumber, &fromDate, &toDate); err != nil {
			return nil, err
		}
		stay.FromDate = parseDate(fromDate)
		stay.ToDate = parseNullDate(toDate)
		stays = append(stays, stay)
	}
	return stays, rows.Err()
}

// OpenStay inserts a stay record.
func (s *Store) OpenStay(ctx context.Context, stay rent.Stay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return openStay(ctx, s.db, stay)
}

func openStay(ctx context.Context, db executor, stay rent.Stay) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO stays (id, tenant_id, room_id, from_date, to_date) VALUES (?, ?, ?, ?, ?)",
		stay.ID, string(stay.TenantID), string(stay.RoomID),
		stay.FromDate.String(), nullDate(stay.ToDate),
	)
	return err
}

// CloseStay sets the stay's end date.
func (s *Store) CloseStay(ctx context.Context, stayID string, on rent.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return closeStay(ctx, s.db, stayID, on)
}

func closeStay(ctx context.Context, db executor, stayID string, on rent.Date) error {
	res, err := db.ExecContext(ctx,
		"UPDATE stays SET to_date = ? WHERE id = ?",
		on.String(), stayID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return rent.ErrNoActiveStay
	}
	return nil
}

// CountOpenStays counts current occupants of a room.
func (s *Store) CountOpenStays(ctx context.Context, roomID rent.RoomID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return countOpenStays(ctx, s.db, roomID)
}

func countOpenStays(ctx context.Context, db executor, roomID rent.RoomID) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stays WHERE room_id = ? AND to_date IS NULL",
		string(roomID),
	).Scan(&count)
	return count, err
}

// =============================================================================
// RATE TIMELINE
// =============================================================================

// RatesOverlapping returns the room's rate periods overlapping [from, to],
// ordered by effective_from ascending.
func (s *Store) RatesOverlapping(ctx context.Context, roomID rent.RoomID, from, to rent.Date) ([]rent.RatePeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ratesOverlapping(ctx, s.db, roomID, from, to)
}

func ratesOverlapping(ctx context.Context, db executor, roomID rent.RoomID, from, to rent.Date) ([]rent.RatePeriod, error) {
	query := `
		SELECT id, room_id, rent_amount, is_ac, effective_from, effective_to
		FROM room_rate_history
		WHERE room_id = ?
		  AND effective_from <= ?
		  AND (effective_to IS NULL OR effective_to >= ?)
		ORDER BY effective_from ASC
	`

	rows, err := db.QueryContext(ctx, query, string(roomID), to.String(), from.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []rent.RatePeriod
	for rows.Next() {
		rp, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rp)
	}
	return rates, rows.Err()
}

// CurrentRate returns the room's open-ended rate period, or nil if none.
func (s *Store) CurrentRate(ctx context.Context, roomID rent.RoomID) (*rent.RatePeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return currentRate(ctx, s.db, roomID)
}

func currentRate(ctx context.Context, db executor, roomID rent.RoomID) (*rent.RatePeriod, error) {
	query := `
		SELECT id, room_id, rent_amount, is_ac, effective_from, effective_to
		FROM room_rate_history
		WHERE room_id = ? AND effective_to IS NULL
	`

	rows, err := db.QueryContext(ctx, query, string(roomID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rp, err := scanRate(rows)
	if err != nil {
		return nil, err
	}
	return &rp, rows.Err()
}

func scanRate(rows *sql.Rows) (rent.RatePeriod, error) {
	var rp rent.RatePeriod
	var rentAmount, effectiveFrom string
	var effectiveTo sql.NullString

	if err := rows.Scan(&rp.ID, &rp.RoomID, &rentAmount, &rp.IsAC, &effectiveFrom, &effectiveTo); err != nil {
		return rp, fmt.Errorf("failed to scan rate period: %w", err)
	}

	rp.RentAmount = rent.MustParseMoney(rentAmount)
	rp.EffectiveFrom = parseDate(effectiveFrom)
	rp.EffectiveTo = parseNullDate(effectiveTo)
	return rp, nil
}

// OpenRate inserts a rate period.
func (s *Store) OpenRate(ctx context.Context, rp rent.RatePeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return openRate(ctx, s.db, rp)
}

func openRate(ctx context.Context, db executor, rp rent.RatePeriod) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO room_rate_history (id, room_id, rent_amount, is_ac, effective_from, effective_to) VALUES (?, ?, ?, ?, ?, ?)",
		rp.ID, string(rp.RoomID), rp.RentAmount.String(), rp.IsAC,
		rp.EffectiveFrom.String(), nullDate(rp.EffectiveTo),
	)
	return err
}

// CloseRate sets the rate period's end date.
func (s *Store) CloseRate(ctx context.Context, rateID string, on rent.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return closeRate(ctx, s.db, rateID, on)
}

func closeRate(ctx context.Context, db executor, rateID string, on rent.Date) error {
	res, err := db.ExecContext(ctx,
		"UPDATE room_rate_history SET effective_to = ? WHERE id = ?",
		on.String(), rateID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return rent.ErrRoomNotFound
	}
	return nil
}

// =============================================================================
// PAYMENT LEDGER
// =============================================================================

// PaymentsByTenant returns the tenant's non-deleted payments ordered by
// paid_upto ascending.
func (s *Store) PaymentsByTenant(ctx context.Context, tenantID rent.TenantID) ([]rent.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return paymentsByTenant(ctx, s.db, tenantID)
}

func paymentsByTenant(ctx context.Context, db executor, tenantID rent.TenantID) ([]rent.Payment, error) {
	query := `
		SELECT id, tenant_id, amount, payment_date, paid_from, paid_upto,
		       frequency_code, mode_code, notes, created_by, created_at,
		       deleted, deleted_at, deleted_by
		FROM payments
		WHERE tenant_id = ? AND deleted = FALSE
		ORDER BY paid_upto ASC
	`

	rows, err := db.QueryContext(ctx, query, string(tenantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []rent.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// PaymentByID returns the payment including soft-deleted ones, or nil if
// the ID is unknown.
func (s *Store) PaymentByID(ctx context.Context, id rent.PaymentID) (*rent.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return paymentByID(ctx, s.db, id)
}

func paymentByID(ctx context.Context, db executor, id rent.PaymentID) (*rent.Payment, error) {
	query := `
		SELECT id, tenant_id, amount, payment_date, paid_from, paid_upto,
		       frequency_code, mode_code, notes, created_by, created_at,
		       deleted, deleted_at, deleted_by
		FROM payments
		WHERE id = ?
	`

	rows, err := db.QueryContext(ctx, query, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	p, err := scanPayment(rows)
	if err != nil {
		return nil, err
	}
	return &p, rows.Err()
}

func scanPayment(rows *sql.Rows) (rent.Payment, error) {
	var (
		p           rent.Payment
		amount      string
		paymentDate string
		paidFrom    string
		paidUpto    string
		frequency   sql.NullString
		mode        sql.NullString
		notes       sql.NullString
		createdBy   sql.NullString
		createdAt   string
		deletedAt   sql.NullString
		deletedBy   sql.NullString
	)

	err := rows.Scan(
		&p.ID, &p.TenantID, &amount, &paymentDate, &paidFrom, &paidUpto,
		&frequency, &mode, &notes, &createdBy, &createdAt,
		&p.Deleted, &deletedAt, &deletedBy,
	)
	if err != nil {
		return p, fmt.Errorf("failed to scan payment: %w", err)
	}

	p.Amount = rent.MustParseMoney(amount)
	p.PaymentDate = parseDate(paymentDate)
	p.PaidFrom = parseDate(paidFrom)
	p.PaidUpto = parseDate(paidUpto)
	p.FrequencyCode = frequency.String
	p.ModeCode = mode.String
	p.Notes = notes.String
	p.CreatedBy = createdBy.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.DeletedBy = deletedBy.String
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		p.DeletedAt = &t
	}

	return p, nil
}

// InsertPayment appends a payment row.
func (s *Store) InsertPayment(ctx context.Context, p rent.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return insertPayment(ctx, s.db, p)
}

func insertPayment(ctx context.Context, db executor, p rent.Payment) error {
	query := `
		INSERT INTO payments
		(id, tenant_id, amount, payment_date, paid_from, paid_upto,
		 frequency_code, mode_code, notes, created_by, created_at, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE)
	`

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, query,
		string(p.ID), string(p.TenantID), p.Amount.String(),
		p.PaymentDate.String(), p.PaidFrom.String(), p.PaidUpto.String(),
		nullString(p.FrequencyCode), nullString(p.ModeCode),
		nullString(p.Notes), nullString(p.CreatedBy),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// SoftDeletePayment marks a payment deleted while keeping the row for
// audit. Deleting an already-deleted or unknown payment fails.
func (s *Store) SoftDeletePayment(ctx context.Context, id rent.PaymentID, by string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return softDeletePayment(ctx, s.db, id, by, at)
}

func softDeletePayment(ctx context.Context, db executor, id rent.PaymentID, by string, at time.Time) error {
	res, err := db.ExecContext(ctx,
		"UPDATE payments SET deleted = TRUE, deleted_by = ?, deleted_at = ? WHERE id = ? AND deleted = FALSE",
		nullString(by), at.UTC().Format(time.RFC3339), string(id),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return rent.ErrPaymentNotFound
	}
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(billing.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore runs all operations against one *sql.Tx. The parent holds the
// write lock for the duration, so no extra locking here.
type txStore struct {
	tx *sql.Tx
}

var _ billing.Store = (*txStore)(nil)

func (ts *txStore) Tenant(ctx context.Context, id rent.TenantID) (*billing.Tenant, error) {
	return getTenant(ctx, ts.tx, id)
}

func (ts *txStore) SaveTenant(ctx context.Context, t billing.Tenant) error {
	return saveTenant(ctx, ts.tx, t)
}

func (ts *txStore) Room(ctx context.Context, id rent.RoomID) (*billing.Room, error) {
	return getRoom(ctx, ts.tx, id)
}

func (ts *txStore) ListRooms(ctx context.Context) ([]billing.Room, error) {
	return listRooms(ctx, ts.tx)
}

func (ts *txStore) SaveRoom(ctx context.Context, r billing.Room) error {
	return saveRoom(ctx, ts.tx, r)
}

func (ts *txStore) StaysByTenant(ctx context.Context, tenantID rent.TenantID) ([]rent.Stay, error) {
	return staysByTenant(ctx, ts.tx, tenantID)
}

func (ts *txStore) OpenStay(ctx context.Context, stay rent.Stay) error {
	return openStay(ctx, ts.tx, stay)
}

func (ts *txStore) CloseStay(ctx context.Context, stayID string, on rent.Date) error {
	return closeStay(ctx, ts.tx, stayID, on)
}

func (ts *txStore) CountOpenStays(ctx context.Context, roomID rent.RoomID) (int, error) {
	return countOpenStays(ctx, ts.tx, roomID)
}

func (ts *txStore) RatesOverlapping(ctx context.Context, roomID rent.RoomID, from, to rent.Date) ([]rent.RatePeriod, error) {
	return ratesOverlapping(ctx, ts.tx, roomID, from, to)
}

func (ts *txStore) CurrentRate(ctx context.Context, roomID rent.RoomID) (*rent.RatePeriod, error) {
	return currentRate(ctx, ts.tx, roomID)
}

func (ts *txStore) OpenRate(ctx context.Context, rp rent.RatePeriod) error {
	return openRate(ctx, ts.tx, rp)
}

func (ts *txStore) CloseRate(ctx context.Context, rateID string, on rent.Date) error {
	return closeRate(ctx, ts.tx, rateID, on)
}

func (ts *txStore) PaymentsByTenant(ctx context.Context, tenantID rent.TenantID) ([]rent.Payment, error) {
	return paymentsByTenant(ctx, ts.tx, tenantID)
}

func (ts *txStore) PaymentByID(ctx context.Context, id rent.PaymentID) (*rent.Payment, error) {
	return paymentByID(ctx, ts.tx, id)
}

func (ts *txStore) InsertPayment(ctx context.Context, p rent.Payment) error {
	return insertPayment(ctx, ts.tx, p)
}

func (ts *txStore) SoftDeletePayment(ctx context.Context, id rent.PaymentID, by string, at time.Time) error {
	return softDeletePayment(ctx, ts.tx, id, by, at)
}

// Nested transactions run in the enclosing one.
func (ts *txStore) WithTx(ctx context.Context, fn func(billing.Store) error) error {
	return fn(ts)
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d *rent.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseDate(s string) rent.Date {
	d, _ := rent.ParseDate(s)
	return d
}

func parseNullDate(ns sql.NullString) *rent.Date {
	if !ns.Valid {
		return nil
	}
	d := parseDate(ns.String)
	return &d
}
