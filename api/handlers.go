/*
handlers.go - HTTP API handlers for the rent accounting engine

PURPOSE:
  Exposes the billing service via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Tenants:
    POST   /api/tenants                        Create tenant
    GET    /api/tenants/{id}                   Get tenant
    GET    /api/tenants/{id}/pending-rent      Pending rent with breakdown
    GET    /api/tenants/{id}/payment-context   Pre-fill for the payment form
    GET    /api/tenants/{id}/payments          Payment history
    POST   /api/tenants/{id}/check-in          Open a stay
    POST   /api/tenants/{id}/change-room       Move to another room
    POST   /api/tenants/{id}/check-out         Close the open stay

  Payments:
    POST   /api/payments                       Record a payment
    DELETE /api/payments/{id}                  Soft-delete the latest payment

  Rooms:
    GET    /api/rooms                          List rooms
    POST   /api/rooms                          Create room with initial rate
    POST   /api/rooms/{id}/rate                Re-price from a date

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Tenant/room/payment not found
  - 409: Ledger conflicts (concurrent payment, later payments exist)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - billing/service.go: Domain operations behind these handlers
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/rent-engine/billing"
	"github.com/warp/rent-engine/rent"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. Billing operations go
// through the Service; plain record CRUD talks to the Store directly.
type Handler struct {
	Service *billing.Service
	Store   billing.Store
}

// NewHandler creates a new handler.
func NewHandler(svc *billing.Service, store billing.Store) *Handler {
	return &Handler{Service: svc, Store: store}
}

// =============================================================================
// TENANT HANDLERS
// =============================================================================

// CreateTenant creates a new tenant.
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	tenant := billing.Tenant{
		ID:        rent.TenantID(req.ID),
		Name:      req.Name,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveTenant(r.Context(), tenant); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create tenant", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTenantDTO(tenant))
}

// GetTenant returns a single tenant.
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	id := rent.TenantID(chi.URLParam(r, "id"))

	tenant, err := h.Store.Tenant(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get tenant", err)
		return
	}
	if tenant == nil {
		writeError(w, http.StatusNotFound, "Tenant not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toTenantDTO(*tenant))
}

// =============================================================================
// BILLING HANDLERS
// =============================================================================

// GetPendingRent returns the tenant's pending rent with its breakdown.
// Accepts ?as_of=YYYY-MM-DD; defaults to today.
func (h *Handler) GetPendingRent(w http.ResponseWriter, r *http.Request) {
	tenantID := rent.TenantID(chi.URLParam(r, "id"))

	asOf := rent.Today()
	if s := r.URL.Query().Get("as_of"); s != "" {
		d, err := rent.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
			return
		}
		asOf = d
	}

	res, err := h.Service.PendingRent(r.Context(), tenantID, asOf)
	if err != nil {
		writeDomainError(w, "Failed to compute pending rent", err)
		return
	}

	writeJSON(w, http.StatusOK, toPendingRentDTO(res))
}

// GetPaymentContext returns the pre-fill values for the payment form.
func (h *Handler) GetPaymentContext(w http.ResponseWriter, r *http.Request) {
	tenantID := rent.TenantID(chi.URLParam(r, "id"))

	res, err := h.Service.PaymentContext(r.Context(), tenantID)
	if err != nil {
		writeDomainError(w, "Failed to build payment context", err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentContextDTO(res))
}

// ListPayments returns the tenant's payment history, newest first.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	tenantID := rent.TenantID(chi.URLParam(r, "id"))

	payments, err := h.Service.PaymentHistory(r.Context(), tenantID)
	if err != nil {
		writeDomainError(w, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordPayment records a payment against the ledger cursor.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	paidUpto, err := rent.ParseDate(req.PaidUpto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid paid_upto date (use YYYY-MM-DD)", err)
		return
	}
	amount, err := rent.ParseMoney(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	domainReq := billing.RecordPaymentRequest{
		TenantID:      rent.TenantID(req.TenantID),
		PaidUpto:      paidUpto,
		Amount:        amount,
		FrequencyCode: req.FrequencyCode,
		ModeCode:      req.ModeCode,
		Notes:         req.Notes,
		CreatedBy:     req.CreatedBy,
	}
	if req.PaymentDate != "" {
		d, err := rent.ParseDate(req.PaymentDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payment_date (use YYYY-MM-DD)", err)
			return
		}
		domainReq.PaymentDate = &d
	}

	payment, err := h.Service.RecordPayment(r.Context(), domainReq)
	if err != nil {
		writeDomainError(w, "Failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentDTO(payment))
}

// DeletePayment soft-deletes a payment. Only the latest payment can go;
// anything with later coverage still on the books is rejected.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id := rent.PaymentID(chi.URLParam(r, "id"))
	actor := r.URL.Query().Get("deleted_by")

	if err := h.Service.DeletePayment(r.Context(), id, actor); err != nil {
		writeDomainError(w, "Failed to delete payment", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// OCCUPANCY HANDLERS
// =============================================================================

// CheckIn opens a stay for the tenant.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	tenantID := rent.TenantID(chi.URLParam(r, "id"))

	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	fromDate, err := rent.ParseDate(req.FromDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from_date (use YYYY-MM-DD)", err)
		return
	}

	domainReq := billing.CheckInRequest{
		TenantID: tenantID,
		RoomID:   rent.RoomID(req.RoomID),
		FromDate: fromDate,
	}
	if req.ToDate != "" {
		d, err := rent.ParseDate(req.ToDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to_date (use YYYY-MM-DD)", err)
			return
		}
		domainReq.ToDate = &d
	}

	stay, err := h.Service.CheckIn(r.Context(), domainReq)
	if err != nil {
		writeDomainError(w, "Failed to check in", err)
		return
	}

	writeJSON(w, http.StatusCreated, toStayDTO(stay))
}

// ChangeRoom moves the tenant to another room on a given date.
func (h *Handler) ChangeRoom(w http.ResponseWriter, r *http.Request) {
	tenantID := rent.TenantID(chi.URLParam(r, "id"))

	var req ChangeRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	on, err := rent.ParseDate(req.On)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	stay, err := h.Service.ChangeRoom(r.Context(), tenantID, rent.RoomID(req.RoomID), on)
	if err != nil {
		writeDomainError(w, "Failed to change room", err)
		return
	}

	writeJSON(w, http.StatusOK, toStayDTO(stay))
}

// CheckOut closes the tenant's open stay.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	tenantID := rent.TenantID(chi.URLParam(r, "id"))

	var req CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	on, err := rent.ParseDate(req.On)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Service.CheckOut(r.Context(), tenantID, on); err != nil {
		writeDomainError(w, "Failed to check out", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ROOM HANDLERS
// =============================================================================

// ListRooms returns all rooms.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Store.ListRooms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list rooms", err)
		return
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, room := range rooms {
		dtos[i] = toRoomDTO(room)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRoom creates a room and opens its initial rate period.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Number == "" {
		writeError(w, http.StatusBadRequest, "number is required", nil)
		return
	}
	if req.Capacity <= 0 {
		writeError(w, http.StatusBadRequest, "capacity must be positive", nil)
		return
	}

	amount, err := rent.ParseMoney(req.RentAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rent_amount", err)
		return
	}
	effectiveFrom := rent.Today()
	if req.EffectiveFrom != "" {
		effectiveFrom, err = rent.ParseDate(req.EffectiveFrom)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid effective_from (use YYYY-MM-DD)", err)
			return
		}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	room := billing.Room{
		ID:         rent.RoomID(req.ID),
		Number:     req.Number,
		Capacity:   req.Capacity,
		RentAmount: amount.Round2(),
		IsAC:       req.IsAC,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Store.SaveRoom(r.Context(), room); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create room", err)
		return
	}
	if _, err := h.Service.ChangeRate(r.Context(), room.ID, amount, req.IsAC, effectiveFrom); err != nil {
		writeDomainError(w, "Failed to open initial rate", err)
		return
	}

	writeJSON(w, http.StatusCreated, toRoomDTO(room))
}

// ChangeRate re-prices a room from a given date.
func (h *Handler) ChangeRate(w http.ResponseWriter, r *http.Request) {
	roomID := rent.RoomID(chi.URLParam(r, "id"))

	var req ChangeRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := rent.ParseMoney(req.RentAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rent_amount", err)
		return
	}
	effectiveFrom, err := rent.ParseDate(req.EffectiveFrom)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_from (use YYYY-MM-DD)", err)
		return
	}

	rate, err := h.Service.ChangeRate(r.Context(), roomID, amount, req.IsAC, effectiveFrom)
	if err != nil {
		writeDomainError(w, "Failed to change rate", err)
		return
	}

	writeJSON(w, http.StatusOK, toRatePeriodDTO(rate))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case rent.IsNotFound(err):
		return http.StatusNotFound
	case rent.IsRetryable(err), errors.Is(err, rent.ErrLaterPaymentsExist):
		return http.StatusConflict
	case rent.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
