/*
dto.go - Request/response data structures for the REST API

PURPOSE:
  JSON shapes exchanged with clients. Domain types never cross the HTTP
  boundary directly: dates travel as YYYY-MM-DD strings, money as
  two-decimal strings, and nullable dates as omitted fields.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Handler implementations that map domain <-> DTO
*/
package api

import (
	"time"

	"github.com/warp/rent-engine/billing"
	"github.com/warp/rent-engine/rent"
)

// =============================================================================
// REQUESTS
// =============================================================================

// CreateTenantRequest creates a tenant record.
type CreateTenantRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// CreateRoomRequest creates a room with its initial rate period.
type CreateRoomRequest struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	Capacity      int    `json:"capacity"`
	RentAmount    string `json:"rent_amount"`
	IsAC          bool   `json:"is_ac"`
	EffectiveFrom string `json:"effective_from"` // YYYY-MM-DD
}

// ChangeRateRequest re-prices a room from a given date.
type ChangeRateRequest struct {
	RentAmount    string `json:"rent_amount"`
	IsAC          bool   `json:"is_ac"`
	EffectiveFrom string `json:"effective_from"`
}

// RecordPaymentRequest records a rent payment. paid_from is derived
// server-side and never accepted here.
type RecordPaymentRequest struct {
	TenantID      string `json:"tenant_id"`
	PaidUpto      string `json:"paid_upto"`
	Amount        string `json:"amount"`
	PaymentDate   string `json:"payment_date,omitempty"` // default: today
	FrequencyCode string `json:"frequency_code,omitempty"`
	ModeCode      string `json:"mode_code,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatedBy     string `json:"created_by,omitempty"`
}

// CheckInRequest opens a stay.
type CheckInRequest struct {
	RoomID   string `json:"room_id"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date,omitempty"`
}

// ChangeRoomRequest moves a tenant to another room.
type ChangeRoomRequest struct {
	RoomID string `json:"room_id"`
	On     string `json:"on"`
}

// CheckOutRequest closes a tenant's open stay.
type CheckOutRequest struct {
	On string `json:"on"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// TenantDTO is the JSON representation of a tenant.
type TenantDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

// RoomDTO is the JSON representation of a room.
type RoomDTO struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	Capacity   int    `json:"capacity"`
	RentAmount string `json:"rent_amount"`
	IsAC       bool   `json:"is_ac"`
}

// StayDTO is the JSON representation of a stay.
type StayDTO struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	RoomID     string `json:"room_id"`
	RoomNumber string `json:"room_number"`
	FromDate   string `json:"from_date"`
	ToDate     string `json:"to_date,omitempty"`
}

// RatePeriodDTO is the JSON representation of a rate period.
type RatePeriodDTO struct {
	ID            string `json:"id"`
	RoomID        string `json:"room_id"`
	RentAmount    string `json:"rent_amount"`
	IsAC          bool   `json:"is_ac"`
	EffectiveFrom string `json:"effective_from"`
	EffectiveTo   string `json:"effective_to,omitempty"`
}

// PaymentDTO is the JSON representation of a ledger entry.
type PaymentDTO struct {
	ID            string `json:"id"`
	TenantID      string `json:"tenant_id"`
	Amount        string `json:"amount"`
	PaymentDate   string `json:"payment_date"`
	PaidFrom      string `json:"paid_from"`
	PaidUpto      string `json:"paid_upto"`
	FrequencyCode string `json:"frequency_code,omitempty"`
	ModeCode      string `json:"mode_code,omitempty"`
	Notes         string `json:"notes,omitempty"`
	CreatedBy     string `json:"created_by,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// PendingRentLineDTO is one billing slice of the pending rent breakdown.
type PendingRentLineDTO struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Days       int    `json:"days"`
	RentPerDay string `json:"rent_per_day"`
	Amount     string `json:"amount"`
	RoomNumber string `json:"room_number,omitempty"`
}

// RateGapDTO is an unpaid range with no rate configuration.
type RateGapDTO struct {
	RoomID string `json:"room_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// PendingRentDTO is the pending rent response.
type PendingRentDTO struct {
	TenantID  string               `json:"tenant_id"`
	AsOf      string               `json:"as_of"`
	Total     string               `json:"total"`
	Breakdown []PendingRentLineDTO `json:"breakdown"`
	RateGaps  []RateGapDTO         `json:"rate_gaps,omitempty"`
}

// PaymentContextDTO pre-fills the payment form.
type PaymentContextDTO struct {
	TenantID      string `json:"tenant_id"`
	TenantName    string `json:"tenant_name"`
	PaidFrom      string `json:"paid_from"`
	MaxPaidUpto   string `json:"max_paid_upto,omitempty"` // empty = nothing pending
	PendingAmount string `json:"pending_amount"`
	AsOf          string `json:"as_of"`
	HasActiveStay bool   `json:"has_active_stay"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toTenantDTO(t billing.Tenant) TenantDTO {
	return TenantDTO{
		ID:        string(t.ID),
		Name:      t.Name,
		Phone:     t.Phone,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func toRoomDTO(r billing.Room) RoomDTO {
	return RoomDTO{
		ID:         string(r.ID),
		Number:     r.Number,
		Capacity:   r.Capacity,
		RentAmount: r.RentAmount.String(),
		IsAC:       r.IsAC,
	}
}

func toStayDTO(s rent.Stay) StayDTO {
	dto := StayDTO{
		ID:         s.ID,
		TenantID:   string(s.TenantID),
		RoomID:     string(s.RoomID),
		RoomNumber: s.RoomNumber,
		FromDate:   s.FromDate.String(),
	}
	if s.ToDate != nil {
		dto.ToDate = s.ToDate.String()
	}
	return dto
}

func toRatePeriodDTO(rp rent.RatePeriod) RatePeriodDTO {
	dto := RatePeriodDTO{
		ID:            rp.ID,
		RoomID:        string(rp.RoomID),
		RentAmount:    rp.RentAmount.String(),
		IsAC:          rp.IsAC,
		EffectiveFrom: rp.EffectiveFrom.String(),
	}
	if rp.EffectiveTo != nil {
		dto.EffectiveTo = rp.EffectiveTo.String()
	}
	return dto
}

func toPaymentDTO(p rent.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            string(p.ID),
		TenantID:      string(p.TenantID),
		Amount:        p.Amount.String(),
		PaymentDate:   p.PaymentDate.String(),
		PaidFrom:      p.PaidFrom.String(),
		PaidUpto:      p.PaidUpto.String(),
		FrequencyCode: p.FrequencyCode,
		ModeCode:      p.ModeCode,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func toPendingRentDTO(res rent.PendingRentResult) PendingRentDTO {
	dto := PendingRentDTO{
		TenantID:  string(res.TenantID),
		AsOf:      res.AsOf.String(),
		Total:     res.Total.String(),
		Breakdown: make([]PendingRentLineDTO, 0, len(res.Breakdown)),
	}
	for _, line := range res.Breakdown {
		dto.Breakdown = append(dto.Breakdown, PendingRentLineDTO{
			From:       line.From.String(),
			To:         line.To.String(),
			Days:       rent.InclusiveDays(line.From, line.To),
			RentPerDay: line.RentPerDay.String(),
			Amount:     line.Amount.String(),
			RoomNumber: line.RoomNumber,
		})
	}
	for _, gap := range res.RateGaps {
		dto.RateGaps = append(dto.RateGaps, RateGapDTO{
			RoomID: string(gap.RoomID),
			From:   gap.Range.From.String(),
			To:     gap.Range.To.String(),
		})
	}
	return dto
}

func toPaymentContextDTO(res billing.PaymentContextResult) PaymentContextDTO {
	dto := PaymentContextDTO{
		TenantID:      string(res.TenantID),
		TenantName:    res.TenantName,
		PaidFrom:      res.PaidFrom.String(),
		PendingAmount: res.PendingAmount.String(),
		AsOf:          res.AsOf.String(),
		HasActiveStay: res.HasActiveStay,
	}
	if res.MaxPaidUpto != nil {
		dto.MaxPaidUpto = res.MaxPaidUpto.String()
	}
	return dto
}
