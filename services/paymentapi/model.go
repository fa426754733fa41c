package paymentapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Response is the answer of every confirmation endpoint.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// LookupResponse is the answer of the lookup-by-order-code endpoints.
type LookupResponse[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Found is true only when the backend answered positively with data.
func (r LookupResponse[T]) Found() bool {
	return r.Success && r.Data != nil
}

type ProductOrderInfo struct {
	OrderID        string          `json:"orderId"`
	PayOSOrderCode string          `json:"payosOrderCode"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	Status         string          `json:"status"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

type BookingPaymentInfo struct {
	BookingCode   string          `json:"bookingCode"`
	TourTitle     string          `json:"tourTitle"`
	TourDate      string          `json:"tourDate"`
	Price         decimal.Decimal `json:"price"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
	PaymentStatus string          `json:"paymentStatus"`
}

// TransactionInfo is returned by the unified transaction index, at most one side is expected.
type TransactionInfo struct {
	TourBookingInfo *BookingPaymentInfo `json:"tourBookingInfo,omitempty"`
	OrderInfo       *ProductOrderInfo   `json:"orderInfo,omitempty"`
}

// CallbackRequest carries the PayOS redirect parameters to the confirmation endpoints.
type CallbackRequest struct {
	OrderCode string            `json:"orderCode"`
	Status    string            `json:"status,omitempty"`
	Code      string            `json:"code,omitempty"`
	ID        string            `json:"id,omitempty"`
	Cancel    bool              `json:"cancel"`
	Extra     map[string]string `json:"extra,omitempty"`
}

const (
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
	StatusPending   = "PENDING"
)
