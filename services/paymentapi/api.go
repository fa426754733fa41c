package paymentapi

import "context"

// Method names, used for call accounting and failure injection in the fake.
const (
	MethodGetBookingByOrderCode      = "GetBookingByOrderCode"
	MethodGetOrderByOrderCode        = "GetOrderByOrderCode"
	MethodGetTransactionByOrderCode  = "GetTransactionByOrderCode"
	MethodConfirmTourPaymentSuccess  = "ConfirmTourPaymentSuccess"
	MethodConfirmTourPaymentCancel   = "ConfirmTourPaymentCancel"
	MethodConfirmOrderPaymentSuccess = "ConfirmOrderPaymentSuccess"
	MethodConfirmOrderPaymentCancel  = "ConfirmOrderPaymentCancel"
	MethodProcessEnhancedWebhook     = "ProcessEnhancedWebhook"
)

// Backend is the platform's REST backend as seen by payment reconciliation.
// A returned error means no usable answer was obtained (transport, timeout, 5xx).
// A backend that answered negatively returns success=false without error.
//
//go:generate mockgen -source=api.go -package paymentapi -destination backend_mock.go Backend
type Backend interface {
	GetBookingByOrderCode(c context.Context, orderCode string) (LookupResponse[BookingPaymentInfo], error)
	GetOrderByOrderCode(c context.Context, orderCode string) (LookupResponse[ProductOrderInfo], error)
	GetTransactionByOrderCode(c context.Context, orderCode string) (LookupResponse[TransactionInfo], error)

	ConfirmTourPaymentSuccess(c context.Context, req CallbackRequest) (Response, error)
	ConfirmTourPaymentCancel(c context.Context, req CallbackRequest) (Response, error)
	ConfirmOrderPaymentSuccess(c context.Context, req CallbackRequest) (Response, error)
	ConfirmOrderPaymentCancel(c context.Context, req CallbackRequest) (Response, error)

	ProcessEnhancedWebhook(c context.Context, req CallbackRequest) (Response, error)
}
