package paymentapi

// Backend-owned endpoints; %s is the url-escaped normalized order code.
const (
	pathBookingByOrderCode     = "/api/tour-bookings/payment/%s"
	pathOrderByOrderCode       = "/api/orders/payment/%s"
	pathTransactionByOrderCode = "/api/payment-transactions/%s"

	pathTourPaymentSuccess  = "/api/tour-bookings/payment/success"
	pathTourPaymentCancel   = "/api/tour-bookings/payment/cancel"
	pathOrderPaymentSuccess = "/api/orders/payment/success"
	pathOrderPaymentCancel  = "/api/orders/payment/cancel"
	pathEnhancedWebhook     = "/api/payments/webhook/callback"
)
