package paymentapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// newFakeServer exposes a FakeBackend over the backend's REST contract.
func newFakeServer(fake *FakeBackend) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/tour-bookings/payment/success", confirmHandler(fake.ConfirmTourPaymentSuccess)).Methods(http.MethodPost)
	router.HandleFunc("/api/tour-bookings/payment/cancel", confirmHandler(fake.ConfirmTourPaymentCancel)).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/payment/success", confirmHandler(fake.ConfirmOrderPaymentSuccess)).Methods(http.MethodPost)
	router.HandleFunc("/api/orders/payment/cancel", confirmHandler(fake.ConfirmOrderPaymentCancel)).Methods(http.MethodPost)
	router.HandleFunc("/api/payments/webhook/callback", confirmHandler(fake.ProcessEnhancedWebhook)).Methods(http.MethodPost)

	router.HandleFunc("/api/tour-bookings/payment/{orderCode}", lookupHandler(fake.GetBookingByOrderCode)).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/payment/{orderCode}", lookupHandler(fake.GetOrderByOrderCode)).Methods(http.MethodGet)
	router.HandleFunc("/api/payment-transactions/{orderCode}", lookupHandler(fake.GetTransactionByOrderCode)).Methods(http.MethodGet)

	return router
}

func lookupHandler[T any](lookup func(c context.Context, orderCode string) (LookupResponse[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := lookup(r.Context(), mux.Vars(r)["orderCode"])
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		status := http.StatusOK
		if !resp.Success {
			status = http.StatusNotFound
		}
		writeJSON(w, status, resp)
	}
}

func confirmHandler(confirm func(c context.Context, req CallbackRequest) (Response, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := CallbackRequest{}
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp, err := confirm(r.Context(), req)
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		status := http.StatusOK
		if !resp.Success {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
