package paymentcallback

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/travelshop/lib/mycontext"
	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/myhttp"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/services/paymentapi"
)

type webService struct {
	logger      mylog.Logger
	reconciler  *Reconciler
	cartClearer CartClearer
}

// CallbackResponse is what the payment result page renders.
type CallbackResponse struct {
	Success     bool                           `json:"success"`
	State       State                          `json:"state"`
	Flow        Flow                           `json:"flow"`
	OrderCode   string                         `json:"orderCode"`
	PaymentType PaymentType                    `json:"paymentType,omitempty"`
	Strategy    string                         `json:"strategy,omitempty"`
	Message     string                         `json:"message,omitempty"`
	Attempts    int                            `json:"attempts"`
	Duplicate   bool                           `json:"duplicate"`
	Booking     *paymentapi.BookingPaymentInfo `json:"booking,omitempty"`
	Order       *paymentapi.ProductOrderInfo   `json:"order,omitempty"`
	// RetryURL reloads the same callback: a failed reconciliation is only retried by a fresh request.
	RetryURL string `json:"retryUrl,omitempty"`
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(reconciler *Reconciler, cartClearer CartClearer) *webService {
	return &webService{
		logger:      reconciler.logger,
		reconciler:  reconciler,
		cartClearer: cartClearer,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/payment/callback/success", s.callbackPage(FlowSuccess)).Methods("GET")
	router.HandleFunc("/api/payment/callback/cancel", s.callbackPage(FlowCancel)).Methods("GET")
	router.HandleFunc("/api/payment/detect/{orderCode}", s.detectPage()).Methods("GET")

	return nil
}

func (s *webService) callbackPage(flow Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		outcome, err := s.reconciler.Reconcile(c, flow, myhttp.FullURL(r))
		if err != nil && outcome.OrderCode == "" {
			// nothing to render without an order
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		if err == nil && flow == FlowSuccess && !outcome.Duplicate {
			s.clearCart(c, r, outcome.OrderCode)
		}

		resp := NewCallbackResponse(outcome)
		status := http.StatusOK
		if err != nil {
			status = myerrors.GetHTTPStatus(err)
			resp.RetryURL = myhttp.FullURL(r)
		}

		errorWriter.Write(c, w, status, resp)
	}
}

// clearCart is the callers part of a successful payment, its failure does not undo the payment.
func (s *webService) clearCart(c context.Context, r *http.Request, orderCode string) {
	identity := myhttp.IdentityFromRequest(r)
	if identity.IsAnonymous() {
		return
	}

	err := s.cartClearer.Clear(c, identity.UID, identity.Role)
	if err != nil {
		s.logger.Log(c, orderCode, mylog.SeverityError, "Error clearing cart of %s after payment %s: %s", identity.UID, orderCode, err)
		return
	}
	s.logger.Log(c, orderCode, mylog.SeverityInfo, "Cleared cart of %s after payment %s", identity.UID, orderCode)
}

func (s *webService) detectPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderCode := mux.Vars(r)["orderCode"]
		if orderCode == "" {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(fmt.Errorf("missing orderCode")))
			return
		}

		detection, err := s.reconciler.Detector().DetectPaymentType(c, orderCode)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, detection)
	}
}

// NewCallbackResponse is the rendering of an outcome, without the retry url which only a web request knows.
func NewCallbackResponse(outcome Outcome) CallbackResponse {
	resp := CallbackResponse{
		Success:   outcome.State == StateSucceeded,
		State:     outcome.State,
		Flow:      outcome.Flow,
		OrderCode: outcome.OrderCode,
		Message:   outcome.Message,
		Attempts:  outcome.Attempts,
		Duplicate: outcome.Duplicate,
	}
	if outcome.Detection != nil {
		resp.PaymentType = outcome.Detection.Type
		resp.Strategy = outcome.Detection.Strategy
		resp.Booking = outcome.Detection.BookingInfo
		resp.Order = outcome.Detection.ProductInfo
	}
	return resp
}
