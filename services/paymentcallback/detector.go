package paymentcallback

import (
	"context"
	"fmt"

	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/services/paymentapi"
)

type PaymentType string

const (
	PaymentTypeProduct PaymentType = "product"
	PaymentTypeTour    PaymentType = "tour"
)

const (
	StrategyTourBooking        = "tour-booking"
	StrategyProductOrder       = "product-order"
	StrategyUnifiedTransaction = "unified-transaction"
)

// PaymentTypeDetection has exactly one of ProductInfo and BookingInfo set.
type PaymentTypeDetection struct {
	Type        PaymentType                    `json:"type"`
	OrderCode   string                         `json:"orderCode"`
	Strategy    string                         `json:"strategy"`
	ProductInfo *paymentapi.ProductOrderInfo   `json:"productInfo,omitempty"`
	BookingInfo *paymentapi.BookingPaymentInfo `json:"bookingInfo,omitempty"`
}

type Detector struct {
	backend              paymentapi.Backend
	logger               mylog.Logger
	unifiedLookupEnabled bool
}

func NewDetector(backend paymentapi.Backend, logger mylog.Logger, unifiedLookupEnabled bool) *Detector {
	return &Detector{
		backend:              backend,
		logger:               logger,
		unifiedLookupEnabled: unifiedLookupEnabled,
	}
}

// Strategies lists the lookups in order of precedence: tour bookings win over product orders.
func (d *Detector) Strategies(orderCode string) []Strategy[PaymentTypeDetection] {
	strategies := []Strategy[PaymentTypeDetection]{
		{Name: StrategyTourBooking, Attempt: func(c context.Context) (PaymentTypeDetection, error) {
			resp, err := d.backend.GetBookingByOrderCode(c, orderCode)
			if err != nil {
				return PaymentTypeDetection{}, err
			}
			if !resp.Found() {
				return PaymentTypeDetection{}, notFound("tour booking", resp.Message)
			}
			return PaymentTypeDetection{Type: PaymentTypeTour, OrderCode: orderCode, BookingInfo: resp.Data}, nil
		}},
		{Name: StrategyProductOrder, Attempt: func(c context.Context) (PaymentTypeDetection, error) {
			resp, err := d.backend.GetOrderByOrderCode(c, orderCode)
			if err != nil {
				return PaymentTypeDetection{}, err
			}
			if !resp.Found() {
				return PaymentTypeDetection{}, notFound("product order", resp.Message)
			}
			return PaymentTypeDetection{Type: PaymentTypeProduct, OrderCode: orderCode, ProductInfo: resp.Data}, nil
		}},
	}

	if d.unifiedLookupEnabled {
		strategies = append(strategies, Strategy[PaymentTypeDetection]{Name: StrategyUnifiedTransaction, Attempt: func(c context.Context) (PaymentTypeDetection, error) {
			resp, err := d.backend.GetTransactionByOrderCode(c, orderCode)
			if err != nil {
				return PaymentTypeDetection{}, err
			}
			if !resp.Found() {
				return PaymentTypeDetection{}, notFound("payment transaction", resp.Message)
			}
			switch {
			case resp.Data.TourBookingInfo != nil:
				return PaymentTypeDetection{Type: PaymentTypeTour, OrderCode: orderCode, BookingInfo: resp.Data.TourBookingInfo}, nil
			case resp.Data.OrderInfo != nil:
				return PaymentTypeDetection{Type: PaymentTypeProduct, OrderCode: orderCode, ProductInfo: resp.Data.OrderInfo}, nil
			default:
				return PaymentTypeDetection{}, notFound("payment transaction", "transaction without booking or order")
			}
		}})
	}

	return strategies
}

// DetectPaymentType swallows the errors of the individual lookups, only total failure is reported.
func (d *Detector) DetectPaymentType(c context.Context, orderCode string) (PaymentTypeDetection, error) {
	code := NormalizeOrderCode(orderCode)

	detection, strategy, err := FirstSuccess(c, d.logger, code, d.Strategies(code))
	if err != nil {
		d.logger.Log(c, code, mylog.SeverityWarn, "Payment type of %s undetermined, last error: %s", code, err)
		return PaymentTypeDetection{}, myerrors.NewNotFoundError(ErrPaymentTypeUndetermined)
	}
	detection.Strategy = strategy

	d.logger.Log(c, code, mylog.SeverityInfo, "Order %s is a %s payment (found by %s)", code, detection.Type, strategy)

	return detection, nil
}

func notFound(what string, message string) error {
	if message == "" {
		message = "not found"
	}
	return fmt.Errorf("%s: %s", what, message)
}
