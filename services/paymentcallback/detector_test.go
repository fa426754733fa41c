package paymentcallback

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/services/paymentapi"
)

var (
	bookingBK1 = paymentapi.BookingPaymentInfo{BookingCode: "BK1", TourTitle: "Mekong delta", PaymentStatus: paymentapi.StatusPending}
	orderO1    = paymentapi.ProductOrderInfo{OrderID: "O1", PayOSOrderCode: "TNDT12345", Status: paymentapi.StatusPending}

	bookingFound  = paymentapi.LookupResponse[paymentapi.BookingPaymentInfo]{Success: true, Data: &bookingBK1}
	bookingAbsent = paymentapi.LookupResponse[paymentapi.BookingPaymentInfo]{Success: false, Message: "Booking not found"}
	orderFound    = paymentapi.LookupResponse[paymentapi.ProductOrderInfo]{Success: true, Data: &orderO1}
	orderAbsent   = paymentapi.LookupResponse[paymentapi.ProductOrderInfo]{Success: false, Message: "Order not found"}
	txAbsent      = paymentapi.LookupResponse[paymentapi.TransactionInfo]{Success: false}
)

func TestDetectPaymentType(t *testing.T) {
	c := context.Background()

	t.Run("tour booking wins when both would match", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)

		// given
		backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT12345").Return(bookingFound, nil)
		// product lookup is never reached

		// when
		detection, err := NewDetector(backend, mylog.New("test"), true).DetectPaymentType(c, "12345")

		// then
		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeDetection{Type: PaymentTypeTour, OrderCode: "TNDT12345", Strategy: StrategyTourBooking, BookingInfo: &bookingBK1}, detection)
	})

	t.Run("falls back to product order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)

		gomock.InOrder(
			backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT12345").Return(bookingAbsent, nil),
			backend.EXPECT().GetOrderByOrderCode(gomock.Any(), "TNDT12345").Return(orderFound, nil),
		)

		detection, err := NewDetector(backend, mylog.New("test"), true).DetectPaymentType(c, "TNDT12345")

		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeProduct, detection.Type)
		assert.Equal(t, StrategyProductOrder, detection.Strategy)
		assert.Equal(t, &orderO1, detection.ProductInfo)
		assert.Nil(t, detection.BookingInfo)
	})

	t.Run("lookup errors count as not this type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)

		gomock.InOrder(
			backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT12345").Return(paymentapi.LookupResponse[paymentapi.BookingPaymentInfo]{}, errors.New("connection reset")),
			backend.EXPECT().GetOrderByOrderCode(gomock.Any(), "TNDT12345").Return(orderFound, nil),
		)

		detection, err := NewDetector(backend, mylog.New("test"), true).DetectPaymentType(c, "12345")

		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeProduct, detection.Type)
	})

	t.Run("success without data is not a match", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)

		gomock.InOrder(
			backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT12345").Return(paymentapi.LookupResponse[paymentapi.BookingPaymentInfo]{Success: true}, nil),
			backend.EXPECT().GetOrderByOrderCode(gomock.Any(), "TNDT12345").Return(orderFound, nil),
		)

		detection, err := NewDetector(backend, mylog.New("test"), false).DetectPaymentType(c, "12345")

		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeProduct, detection.Type)
	})

	t.Run("unified transaction index prefers tour info", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)

		gomock.InOrder(
			backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT9").Return(bookingAbsent, nil),
			backend.EXPECT().GetOrderByOrderCode(gomock.Any(), "TNDT9").Return(orderAbsent, nil),
			backend.EXPECT().GetTransactionByOrderCode(gomock.Any(), "TNDT9").Return(paymentapi.LookupResponse[paymentapi.TransactionInfo]{
				Success: true,
				Data:    &paymentapi.TransactionInfo{TourBookingInfo: &bookingBK1, OrderInfo: &orderO1},
			}, nil),
		)

		detection, err := NewDetector(backend, mylog.New("test"), true).DetectPaymentType(c, "9")

		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeDetection{Type: PaymentTypeTour, OrderCode: "TNDT9", Strategy: StrategyUnifiedTransaction, BookingInfo: &bookingBK1}, detection)
	})

	t.Run("unified transaction index with order info", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)

		gomock.InOrder(
			backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT9").Return(bookingAbsent, nil),
			backend.EXPECT().GetOrderByOrderCode(gomock.Any(), "TNDT9").Return(orderAbsent, nil),
			backend.EXPECT().GetTransactionByOrderCode(gomock.Any(), "TNDT9").Return(paymentapi.LookupResponse[paymentapi.TransactionInfo]{
				Success: true,
				Data:    &paymentapi.TransactionInfo{OrderInfo: &orderO1},
			}, nil),
		)

		detection, err := NewDetector(backend, mylog.New("test"), true).DetectPaymentType(c, "9")

		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeProduct, detection.Type)
		assert.Equal(t, StrategyUnifiedTransaction, detection.Strategy)
	})

	t.Run("all strategies fail", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)

		gomock.InOrder(
			backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT9").Return(bookingAbsent, nil),
			backend.EXPECT().GetOrderByOrderCode(gomock.Any(), "TNDT9").Return(paymentapi.LookupResponse[paymentapi.ProductOrderInfo]{}, errors.New("timeout")),
			backend.EXPECT().GetTransactionByOrderCode(gomock.Any(), "TNDT9").Return(txAbsent, nil),
		)

		_, err := NewDetector(backend, mylog.New("test"), true).DetectPaymentType(c, "9")

		assert.ErrorIs(t, err, ErrPaymentTypeUndetermined)
		assert.Equal(t, "Unable to determine payment type from order code", myerrors.GetMessage(err))
		assert.Equal(t, http.StatusNotFound, myerrors.GetHTTPStatus(err))
	})

	t.Run("unified lookup disabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)

		gomock.InOrder(
			backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT9").Return(bookingAbsent, nil),
			backend.EXPECT().GetOrderByOrderCode(gomock.Any(), "TNDT9").Return(orderAbsent, nil),
		)

		_, err := NewDetector(backend, mylog.New("test"), false).DetectPaymentType(c, "9")

		assert.ErrorIs(t, err, ErrPaymentTypeUndetermined)
	})
}

func TestStrategiesOrder(t *testing.T) {
	names := func(strategies []Strategy[PaymentTypeDetection]) []string {
		result := []string{}
		for _, s := range strategies {
			result = append(result, s.Name)
		}
		return result
	}

	assert.Equal(t, []string{StrategyTourBooking, StrategyProductOrder, StrategyUnifiedTransaction}, names(NewDetector(nil, mylog.New("test"), true).Strategies("TNDT1")))
	assert.Equal(t, []string{StrategyTourBooking, StrategyProductOrder}, names(NewDetector(nil, mylog.New("test"), false).Strategies("TNDT1")))
}
