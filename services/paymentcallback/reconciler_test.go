package paymentcallback

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/lib/mypublisher"
	"github.com/MarcGrol/travelshop/lib/myretry"
	"github.com/MarcGrol/travelshop/lib/mystore"
	"github.com/MarcGrol/travelshop/lib/mytime"
	"github.com/MarcGrol/travelshop/lib/myuuid"
	"github.com/MarcGrol/travelshop/services/paymentapi"
	"github.com/MarcGrol/travelshop/services/paymentevents"
)

const (
	successURL = "https://shop.example.com/api/payment/callback/success?orderCode=12345&status=PAID"
	cancelURL  = "https://shop.example.com/api/payment/callback/cancel?orderCode=12345&status=CANCELLED&cancel=true"
)

type reconcilerFixture struct {
	reconciler *Reconciler
	records    *mystore.InMemoryStore[ReconciliationRecord]
	publisher  *mypublisher.MockPublisher
}

func testConfig(enhanced bool) Config {
	return Config{
		EnhancedEnabled:      enhanced,
		UnifiedLookupEnabled: true,
		Retry: myretry.Options{
			MaxRetries: 3,
			Delay:      0,
			Timeout:    time.Second,
		},
	}
}

func setupReconciler(t *testing.T, ctrl *gomock.Controller, config Config, backend paymentapi.Backend) reconcilerFixture {
	records, _, err := mystore.NewInMemoryStore[ReconciliationRecord](context.Background())
	require.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
	uuider := myuuid.NewMockUUIDer(ctrl)
	uuider.EXPECT().Create().Return("claim-1").AnyTimes()
	publisher := mypublisher.NewMockPublisher(ctrl)

	return reconcilerFixture{
		reconciler: NewReconciler(config, backend, records, publisher, nower, uuider, mylog.New("test")),
		records:    records,
		publisher:  publisher,
	}
}

func tourBackend() *paymentapi.FakeBackend {
	backend := paymentapi.NewFakeBackend()
	backend.AddBooking("TNDT12345", paymentapi.BookingPaymentInfo{BookingCode: "BK1", PaymentStatus: paymentapi.StatusPending})
	return backend
}

func productBackend() *paymentapi.FakeBackend {
	backend := paymentapi.NewFakeBackend()
	backend.AddOrder("TNDT12345", paymentapi.ProductOrderInfo{OrderID: "O1", PayOSOrderCode: "TNDT12345", Status: paymentapi.StatusPending})
	return backend
}

func totalCalls(backend *paymentapi.FakeBackend) int {
	total := 0
	for _, method := range []string{
		paymentapi.MethodGetBookingByOrderCode,
		paymentapi.MethodGetOrderByOrderCode,
		paymentapi.MethodGetTransactionByOrderCode,
		paymentapi.MethodConfirmTourPaymentSuccess,
		paymentapi.MethodConfirmTourPaymentCancel,
		paymentapi.MethodConfirmOrderPaymentSuccess,
		paymentapi.MethodConfirmOrderPaymentCancel,
		paymentapi.MethodProcessEnhancedWebhook,
	} {
		total += backend.CallCount(method)
	}
	return total
}

func TestReconcileScenarios(t *testing.T) {
	c := context.Background()

	t.Run("tour payment confirmed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		sut := setupReconciler(t, ctrl, testConfig(true), backend)

		// given
		sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, paymentevents.PaymentConfirmed{
			OrderCode:   "TNDT12345",
			PaymentType: "tour",
			Status:      "PAID",
			Strategy:    StrategyTourBooking,
		}).Return(nil).Times(1)

		// when
		outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

		// then
		assert.NoError(t, err)
		assert.Equal(t, StateSucceeded, outcome.State)
		assert.Equal(t, "TNDT12345", outcome.OrderCode)
		assert.Equal(t, 1, outcome.Attempts)
		assert.False(t, outcome.Duplicate)
		require.NotNil(t, outcome.Detection)
		assert.Equal(t, PaymentTypeTour, outcome.Detection.Type)
		assert.Equal(t, "BK1", outcome.Detection.BookingInfo.BookingCode)

		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodProcessEnhancedWebhook))
		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodConfirmTourPaymentSuccess))
		assert.Equal(t, 0, backend.CallCount(paymentapi.MethodGetOrderByOrderCode))

		booking, _, _ := backend.Bookings.Get(c, "TNDT12345")
		assert.Equal(t, paymentapi.StatusPaid, booking.PaymentStatus)

		record, found, _ := sut.records.Get(c, "success/TNDT12345")
		assert.True(t, found)
		assert.Equal(t, RecordSucceeded, record.Status)
		assert.Equal(t, PaymentTypeTour, record.PaymentType)
		assert.True(t, record.Success)
	})

	t.Run("no order code in url", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		sut := setupReconciler(t, ctrl, testConfig(true), backend)

		outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, "https://shop.example.com/api/payment/callback/success?status=PAID")

		assert.ErrorIs(t, err, ErrOrderCodeMissing)
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assert.Equal(t, StateFailed, outcome.State)
		assert.Empty(t, outcome.OrderCode)
		assert.Equal(t, 0, totalCalls(backend))
		assert.Empty(t, sut.records.Items)
	})

	t.Run("order code matches nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewFakeBackend()
		sut := setupReconciler(t, ctrl, testConfig(true), backend)

		outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

		assert.ErrorIs(t, err, ErrPaymentTypeUndetermined)
		assert.Equal(t, http.StatusNotFound, myerrors.GetHTTPStatus(err))
		assert.Equal(t, StateFailed, outcome.State)
		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodGetTransactionByOrderCode))
		assert.Equal(t, 0, backend.CallCount(paymentapi.MethodProcessEnhancedWebhook))
		assert.Equal(t, 0, backend.CallCount(paymentapi.MethodConfirmTourPaymentSuccess))
		assert.Equal(t, 0, backend.CallCount(paymentapi.MethodConfirmOrderPaymentSuccess))

		record, found, _ := sut.records.Get(c, "success/TNDT12345")
		assert.True(t, found)
		assert.Equal(t, RecordFailed, record.Status)
	})

	t.Run("product payment confirmed by legacy after enhanced failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := productBackend()
		backend.FailWith(paymentapi.MethodProcessEnhancedWebhook, errors.New("webhook down"))
		sut := setupReconciler(t, ctrl, testConfig(true), backend)

		sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, paymentevents.PaymentConfirmed{
			OrderCode:   "TNDT12345",
			PaymentType: "product",
			Status:      "PAID",
			Strategy:    StrategyProductOrder,
		}).Return(nil)

		outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, "https://shop.example.com/cb?orderId=TNDT12345&status=PAID")

		assert.NoError(t, err)
		assert.Equal(t, "Order payment confirmed", outcome.Message)
		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodConfirmOrderPaymentSuccess))
	})

	t.Run("unknown flow", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		sut := setupReconciler(t, ctrl, testConfig(true), backend)

		_, err := sut.reconciler.Reconcile(c, Flow("refund"), successURL)

		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assert.Equal(t, 0, totalCalls(backend))
	})
}

func TestReconcileRetries(t *testing.T) {
	c := context.Background()

	t.Run("transient failure then success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := paymentapi.NewMockBackend(ctrl)
		sut := setupReconciler(t, ctrl, testConfig(false), backend)

		backend.EXPECT().GetBookingByOrderCode(gomock.Any(), "TNDT12345").Return(bookingFound, nil).Times(1)
		gomock.InOrder(
			backend.EXPECT().ConfirmTourPaymentSuccess(gomock.Any(), gomock.Any()).Return(paymentapi.Response{}, errors.New("connection reset")),
			backend.EXPECT().ConfirmTourPaymentSuccess(gomock.Any(), gomock.Any()).Return(legacyOK, nil),
		)
		sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, gomock.Any()).Return(nil)

		outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

		assert.NoError(t, err)
		assert.Equal(t, 2, outcome.Attempts)
		assert.Equal(t, "confirmed by legacy", outcome.Message)
	})

	t.Run("retries exhausted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		backend.FailWith(paymentapi.MethodConfirmTourPaymentSuccess, myerrors.NewUnavailableError(errors.New("backend answered 502")))
		sut := setupReconciler(t, ctrl, testConfig(false), backend)

		outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

		assert.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, myerrors.GetHTTPStatus(err))
		assert.Equal(t, StateFailed, outcome.State)
		assert.Equal(t, 3, outcome.Attempts)
		assert.Equal(t, DefaultFailureMessage, outcome.Message)
		assert.Equal(t, 3, backend.CallCount(paymentapi.MethodConfirmTourPaymentSuccess))
		// detection is not retried
		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodGetBookingByOrderCode))

		record, _, _ := sut.records.Get(c, "success/TNDT12345")
		assert.Equal(t, RecordFailed, record.Status)
		assert.Equal(t, 3, record.Attempts)
	})

	t.Run("slow legacy side effect after enhanced success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		backend.DelayWith(paymentapi.MethodConfirmTourPaymentSuccess, 200*time.Millisecond)
		config := testConfig(true)
		config.Retry.Timeout = 50 * time.Millisecond
		sut := setupReconciler(t, ctrl, config, backend)

		sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, gomock.Any()).Return(nil).Times(1)

		outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

		assert.NoError(t, err)
		assert.Equal(t, StateSucceeded, outcome.State)
		assert.Equal(t, 1, outcome.Attempts)
		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodProcessEnhancedWebhook))
		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodConfirmTourPaymentSuccess))

		record, _, _ := sut.records.Get(c, "success/TNDT12345")
		assert.Equal(t, RecordSucceeded, record.Status)
	})

	t.Run("rejection is final", func(t *testing.T) {
		testCases := []struct {
			name            string
			rejection       string
			expectedMessage string
		}{
			{name: "backend message verbatim", rejection: "Amount mismatch", expectedMessage: "Amount mismatch"},
			{name: "empty message", rejection: "", expectedMessage: DefaultFailureMessage},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				backend := tourBackend()
				backend.RejectWith(paymentapi.MethodConfirmTourPaymentSuccess, tc.rejection)
				sut := setupReconciler(t, ctrl, testConfig(false), backend)

				outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

				assert.ErrorIs(t, err, ErrPaymentRejected)
				assert.Equal(t, http.StatusUnprocessableEntity, myerrors.GetHTTPStatus(err))
				assert.Equal(t, tc.expectedMessage, outcome.Message)
				assert.Equal(t, 1, outcome.Attempts)
				assert.Equal(t, 1, backend.CallCount(paymentapi.MethodConfirmTourPaymentSuccess))
			})
		}
	})
}

func TestReconcileIdempotency(t *testing.T) {
	c := context.Background()

	t.Run("second callback is a duplicate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		sut := setupReconciler(t, ctrl, testConfig(false), backend)

		sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, gomock.Any()).Return(nil).Times(1)

		first, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)
		require.NoError(t, err)
		assert.False(t, first.Duplicate)

		second, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)
		require.NoError(t, err)
		assert.True(t, second.Duplicate)
		assert.Equal(t, StateSucceeded, second.State)
		assert.Equal(t, PaymentTypeTour, second.Detection.Type)
		assert.Equal(t, first.Message, second.Message)

		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodConfirmTourPaymentSuccess))
		assert.Equal(t, 1, backend.CallCount(paymentapi.MethodGetBookingByOrderCode))
	})

	t.Run("callback in progress elsewhere", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		sut := setupReconciler(t, ctrl, testConfig(false), backend)
		sut.records.Put(c, "success/TNDT12345", ReconciliationRecord{
			UID:          "success/TNDT12345",
			Status:       RecordInProgress,
			ClaimUID:     "other-claim",
			LastModified: mytime.ExampleTime.Add(-30 * time.Second),
		})

		_, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

		assert.ErrorIs(t, err, ErrReconciliationInProgress)
		assert.Equal(t, http.StatusConflict, myerrors.GetHTTPStatus(err))
		assert.Equal(t, 0, totalCalls(backend))

		record, _, _ := sut.records.Get(c, "success/TNDT12345")
		assert.Equal(t, "other-claim", record.ClaimUID)
	})

	t.Run("stale claim is taken over", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		sut := setupReconciler(t, ctrl, testConfig(false), backend)
		createdAt := mytime.ExampleTime.Add(-time.Hour)
		sut.records.Put(c, "success/TNDT12345", ReconciliationRecord{
			UID:          "success/TNDT12345",
			Status:       RecordInProgress,
			ClaimUID:     "dead-claim",
			CreatedAt:    createdAt,
			LastModified: mytime.ExampleTime.Add(-3 * time.Minute),
		})
		sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, gomock.Any()).Return(nil)

		_, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

		assert.NoError(t, err)
		record, _, _ := sut.records.Get(c, "success/TNDT12345")
		assert.Equal(t, RecordSucceeded, record.Status)
		assert.Equal(t, "claim-1", record.ClaimUID)
		assert.Equal(t, createdAt, record.CreatedAt)
	})

	t.Run("failed callback can be retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		backend.RejectWith(paymentapi.MethodConfirmTourPaymentSuccess, "try later")
		sut := setupReconciler(t, ctrl, testConfig(false), backend)

		_, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)
		require.Error(t, err)

		backend.Heal(paymentapi.MethodConfirmTourPaymentSuccess)
		sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, gomock.Any()).Return(nil)

		outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

		assert.NoError(t, err)
		assert.False(t, outcome.Duplicate)
		assert.Equal(t, 2, backend.CallCount(paymentapi.MethodConfirmTourPaymentSuccess))
	})

	t.Run("success and cancel are reconciled independently", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		backend := tourBackend()
		sut := setupReconciler(t, ctrl, testConfig(false), backend)
		sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, gomock.Any()).Return(nil).Times(2)

		_, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)
		require.NoError(t, err)
		outcome, err := sut.reconciler.Reconcile(c, FlowCancel, cancelURL)
		require.NoError(t, err)

		assert.False(t, outcome.Duplicate)
		assert.Len(t, sut.records.Items, 2)
	})
}

func TestReconcileCancel(t *testing.T) {
	c := context.Background()

	ctrl := gomock.NewController(t)
	backend := productBackend()
	sut := setupReconciler(t, ctrl, testConfig(true), backend)

	sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, paymentevents.PaymentCancelled{
		OrderCode:   "TNDT12345",
		PaymentType: "product",
	}).Return(nil)

	outcome, err := sut.reconciler.Reconcile(c, FlowCancel, cancelURL)

	assert.NoError(t, err)
	assert.Equal(t, StateSucceeded, outcome.State)
	assert.Equal(t, FlowCancel, outcome.Flow)
	assert.Equal(t, 1, backend.CallCount(paymentapi.MethodConfirmOrderPaymentCancel))
	assert.Equal(t, 0, backend.CallCount(paymentapi.MethodProcessEnhancedWebhook))

	order, _, _ := backend.Orders.Get(c, "TNDT12345")
	assert.Equal(t, paymentapi.StatusCancelled, order.Status)
}

func TestReconcilePublishFailureKeepsSuccess(t *testing.T) {
	c := context.Background()

	ctrl := gomock.NewController(t)
	backend := tourBackend()
	sut := setupReconciler(t, ctrl, testConfig(false), backend)
	sut.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, gomock.Any()).Return(errors.New("outbox full"))

	outcome, err := sut.reconciler.Reconcile(c, FlowSuccess, successURL)

	assert.NoError(t, err)
	assert.Equal(t, StateSucceeded, outcome.State)
}
