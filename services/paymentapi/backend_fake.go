package paymentapi

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/travelshop/lib/mystore"
)

// FakeBackend is an in-memory stand-in for the platform backend, used in tests and local runs.
type FakeBackend struct {
	sync.Mutex
	Bookings   *mystore.InMemoryStore[BookingPaymentInfo]
	Orders     *mystore.InMemoryStore[ProductOrderInfo]
	calls      map[string]int
	failures   map[string]error
	rejections map[string]string
	delays     map[string]time.Duration
}

func NewFakeBackend() *FakeBackend {
	bookings, _, _ := mystore.NewInMemoryStore[BookingPaymentInfo](context.Background())
	orders, _, _ := mystore.NewInMemoryStore[ProductOrderInfo](context.Background())
	return &FakeBackend{
		Bookings:   bookings,
		Orders:     orders,
		calls:      map[string]int{},
		failures:   map[string]error{},
		rejections: map[string]string{},
		delays:     map[string]time.Duration{},
	}
}

func (f *FakeBackend) AddBooking(orderCode string, info BookingPaymentInfo) {
	f.Bookings.Put(context.Background(), orderCode, info)
}

func (f *FakeBackend) AddOrder(orderCode string, info ProductOrderInfo) {
	f.Orders.Put(context.Background(), orderCode, info)
}

// FailWith makes every call to method fail as if the backend were unreachable.
func (f *FakeBackend) FailWith(method string, err error) {
	f.Lock()
	defer f.Unlock()
	f.failures[method] = err
}

// RejectWith makes every call to method answer with success=false and message.
func (f *FakeBackend) RejectWith(method string, message string) {
	f.Lock()
	defer f.Unlock()
	f.rejections[method] = message
}

// DelayWith makes every call to method take at least d before it answers.
func (f *FakeBackend) DelayWith(method string, d time.Duration) {
	f.Lock()
	defer f.Unlock()
	f.delays[method] = d
}

// Heal removes the failure and rejection injected for method.
func (f *FakeBackend) Heal(method string) {
	f.Lock()
	defer f.Unlock()
	delete(f.failures, method)
	delete(f.rejections, method)
}

func (f *FakeBackend) CallCount(method string) int {
	f.Lock()
	defer f.Unlock()
	return f.calls[method]
}

// enter records the call and returns the injected failure or rejection for method.
func (f *FakeBackend) enter(method string) (string, bool, error) {
	f.Lock()
	f.calls[method]++
	rejection, rejected := f.rejections[method]
	failure := f.failures[method]
	delay := f.delays[method]
	f.Unlock()

	time.Sleep(delay)

	return rejection, rejected, failure
}

func (f *FakeBackend) GetBookingByOrderCode(c context.Context, orderCode string) (LookupResponse[BookingPaymentInfo], error) {
	rejection, rejected, err := f.enter(MethodGetBookingByOrderCode)
	if err != nil {
		return LookupResponse[BookingPaymentInfo]{}, err
	}
	if rejected {
		return LookupResponse[BookingPaymentInfo]{Success: false, Message: rejection}, nil
	}
	return lookup(c, f.Bookings, orderCode, "Booking not found")
}

func (f *FakeBackend) GetOrderByOrderCode(c context.Context, orderCode string) (LookupResponse[ProductOrderInfo], error) {
	rejection, rejected, err := f.enter(MethodGetOrderByOrderCode)
	if err != nil {
		return LookupResponse[ProductOrderInfo]{}, err
	}
	if rejected {
		return LookupResponse[ProductOrderInfo]{Success: false, Message: rejection}, nil
	}
	return lookup(c, f.Orders, orderCode, "Order not found")
}

func (f *FakeBackend) GetTransactionByOrderCode(c context.Context, orderCode string) (LookupResponse[TransactionInfo], error) {
	rejection, rejected, err := f.enter(MethodGetTransactionByOrderCode)
	if err != nil {
		return LookupResponse[TransactionInfo]{}, err
	}
	if rejected {
		return LookupResponse[TransactionInfo]{Success: false, Message: rejection}, nil
	}

	booking, bookingFound, err := f.Bookings.Get(c, orderCode)
	if err != nil {
		return LookupResponse[TransactionInfo]{}, err
	}
	order, orderFound, err := f.Orders.Get(c, orderCode)
	if err != nil {
		return LookupResponse[TransactionInfo]{}, err
	}
	if !bookingFound && !orderFound {
		return LookupResponse[TransactionInfo]{Success: false, Message: "Transaction not found"}, nil
	}

	info := TransactionInfo{}
	if bookingFound {
		info.TourBookingInfo = &booking
	}
	if orderFound {
		info.OrderInfo = &order
	}
	return LookupResponse[TransactionInfo]{Success: true, Data: &info}, nil
}

func (f *FakeBackend) ConfirmTourPaymentSuccess(c context.Context, req CallbackRequest) (Response, error) {
	return f.updateBooking(c, MethodConfirmTourPaymentSuccess, req, StatusPaid, "Tour payment confirmed")
}

func (f *FakeBackend) ConfirmTourPaymentCancel(c context.Context, req CallbackRequest) (Response, error) {
	return f.updateBooking(c, MethodConfirmTourPaymentCancel, req, StatusCancelled, "Tour payment cancelled")
}

func (f *FakeBackend) ConfirmOrderPaymentSuccess(c context.Context, req CallbackRequest) (Response, error) {
	return f.updateOrder(c, MethodConfirmOrderPaymentSuccess, req, StatusPaid, "Order payment confirmed")
}

func (f *FakeBackend) ConfirmOrderPaymentCancel(c context.Context, req CallbackRequest) (Response, error) {
	return f.updateOrder(c, MethodConfirmOrderPaymentCancel, req, StatusCancelled, "Order payment cancelled")
}

// ProcessEnhancedWebhook settles whichever record the order code refers to, tour bookings first.
func (f *FakeBackend) ProcessEnhancedWebhook(c context.Context, req CallbackRequest) (Response, error) {
	rejection, rejected, err := f.enter(MethodProcessEnhancedWebhook)
	if err != nil {
		return Response{}, err
	}
	if rejected {
		return Response{Success: false, Message: rejection}, nil
	}

	status := StatusPaid
	if req.Cancel || req.Status == StatusCancelled {
		status = StatusCancelled
	}

	var resp Response
	err = f.Bookings.RunInTransaction(c, func(c context.Context) error {
		booking, found, err := f.Bookings.Get(c, req.OrderCode)
		if err != nil || !found {
			return err
		}
		booking.PaymentStatus = status
		resp = Response{Success: true, Message: "Payment processed", Data: asJSON(booking)}
		return f.Bookings.Put(c, req.OrderCode, booking)
	})
	if err != nil || resp.Success {
		return resp, err
	}

	err = f.Orders.RunInTransaction(c, func(c context.Context) error {
		order, found, err := f.Orders.Get(c, req.OrderCode)
		if err != nil || !found {
			return err
		}
		order.Status = status
		resp = Response{Success: true, Message: "Payment processed", Data: asJSON(order)}
		return f.Orders.Put(c, req.OrderCode, order)
	})
	if err != nil || resp.Success {
		return resp, err
	}

	return Response{Success: false, Message: "Transaction not found"}, nil
}

func (f *FakeBackend) updateBooking(c context.Context, method string, req CallbackRequest, status string, message string) (Response, error) {
	rejection, rejected, err := f.enter(method)
	if err != nil {
		return Response{}, err
	}
	if rejected {
		return Response{Success: false, Message: rejection}, nil
	}

	resp := Response{Success: false, Message: "Booking not found"}
	err = f.Bookings.RunInTransaction(c, func(c context.Context) error {
		booking, found, err := f.Bookings.Get(c, req.OrderCode)
		if err != nil || !found {
			return err
		}
		booking.PaymentStatus = status
		resp = Response{Success: true, Message: message, Data: asJSON(booking)}
		return f.Bookings.Put(c, req.OrderCode, booking)
	})
	return resp, err
}

func (f *FakeBackend) updateOrder(c context.Context, method string, req CallbackRequest, status string, message string) (Response, error) {
	rejection, rejected, err := f.enter(method)
	if err != nil {
		return Response{}, err
	}
	if rejected {
		return Response{Success: false, Message: rejection}, nil
	}

	resp := Response{Success: false, Message: "Order not found"}
	err = f.Orders.RunInTransaction(c, func(c context.Context) error {
		order, found, err := f.Orders.Get(c, req.OrderCode)
		if err != nil || !found {
			return err
		}
		order.Status = status
		resp = Response{Success: true, Message: message, Data: asJSON(order)}
		return f.Orders.Put(c, req.OrderCode, order)
	})
	return resp, err
}

func lookup[T any](c context.Context, store mystore.Store[T], orderCode string, notFoundMessage string) (LookupResponse[T], error) {
	info, found, err := store.Get(c, orderCode)
	if err != nil {
		return LookupResponse[T]{}, err
	}
	if !found {
		return LookupResponse[T]{Success: false, Message: notFoundMessage}, nil
	}
	return LookupResponse[T]{Success: true, Data: &info}, nil
}

func asJSON(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

// NewDemoBackend is a fake with one tour booking (order code 100001) and one product order (200001), for local runs.
func NewDemoBackend() *FakeBackend {
	f := NewFakeBackend()
	f.AddBooking("TNDT100001", BookingPaymentInfo{
		BookingCode:   "BK-100001",
		TourTitle:     "Ha Long Bay two day cruise",
		TourDate:      "2025-04-12",
		Price:         decimal.NewFromInt(2500000),
		CustomerName:  "Nguyen Van An",
		CustomerEmail: "an@example.com",
		PaymentStatus: StatusPending,
	})
	f.AddOrder("TNDT200001", ProductOrderInfo{
		OrderID:        "ORD-200001",
		PayOSOrderCode: "TNDT200001",
		TotalAmount:    decimal.NewFromInt(450000),
		DiscountAmount: decimal.NewFromInt(50000),
		FinalAmount:    decimal.NewFromInt(400000),
		Status:         StatusPending,
	})
	return f
}
