package paymentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/myhttpclient"
	"github.com/MarcGrol/travelshop/lib/mylog"
)

type httpBackend struct {
	baseURL string
	client  myhttpclient.HTTPSender
	logger  mylog.Logger
}

func NewHTTPBackend(baseURL string, client myhttpclient.HTTPSender) Backend {
	return &httpBackend{
		baseURL: baseURL,
		client:  client,
		logger:  mylog.New("paymentapi"),
	}
}

func (b *httpBackend) GetBookingByOrderCode(c context.Context, orderCode string) (LookupResponse[BookingPaymentInfo], error) {
	resp := LookupResponse[BookingPaymentInfo]{}
	err := b.send(c, http.MethodGet, fmt.Sprintf(pathBookingByOrderCode, url.PathEscape(orderCode)), nil, &resp)
	return resp, err
}

func (b *httpBackend) GetOrderByOrderCode(c context.Context, orderCode string) (LookupResponse[ProductOrderInfo], error) {
	resp := LookupResponse[ProductOrderInfo]{}
	err := b.send(c, http.MethodGet, fmt.Sprintf(pathOrderByOrderCode, url.PathEscape(orderCode)), nil, &resp)
	return resp, err
}

func (b *httpBackend) GetTransactionByOrderCode(c context.Context, orderCode string) (LookupResponse[TransactionInfo], error) {
	resp := LookupResponse[TransactionInfo]{}
	err := b.send(c, http.MethodGet, fmt.Sprintf(pathTransactionByOrderCode, url.PathEscape(orderCode)), nil, &resp)
	return resp, err
}

func (b *httpBackend) ConfirmTourPaymentSuccess(c context.Context, req CallbackRequest) (Response, error) {
	return b.confirm(c, pathTourPaymentSuccess, req)
}

func (b *httpBackend) ConfirmTourPaymentCancel(c context.Context, req CallbackRequest) (Response, error) {
	return b.confirm(c, pathTourPaymentCancel, req)
}

func (b *httpBackend) ConfirmOrderPaymentSuccess(c context.Context, req CallbackRequest) (Response, error) {
	return b.confirm(c, pathOrderPaymentSuccess, req)
}

func (b *httpBackend) ConfirmOrderPaymentCancel(c context.Context, req CallbackRequest) (Response, error) {
	return b.confirm(c, pathOrderPaymentCancel, req)
}

func (b *httpBackend) ProcessEnhancedWebhook(c context.Context, req CallbackRequest) (Response, error) {
	return b.confirm(c, pathEnhancedWebhook, req)
}

func (b *httpBackend) confirm(c context.Context, path string, req CallbackRequest) (Response, error) {
	resp := Response{}
	err := b.send(c, http.MethodPost, path, req, &resp)
	return resp, err
}

// send treats every 4xx as a regular (negative) backend answer, decoded when the body allows it.
// Transport errors, 5xx and undecodable 2xx answers are errors so callers may retry them.
func (b *httpBackend) send(c context.Context, method string, path string, request any, response any) error {
	var body []byte
	if request != nil {
		var err error
		body, err = json.Marshal(request)
		if err != nil {
			return fmt.Errorf("error marshalling request for %s %s: %w", method, path, err)
		}
	}

	status, respBody, err := b.client.Send(c, method, b.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error calling %s %s: %w", method, path, err)
	}

	var decodeErr error
	if len(respBody) == 0 {
		decodeErr = fmt.Errorf("empty response body")
	} else {
		decodeErr = json.Unmarshal(respBody, response)
	}

	switch {
	case status >= 200 && status < 300:
		if decodeErr != nil {
			return fmt.Errorf("error decoding response of %s %s: %w", method, path, decodeErr)
		}
		return nil
	case status >= 500:
		return myerrors.NewUnavailableError(fmt.Errorf("%s %s returned http-status %d", method, path, status))
	case decodeErr == nil:
		b.logger.Log(c, "", mylog.SeverityInfo, "%s %s answered with http-status %d", method, path, status)
		return nil
	default:
		// A 4xx is a final answer even without a readable body, response keeps success=false.
		b.logger.Log(c, "", mylog.SeverityWarn, "%s %s answered with http-status %d and an unreadable body: %s", method, path, status, decodeErr)
		return nil
	}
}
