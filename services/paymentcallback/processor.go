package paymentcallback

import (
	"context"
	"fmt"

	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/services/paymentapi"
)

type Flow string

const (
	FlowSuccess Flow = "success"
	FlowCancel  Flow = "cancel"
)

const (
	systemEnhanced = "enhanced"
	systemLegacy   = "legacy"
)

type confirmFunc func(c context.Context, req paymentapi.CallbackRequest) (paymentapi.Response, error)

// Processor confirms payments on the backend, preferring the enhanced webhook system over the legacy endpoints.
type Processor struct {
	backend paymentapi.Backend
	logger  mylog.Logger
}

func NewProcessor(backend paymentapi.Backend, logger mylog.Logger) *Processor {
	return &Processor{
		backend: backend,
		logger:  logger,
	}
}

// Confirmation is the answer that decides a callback, together with the system that gave it.
type Confirmation struct {
	Response paymentapi.Response
	System   string
}

// Confirm tries the enhanced system first and falls back to the legacy answer, which is returned as is.
// The legacy side effect after an enhanced success is not part of it, see RunLegacySideEffect.
func (p *Processor) Confirm(c context.Context, t PaymentType, req paymentapi.CallbackRequest, useEnhanced bool) (Confirmation, error) {
	legacy, err := p.legacyHandler(t, FlowSuccess)
	if err != nil {
		return Confirmation{}, err
	}

	if !useEnhanced {
		resp, err := legacy(c, req)
		return Confirmation{Response: resp, System: systemLegacy}, err
	}

	resp, system, err := FirstSuccess(c, p.logger, req.OrderCode, []Strategy[paymentapi.Response]{
		{Name: systemEnhanced, Attempt: func(c context.Context) (paymentapi.Response, error) {
			resp, err := p.backend.ProcessEnhancedWebhook(c, req)
			if err != nil {
				return resp, err
			}
			if !resp.Success {
				return resp, fmt.Errorf("enhanced system declined: %s", resp.Message)
			}
			return resp, nil
		}},
		{Name: systemLegacy, Attempt: func(c context.Context) (paymentapi.Response, error) {
			return legacy(c, req)
		}},
	})
	if err != nil {
		return Confirmation{Response: resp, System: systemLegacy}, err
	}
	return Confirmation{Response: resp, System: system}, nil
}

// RunLegacySideEffect invokes the legacy success handler once after the enhanced system confirmed.
// Its outcome is only logged.
func (p *Processor) RunLegacySideEffect(c context.Context, t PaymentType, req paymentapi.CallbackRequest) {
	legacy, err := p.legacyHandler(t, FlowSuccess)
	if err != nil {
		p.logger.Log(c, req.OrderCode, mylog.SeverityWarn, "No legacy handler after enhanced success: %s", err)
		return
	}

	resp, err := legacy(c, req)
	if err != nil {
		p.logger.Log(c, req.OrderCode, mylog.SeverityWarn, "Legacy %s handler after enhanced success failed: %s", t, err)
		return
	}
	p.logger.Log(c, req.OrderCode, mylog.SeverityInfo, "Legacy %s handler after enhanced success: success=%t message=%q", t, resp.Success, resp.Message)
}

// ProcessPaymentCallback returns the enhanced answer when it succeeds, the legacy handler is then still
// invoked once for its side effects. Otherwise the legacy answer is returned as is.
// Clearing the cart is up to the caller.
func (p *Processor) ProcessPaymentCallback(c context.Context, t PaymentType, req paymentapi.CallbackRequest, useEnhanced bool) (paymentapi.Response, error) {
	confirmation, err := p.Confirm(c, t, req, useEnhanced)
	if err != nil {
		return confirmation.Response, err
	}
	if confirmation.System == systemEnhanced {
		p.RunLegacySideEffect(c, t, req)
	}
	return confirmation.Response, nil
}

// ProcessPaymentCancel only knows the legacy system.
func (p *Processor) ProcessPaymentCancel(c context.Context, t PaymentType, req paymentapi.CallbackRequest) (paymentapi.Response, error) {
	legacy, err := p.legacyHandler(t, FlowCancel)
	if err != nil {
		return paymentapi.Response{}, err
	}
	return legacy(c, req)
}

func (p *Processor) legacyHandler(t PaymentType, flow Flow) (confirmFunc, error) {
	switch {
	case t == PaymentTypeTour && flow == FlowSuccess:
		return p.backend.ConfirmTourPaymentSuccess, nil
	case t == PaymentTypeTour && flow == FlowCancel:
		return p.backend.ConfirmTourPaymentCancel, nil
	case t == PaymentTypeProduct && flow == FlowSuccess:
		return p.backend.ConfirmOrderPaymentSuccess, nil
	case t == PaymentTypeProduct && flow == FlowCancel:
		return p.backend.ConfirmOrderPaymentCancel, nil
	default:
		return nil, myerrors.NewInvalidInputError(fmt.Errorf("%w %q", ErrUnknownPaymentType, t))
	}
}
