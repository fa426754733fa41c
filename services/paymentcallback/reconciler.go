package paymentcallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcGrol/travelshop/lib/myerrors"
	"github.com/MarcGrol/travelshop/lib/myevents"
	"github.com/MarcGrol/travelshop/lib/mylog"
	"github.com/MarcGrol/travelshop/lib/mypublisher"
	"github.com/MarcGrol/travelshop/lib/myretry"
	"github.com/MarcGrol/travelshop/lib/mystore"
	"github.com/MarcGrol/travelshop/lib/mytime"
	"github.com/MarcGrol/travelshop/lib/myuuid"
	"github.com/MarcGrol/travelshop/services/paymentapi"
	"github.com/MarcGrol/travelshop/services/paymentevents"
)

type State string

const (
	StateIdle               State = "Idle"
	StateParsingURL         State = "ParsingURL"
	StateDetectingType      State = "DetectingType"
	StateProcessingCallback State = "ProcessingCallback"
	StateSucceeded          State = "Succeeded"
	StateFailed             State = "Failed"
)

type Config struct {
	EnhancedEnabled      bool
	UnifiedLookupEnabled bool
	Retry                myretry.Options
}

// Outcome describes where a single reconciliation ended.
type Outcome struct {
	State     State
	Flow      Flow
	OrderCode string
	Detection *PaymentTypeDetection
	Response  *paymentapi.Response
	Attempts  int
	Message   string
	Duplicate bool
}

type Reconciler struct {
	config    Config
	detector  *Detector
	processor *Processor
	records   mystore.Store[ReconciliationRecord]
	publisher mypublisher.Publisher
	nower     mytime.Nower
	uuider    myuuid.UUIDer
	executor  myretry.Executor
	logger    mylog.Logger
}

func NewReconciler(config Config, backend paymentapi.Backend, records mystore.Store[ReconciliationRecord], publisher mypublisher.Publisher, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger) *Reconciler {
	return &Reconciler{
		config:    config,
		detector:  NewDetector(backend, logger, config.UnifiedLookupEnabled),
		processor: NewProcessor(backend, logger),
		records:   records,
		publisher: publisher,
		nower:     nower,
		uuider:    uuider,
		executor:  myretry.NewExecutor(logger, nil),
		logger:    logger,
	}
}

func (r *Reconciler) Detector() *Detector {
	return r.detector
}

// Reconcile runs one callback from the PayOS redirect url to a terminal state.
// The returned error is non-nil exactly when the outcome is Failed.
func (r *Reconciler) Reconcile(c context.Context, flow Flow, rawURL string) (Outcome, error) {
	out := Outcome{
		State: StateIdle,
		Flow:  flow,
	}

	if flow != FlowSuccess && flow != FlowCancel {
		return r.fail(c, &out, nil, myerrors.NewInvalidInputError(fmt.Errorf("unknown flow %q", flow)))
	}

	r.transition(c, &out, StateParsingURL)
	params := ParseCallbackParams(rawURL)
	identifier, found := params.Identifier()
	if !found {
		return r.fail(c, &out, nil, myerrors.NewInvalidInputError(ErrOrderCodeMissing))
	}
	out.OrderCode = NormalizeOrderCode(identifier)

	record, duplicate, err := r.claim(c, flow, out.OrderCode)
	if err != nil {
		return r.fail(c, &out, nil, err)
	}
	if duplicate {
		return r.duplicate(c, out, record), nil
	}

	r.transition(c, &out, StateDetectingType)
	detection, err := r.detector.DetectPaymentType(c, out.OrderCode)
	if err != nil {
		return r.fail(c, &out, &record, err)
	}
	out.Detection = &detection

	r.transition(c, &out, StateProcessingCallback)
	req := params.toRequest(out.OrderCode)
	opts := r.config.Retry
	opts.Label = out.OrderCode
	// Only the deciding call is retried and timed, the legacy side effect runs once afterwards.
	result := myretry.DoWith(c, r.executor, func(c context.Context) (Confirmation, error) {
		if flow == FlowCancel {
			resp, err := r.processor.ProcessPaymentCancel(c, detection.Type, req)
			return Confirmation{Response: resp, System: systemLegacy}, err
		}
		return r.processor.Confirm(c, detection.Type, req, r.config.EnhancedEnabled)
	}, opts)
	out.Attempts = result.Attempts

	if !result.Success {
		out.Message = DefaultFailureMessage
		return r.fail(c, &out, &record, myerrors.NewUnavailableError(fmt.Errorf("payment confirmation failed after %d attempts: %w", result.Attempts, result.Err)))
	}

	if result.Data.System == systemEnhanced {
		r.processor.RunLegacySideEffect(c, detection.Type, req)
	}

	resp := result.Data.Response
	out.Response = &resp
	if !resp.Success {
		out.Message = resp.Message
		if out.Message == "" {
			out.Message = DefaultFailureMessage
		}
		return r.fail(c, &out, &record, myerrors.NewUnprocessableError(fmt.Errorf("%w: %s", ErrPaymentRejected, out.Message)))
	}

	out.Message = resp.Message
	r.succeed(c, &out, record, r.eventFor(flow, detection, req))

	return out, nil
}

func (r *Reconciler) transition(c context.Context, out *Outcome, to State) {
	r.logger.Log(c, out.OrderCode, mylog.SeverityInfo, "%s-callback %s: %s -> %s", out.Flow, out.OrderCode, out.State, to)
	out.State = to
}

func (r *Reconciler) fail(c context.Context, out *Outcome, record *ReconciliationRecord, err error) (Outcome, error) {
	r.transition(c, out, StateFailed)
	if out.Message == "" {
		out.Message = myerrors.GetMessage(err)
	}
	r.logger.Log(c, out.OrderCode, mylog.SeverityWarn, "%s-callback %s failed: %s", out.Flow, out.OrderCode, err)

	if record != nil {
		finalizeErr := r.finalize(c, *record, RecordFailed, *out, nil)
		if finalizeErr != nil {
			r.logger.Log(c, out.OrderCode, mylog.SeverityError, "Error recording failure of %s: %s", out.OrderCode, finalizeErr)
		}
	}

	return *out, err
}

func (r *Reconciler) succeed(c context.Context, out *Outcome, record ReconciliationRecord, event myevents.Event) {
	r.transition(c, out, StateSucceeded)

	// The backend has confirmed at this point, a bookkeeping problem must not turn that into a failure.
	err := r.finalize(c, record, RecordSucceeded, *out, event)
	if err != nil {
		r.logger.Log(c, out.OrderCode, mylog.SeverityError, "Error recording success of %s: %s", out.OrderCode, err)
	}
}

func (r *Reconciler) duplicate(c context.Context, out Outcome, record ReconciliationRecord) Outcome {
	r.logger.Log(c, out.OrderCode, mylog.SeverityInfo, "%s-callback %s was already reconciled at %s", out.Flow, out.OrderCode, record.LastModified)

	out.State = StateSucceeded
	out.Duplicate = true
	out.Attempts = record.Attempts
	out.Message = record.Message
	out.Detection = &PaymentTypeDetection{
		Type:      record.PaymentType,
		OrderCode: record.OrderCode,
		Strategy:  record.Strategy,
	}
	out.Response = &paymentapi.Response{
		Success: record.Success,
		Message: record.Message,
	}
	return out
}

// claim marks flow/orderCode as in progress, or reports a previous success as duplicate.
func (r *Reconciler) claim(c context.Context, flow Flow, orderCode string) (ReconciliationRecord, bool, error) {
	uid := recordUID(flow, orderCode)
	claimUID := r.uuider.Create()

	var (
		record    ReconciliationRecord
		duplicate bool
	)
	err := r.records.RunInTransaction(c, func(c context.Context) error {
		now := r.nower.Now()

		existing, found, err := r.records.Get(c, uid)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching reconciliation %s: %w", uid, err))
		}

		createdAt := now
		if found {
			switch existing.Status {
			case RecordSucceeded:
				record, duplicate = existing, true
				return nil
			case RecordInProgress:
				if now.Sub(existing.LastModified) < staleClaimAfter {
					return myerrors.NewConflictError(ErrReconciliationInProgress)
				}
				r.logger.Log(c, orderCode, mylog.SeverityWarn, "Taking over stale claim %s on %s", existing.ClaimUID, uid)
			}
			createdAt = existing.CreatedAt
		}

		record = ReconciliationRecord{
			UID:          uid,
			Flow:         flow,
			OrderCode:    orderCode,
			Status:       RecordInProgress,
			ClaimUID:     claimUID,
			CreatedAt:    createdAt,
			LastModified: now,
		}
		err = r.records.Put(c, uid, record)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing reconciliation %s: %w", uid, err))
		}
		return nil
	})
	if err != nil {
		return ReconciliationRecord{}, false, err
	}

	return record, duplicate, nil
}

// finalize stores the terminal state and publishes the event in the same transaction.
// A claim that was taken over in the meantime is left alone.
func (r *Reconciler) finalize(c context.Context, claimed ReconciliationRecord, status RecordStatus, out Outcome, event myevents.Event) error {
	return r.records.RunInTransaction(c, func(c context.Context) error {
		current, found, err := r.records.Get(c, claimed.UID)
		if err != nil {
			return fmt.Errorf("error fetching reconciliation %s: %w", claimed.UID, err)
		}
		if !found || current.ClaimUID != claimed.ClaimUID {
			return errors.New("claim was taken over")
		}

		current.Status = status
		current.Attempts = out.Attempts
		current.Message = out.Message
		current.Success = status == RecordSucceeded
		if out.Detection != nil {
			current.PaymentType = out.Detection.Type
			current.Strategy = out.Detection.Strategy
		}
		current.LastModified = r.nower.Now()

		err = r.records.Put(c, current.UID, current)
		if err != nil {
			return fmt.Errorf("error storing reconciliation %s: %w", current.UID, err)
		}

		if event != nil {
			err = r.publisher.Publish(c, paymentevents.TopicName, event)
			if err != nil {
				return fmt.Errorf("error publishing %s: %w", event.GetEventTypeName(), err)
			}
		}
		return nil
	})
}

func (r *Reconciler) eventFor(flow Flow, detection PaymentTypeDetection, req paymentapi.CallbackRequest) myevents.Event {
	if flow == FlowCancel {
		return paymentevents.PaymentCancelled{
			OrderCode:   detection.OrderCode,
			PaymentType: string(detection.Type),
		}
	}
	return paymentevents.PaymentConfirmed{
		OrderCode:   detection.OrderCode,
		PaymentType: string(detection.Type),
		Status:      req.Status,
		Strategy:    detection.Strategy,
	}
}
