package paymentcallback

import "errors"

var (
	ErrOrderCodeMissing         = errors.New("order code not found in URL")
	ErrPaymentTypeUndetermined  = errors.New("Unable to determine payment type from order code")
	ErrReconciliationInProgress = errors.New("payment reconciliation already in progress")
	ErrPaymentRejected          = errors.New("payment rejected by backend")
	ErrUnknownPaymentType       = errors.New("unknown payment type")
)

// DefaultFailureMessage replaces an empty backend rejection message.
const DefaultFailureMessage = "Payment confirmation failed"
