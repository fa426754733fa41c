package paymentcallback

import "time"

type RecordStatus string

const (
	RecordInProgress RecordStatus = "in_progress"
	RecordSucceeded  RecordStatus = "succeeded"
	RecordFailed     RecordStatus = "failed"
)

// staleClaimAfter allows taking over a claim whose owner apparently died mid-flight.
const staleClaimAfter = 2 * time.Minute

// ReconciliationRecord guards against confirming the same callback twice, e.g. after a page reload.
type ReconciliationRecord struct {
	UID          string
	Flow         Flow
	OrderCode    string
	Status       RecordStatus
	PaymentType  PaymentType
	Strategy     string
	Success      bool
	Message      string `datastore:",noindex"`
	Attempts     int
	ClaimUID     string
	CreatedAt    time.Time
	LastModified time.Time
}

func recordUID(flow Flow, orderCode string) string {
	return string(flow) + "/" + orderCode
}
