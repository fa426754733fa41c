package paymentevents

const (
	TopicName            = "payment"
	paymentConfirmedName = TopicName + ".confirmed"
	paymentCancelledName = TopicName + ".cancelled"
)

// PaymentConfirmed is published once the backend accepted a payment-success callback.
type PaymentConfirmed struct {
	OrderCode   string
	PaymentType string
	Status      string
	Strategy    string
}

func (e PaymentConfirmed) GetEventTypeName() string {
	return paymentConfirmedName
}

func (e PaymentConfirmed) GetAggregateName() string {
	return e.OrderCode
}

// PaymentCancelled is published once the backend accepted a payment-cancel callback.
type PaymentCancelled struct {
	OrderCode   string
	PaymentType string
}

func (e PaymentCancelled) GetEventTypeName() string {
	return paymentCancelledName
}

func (e PaymentCancelled) GetAggregateName() string {
	return e.OrderCode
}
