package paymentcallback

import "context"

//go:generate mockgen -source=cart_clearer.go -package paymentcallback -destination cart_clearer_mock.go CartClearer
type CartClearer interface {
	Clear(c context.Context, ownerUID string, role string) error
}
