package paymentcallback

import (
	"net/url"
	"strings"

	formcodec "github.com/go-playground/form/v4"

	"github.com/MarcGrol/travelshop/services/paymentapi"
)

// CallbackParams are the query parameters PayOS adds when redirecting back to the shop.
type CallbackParams struct {
	OrderCode string `form:"orderCode" json:"orderCode,omitempty"`
	OrderID   string `form:"orderId" json:"orderId,omitempty"`
	Status    string `form:"status" json:"status,omitempty"`
	Code      string `form:"code" json:"code,omitempty"`
	ID        string `form:"id" json:"id,omitempty"`
	Cancel    string `form:"cancel" json:"cancel,omitempty"`
	// Raw holds the first value of every query parameter, including unknown ones.
	Raw map[string]string `form:"-" json:"raw,omitempty"`
}

var decoder = formcodec.NewDecoder()

// ParseCallbackParams never fails: an unparsable url yields empty params.
func ParseCallbackParams(rawURL string) CallbackParams {
	params := CallbackParams{
		Raw: map[string]string{},
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return params
	}

	values := u.Query()
	for key, vals := range values {
		if len(vals) > 0 {
			params.Raw[key] = vals[0]
		}
	}

	err = decoder.Decode(&params, values)
	if err != nil {
		// Only string fields are decoded, so this cannot happen for well-formed values.
		return CallbackParams{Raw: params.Raw}
	}

	return params
}

// Identifier prefers orderCode over orderId.
func (p CallbackParams) Identifier() (string, bool) {
	if code := strings.TrimSpace(p.OrderCode); code != "" {
		return code, true
	}
	if id := strings.TrimSpace(p.OrderID); id != "" {
		return id, true
	}
	return "", false
}

func (p CallbackParams) IsCancelled() bool {
	return strings.EqualFold(p.Status, paymentapi.StatusCancelled) || strings.EqualFold(p.Cancel, "true")
}

// toRequest carries everything PayOS sent on to the backend.
func (p CallbackParams) toRequest(orderCode string) paymentapi.CallbackRequest {
	extra := map[string]string{}
	for key, value := range p.Raw {
		switch key {
		case "orderCode", "orderId", "status", "code", "id", "cancel":
		default:
			extra[key] = value
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	return paymentapi.CallbackRequest{
		OrderCode: orderCode,
		Status:    p.Status,
		Code:      p.Code,
		ID:        p.ID,
		Cancel:    p.IsCancelled(),
		Extra:     extra,
	}
}
