package paymentcallback

import "strings"

// OrderCodePrefix is the backend's canonical prefix for PayOS order codes.
const OrderCodePrefix = "TNDT"

// NormalizeOrderCode prefixes purely numeric codes and leaves everything else untouched.
func NormalizeOrderCode(raw string) string {
	if strings.HasPrefix(raw, OrderCodePrefix) {
		return raw
	}
	if isDigits(raw) {
		return OrderCodePrefix + raw
	}
	return raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
