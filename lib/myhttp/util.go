package myhttp

import (
	"fmt"
	"net/http"
	"os"
)

// PUBLIC_HOSTNAME overrides the derived hostname when running behind a proxy.
func HostnameWithScheme(r *http.Request) string {
	if public := os.Getenv("PUBLIC_HOSTNAME"); public != "" {
		return public
	}

	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// FullURL reconstructs the absolute url the client used to reach this request.
func FullURL(r *http.Request) string {
	return HostnameWithScheme(r) + r.URL.RequestURI()
}
