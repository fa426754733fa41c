package myhttp

import (
	"net/http"
	"strings"
)

const (
	HeaderUserUID  = "X-User-UID"
	HeaderUserRole = "X-User-Role"

	RoleGuest = "guest"
)

// Identity is asserted by the authenticating gateway in front of this service.
type Identity struct {
	UID  string
	Role string
}

func (i Identity) IsAnonymous() bool {
	return i.UID == ""
}

func IdentityFromRequest(r *http.Request) Identity {
	identity := Identity{
		UID:  strings.TrimSpace(r.Header.Get(HeaderUserUID)),
		Role: strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
	}
	if identity.Role == "" {
		identity.Role = RoleGuest
	}
	return identity
}
