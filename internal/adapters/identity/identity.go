// Package identity resolves the caller of an HTTP request. Identity is used
// for auditing only; it never changes a score.
package identity

import (
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthenticated is returned when a request carries no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// HeaderUserID carries the caller id set by a trusted gateway.
const HeaderUserID = "X-User-ID"

// Identity is the resolved caller.
type Identity struct {
	UserID string
	Email  string
}

// Authenticator resolves the caller of r.
type Authenticator interface {
	Identify(r *http.Request) (Identity, error)
}

// HeaderAuthenticator trusts HeaderUserID as set by an upstream gateway.
type HeaderAuthenticator struct{}

// Identify implements Authenticator.
func (HeaderAuthenticator) Identify(r *http.Request) (Identity, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{UserID: id}, nil
}
