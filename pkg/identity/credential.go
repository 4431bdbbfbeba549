package identity

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Credential is a short-lived bearer credential. It is obtained for one chat
// request and discarded with it.
type Credential struct {
	token *oauth2.Token
}

// NewCredential wraps an access token. Used by tests and by callers that
// obtain tokens elsewhere.
func NewCredential(accessToken string, expiry time.Time) *Credential {
	return &Credential{token: &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}}
}

// Valid reports whether the credential holds an access token that does not
// expire within the next few seconds.
func (c *Credential) Valid() bool {
	return c != nil && c.token.Valid()
}

// AuthHeader returns the Authorization header for the credential.
func (c *Credential) AuthHeader() http.Header {
	r := &http.Request{Header: http.Header{}}
	c.token.SetAuthHeader(r)
	return r.Header
}

// String never prints the token.
func (c *Credential) String() string {
	return "Credential{Bearer ***}"
}

// LogValue never logs the token.
func (c *Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}
