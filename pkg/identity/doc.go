// Package identity obtains short-lived bearer credentials from an IBM Cloud
// IAM style token endpoint using the API key grant.
//
// Each chat request performs its own exchange:
//
//	cred, err := provider.AcquireToken(ctx, cfg.Upstream.APIKey)
//	var authErr *identity.AuthError
//	if errors.As(err, &authErr) {
//		// answer with the fallback envelope
//	}
//
// A Credential wraps an oauth2.Token and authorizes requests through
// oauth2.Token.SetAuthHeader. It never prints or logs the token.
package identity
