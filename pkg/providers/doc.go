// Package providers holds the pieces shared by upstream clients.
//
// # Transport
//
// Transport is the "send JSON, get JSON-or-error" capability. HTTPTransport
// implements it over a pooled http.Client with a per-request timeout and a
// single attempt per call. A non-2xx status is returned as a Response, since
// error bodies carry the codes the fallback chain decides on; only
// transport failures are errors (*TimeoutError or *ProviderError).
//
// # Attempts
//
// Attempt is the normalized outcome of one model call, labelled with its
// Method. The watsonx package produces attempts; the fallback package
// chains them.
package providers
