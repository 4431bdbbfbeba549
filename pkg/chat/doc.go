// Package chat answers chat requests.
//
// Service.Handle checks configuration and the message, exchanges the API key
// for a credential, runs the fallback chain and shapes the reply envelope:
//
//	resp, err := svc.Handle(ctx, &chat.Request{Message: "Namaste", Language: "hinglish"})
//
// Configuration and validation problems are errors (*ConfigurationError,
// *ValidationError). Authentication and upstream failures are not: they
// produce a Response with Fallback set, the configured fallback reply and the
// upstream error details, so clients always have something to display.
//
// Every record logged while handling a request carries its request_id, taken
// from the context or generated. The message text itself is never logged.
package chat
