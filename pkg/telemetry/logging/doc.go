// Package logging builds the service's structured logger.
//
// It wraps log/slog with a Handler that attaches the request ID carried in
// the context and masks credentials (bearer tokens, API keys, IAM access
// tokens) before anything is written. Chat message text is never logged by
// callers; only its length is.
//
// # Usage
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	ctx = logging.WithRequestID(ctx, "a1b2c3d4")
//	logger.InfoContext(ctx, "chat request", "model", model)
//	// {"level":"INFO","msg":"chat request","request_id":"a1b2c3d4","model":"..."}
package logging
