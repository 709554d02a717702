// Package logging builds the process logger.
//
// The logger is a plain *slog.Logger. Output goes to stdout, stderr or a
// rotating file, in JSON or text format:
//
//	logger, closer, err := logging.New(cfg.Telemetry.Logging)
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//	slog.SetDefault(logger)
//
// Attributes whose keys look like credentials (api_key, authorization,
// token, secret, password) are masked before they are written, and string
// values are scrubbed of bearer tokens and sk- style keys.
//
// Request-scoped fields placed in the context with WithRequestID and
// WithAdapter are added to every record logged through the *Context
// methods:
//
//	ctx = logging.WithRequestID(ctx, "4b7e...")
//	logger.InfoContext(ctx, "chat completed")  // includes request_id
package logging
