/*
Package auth guards administrative endpoints with HS256 bearer tokens.

Tokens must be signed with the configured secret and carry a "sub" claim.
When an issuer is configured the "iss" claim must match it. Expiry and
not-before claims are enforced when present.

# Basic Usage

	verifier, err := auth.NewVerifier(cfg.Security.AdminAuth)
	if err != nil {
		return err
	}

	mux.Handle("/admin/", auth.NewMiddleware(verifier, logger).Handle(adminHandler))

Handlers can read the verified claims from the request context:

	claims, ok := auth.ClaimsFromContext(r.Context())
	if ok {
		logger.Info("admin request", "subject", claims.Subject)
	}
*/
package auth
