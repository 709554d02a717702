/*
Package security groups the authentication packages used by the Ganymede
server.

# API Keys

Package apikeys resolves the key a client presents on /v1/chat to the
adapter and system prompt that serve it:

	store, err := apikeys.NewStore(cfg.APIKeys, logger)
	if err != nil {
		log.Fatal(err)
	}
	chat := apikeys.NewMiddleware(store, nil).Handle(chatHandler)

# Admin Tokens

Package auth verifies HS256 bearer tokens on /admin endpoints:

	verifier, err := auth.NewVerifier(cfg.Security.AdminAuth)
	if err != nil {
		log.Fatal(err)
	}
	admin := auth.NewMiddleware(verifier, logger).Handle(adminHandler)
*/
package security
