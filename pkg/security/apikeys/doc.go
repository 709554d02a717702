// Package apikeys maps client API keys to the adapter and system prompt
// their chat requests use.
//
// Keys come from inline configuration and, optionally, a YAML file:
//
//	keys:
//	  - key: "sk-support-team"
//	    adapter: "support-faq"
//	    system_prompt: "You are a helpful support agent."
//	  - key: "sk-retired"
//	    adapter: "support-faq"
//	    active: false
//
// Entries in the file take precedence over inline entries with the same key.
// With watching enabled the file is reloaded whenever it is written or
// recreated; a file that fails to parse leaves the previous keys in place.
package apikeys
