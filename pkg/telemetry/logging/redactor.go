package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks credentials in log attributes.
type Redactor struct {
	patterns []*redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"authorization", "private_key",
}

// NewRedactor creates a redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []*redactPattern{
			{
				regex:       regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			{
				regex:       regexp.MustCompile(`sk-[a-zA-Z0-9_\-]{4,}`),
				replacement: "sk-***",
			},
			{
				regex:       regexp.MustCompile(`(password|passwd|pwd)[:=]\s*[^\s]+`),
				replacement: "$1: ***",
			},
		},
	}
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		return a
	}

	if isSensitiveKey(a.Key) {
		switch a.Value.Kind() {
		case slog.KindString, slog.KindAny:
			return slog.String(a.Key, RedactAPIKey(a.Value.String()))
		default:
			return a
		}
	}

	if a.Value.Kind() == slog.KindString {
		if s := a.Value.String(); s != "" {
			return slog.String(a.Key, r.RedactString(s))
		}
	}
	return a
}

// RedactString scrubs credential-looking substrings from value.
func (r *Redactor) RedactString(value string) string {
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// isSensitiveKey reports whether a key name indicates a credential.
// Keys ending in _set report presence only and are left alone. Only string
// values of sensitive keys are masked, so counters like "tokens" survive.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	if strings.HasSuffix(lowerKey, "_set") {
		return false
	}
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// RedactAPIKey redacts an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "***"
}
