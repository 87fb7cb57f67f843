package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// sensitiveKeys are attribute key fragments whose values are always masked.
var sensitiveKeys = []string{"api_key", "apikey", "token", "secret", "password", "authorization"}

// tokenPrefixes identify credential-shaped values regardless of key.
var tokenPrefixes = []string{"ghp_", "gho_", "github_pat_", "sk-", "AIza", "xoxb-"}

// ShouldMask reports whether an attribute key names a credential.
func ShouldMask(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether v looks like a credential.
func ContainsTokenPrefix(v string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

// MaskValue keeps the last four characters of v.
func MaskValue(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}

// redactAttr resolves a and masks it when its key or value looks like a
// credential. It has the slog.HandlerOptions.ReplaceAttr signature so the
// JSON handler applies the same policy as the terminal handler.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindGroup:
		return a
	case slog.KindString:
		if ShouldMask(a.Key) || ContainsTokenPrefix(a.Value.String()) {
			return slog.String(a.Key, MaskValue(a.Value.String()))
		}
	default:
		if ShouldMask(a.Key) {
			return slog.String(a.Key, MaskValue(fmt.Sprint(a.Value.Any())))
		}
	}
	return a
}
