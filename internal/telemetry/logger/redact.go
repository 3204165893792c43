package logger

import (
	"log/slog"
	"net/url"
	"strings"
)

// Value prefixes that mark a credential regardless of the key.
var sensitiveValuePrefixes = []string{
	"Bearer ",
	"eyJ", // JWT header
}

// Key fragments whose values are always redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal == "" {
			return a
		}

		keyLower := strings.ToLower(a.Key)
		if IsSensitiveKey(keyLower) {
			return slog.String(a.Key, redactedValue)
		}
		for _, prefix := range sensitiveValuePrefixes {
			if strings.HasPrefix(strVal, prefix) {
				return slog.String(a.Key, maskValue(strVal, prefix))
			}
		}
		if strings.Contains(keyLower, "proxy") {
			return slog.String(a.Key, RedactURL(strVal))
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			redacted[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	return a
}

// maskValue keeps the prefix plus the first and last three characters.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// RedactURL masks the password (or lone username) of a proxy URL.
// "user:pass@host:port" without a scheme is handled too.
func RedactURL(raw string) string {
	if !strings.Contains(raw, "@") {
		return raw
	}

	parse := raw
	schemeless := !strings.Contains(raw, "://")
	if schemeless {
		parse = "http://" + raw
	}

	u, err := url.Parse(parse)
	if err != nil || u.User == nil {
		// Not a URL we understand; drop everything before the last '@'.
		return "xxxxx@" + raw[strings.LastIndex(raw, "@")+1:]
	}

	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	} else {
		u.User = url.User("xxxxx")
	}

	out := u.String()
	if schemeless {
		out = strings.TrimPrefix(out, "http://")
	}
	return out
}

// IsSensitiveKey reports whether a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
