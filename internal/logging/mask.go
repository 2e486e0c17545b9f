package logging

import (
	"strings"
)

const (
	MaskChar = "*"
	// URLMaskLength is how much of a URL stays readable.
	URLMaskLength = 30
)

// sensitiveKeys are attribute names whose values are never logged.
var sensitiveKeys = []string{
	"token",
	"secret",
	"password",
	"api_key",
	"authorization",
	"credential",
}

// IsSensitiveField reports whether an attribute name suggests a secret.
func IsSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range sensitiveKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// MaskURL keeps the first URLMaskLength characters of a URL. Webhook URLs
// embed their credentials in the path.
func MaskURL(url string) string {
	if len(url) <= URLMaskLength || strings.Contains(url, "localhost") || strings.Contains(url, "127.0.0.1") {
		return url
	}
	return url[:URLMaskLength] + strings.Repeat(MaskChar, 3)
}

// MaskArgs masks sensitive values and URLs in slog key/value pairs.
func MaskArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}
	out := make([]any, len(args))
	copy(out, args)

	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		switch {
		case IsSensitiveField(key):
			out[i+1] = strings.Repeat(MaskChar, 8)
		case key == KeyURL:
			if s, ok := out[i+1].(string); ok {
				out[i+1] = MaskURL(s)
			}
		}
	}
	return out
}
