package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/project-intake-service/internal/platform/logging"
)

const redacted = "[REDACTED]"

// RedactHeaders renders headers as a "headers" log group with keys in sorted
// order. Values of logging.SensitiveHeaders become "[REDACTED]"; multi-value
// headers are joined with a comma.
func RedactHeaders(headers http.Header) slog.Attr {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	attrs := make([]any, 0, len(keys))
	for _, key := range keys {
		if logging.SensitiveHeaders[strings.ToLower(key)] {
			attrs = append(attrs, slog.String(key, redacted))
			continue
		}
		attrs = append(attrs, slog.String(key, strings.Join(headers[key], ",")))
	}
	return slog.Group("headers", attrs...)
}
