package middleware

import "net/http"

// responseWriter records the status code and body size of a response. The
// recovery, otel and logging middleware share one instance per request: the
// outermost creates it and the inner ones reuse it through captureResponse.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

// captureResponse returns w itself when it already records the response,
// otherwise a new recorder around w with the implicit 200 status.
func captureResponse(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader records code and forwards it. Calls after the first are
// dropped, matching net/http's superfluous-WriteHeader behavior.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// committed reports whether the status line has gone out, after which no
// failure envelope can be written.
func (rw *responseWriter) committed() bool { return rw.headerWritten }

// Unwrap exposes the underlying writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
