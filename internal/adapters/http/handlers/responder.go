package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/logging"
)

// HandlerFunc is a route handler that reports failures by returning them.
// It writes only the success response; any returned error is rendered by the
// Responder that wraps it.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Responder routes every failure from a wrapped handler through the error
// normalizer and the failure envelope, exactly once per request.
type Responder struct {
	logger  *slog.Logger
	devMode bool
}

// NewResponder creates a Responder. In development mode failure envelopes
// carry the underlying cause and stack.
func NewResponder(logger *slog.Logger, devMode bool) *Responder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Responder{logger: logger, devMode: devMode}
}

// Wrap adapts fn to an http.HandlerFunc. Returned errors and panics are
// normalized, logged and rendered as the failure envelope. If fn already
// started writing a response, the failure is logged only.
func (rp *Responder) Wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		if err := invoke(fn, tw, r); err != nil {
			rp.fail(tw, r, err, tw.started)
		}
	}
}

func (rp *Responder) fail(w http.ResponseWriter, r *http.Request, err error, started bool) {
	e := dto.Normalize(err)
	logger := logging.FromContextOr(r.Context(), rp.logger)

	if e.Operational {
		logger.WarnContext(r.Context(), "request failed",
			slog.Int("status", e.StatusCode()),
			slog.String("kind", e.Kind.String()),
			slog.String("message", e.Message),
		)
	} else {
		attrs := []any{
			slog.Int("status", e.StatusCode()),
			slog.Any("error", e.Cause),
		}
		if e.Stack != "" {
			attrs = append(attrs, slog.String("stack", e.Stack))
		}
		logger.ErrorContext(r.Context(), "request failed with unexpected error", attrs...)
	}

	if started {
		logger.WarnContext(r.Context(), "response already started, failure envelope not written")
		return
	}
	dto.WriteErrorResponse(w, r, e, rp.devMode)
}

// invoke calls fn and converts a panic into a non-operational error.
func invoke(fn HandlerFunc, w http.ResponseWriter, r *http.Request) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if perr, ok := v.(error); ok && errors.Is(perr, http.ErrAbortHandler) {
				panic(v)
			}
			e := domain.Internal(dto.MsgInternal, fmt.Errorf("panic: %v", v))
			e.Stack = string(debug.Stack())
			err = e
		}
	}()
	return fn(w, r)
}

// trackingWriter records whether a response has been started.
type trackingWriter struct {
	http.ResponseWriter
	started bool
}

func (tw *trackingWriter) WriteHeader(code int) {
	tw.started = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *trackingWriter) Write(b []byte) (int, error) {
	tw.started = true
	return tw.ResponseWriter.Write(b)
}

// Unwrap returns the underlying http.ResponseWriter for http.ResponseController.
func (tw *trackingWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}
