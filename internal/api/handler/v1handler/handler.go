// Package v1handler implements the v1 JSON API: place link resolution, document
// URL normalization, translations, theme and the document registry.
package v1handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"portal/internal/config"
	"portal/internal/documents"
	"portal/pkg/logger"
	"portal/pkg/metrics"
	"portal/pkg/serrors"
	"portal/pkg/theme"
	"portal/pkg/translation"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes limits request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

// Deps are the services the handlers call into. A nil Documents or
// Translations disables the matching routes.
type Deps struct {
	Documents    documents.Service
	Translations *translation.Cache
	Theme        theme.Schedule
	Metrics      *metrics.Instruments
}

// Options tune request handling.
type Options struct {
	// MaxBodyBytes limits JSON request bodies.
	MaxBodyBytes int64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{MaxBodyBytes: cfg.HTTP.MaxBodyBytes}
}

type Handler struct {
	deps      Deps
	options   Options
	validator *validator.Validate
	now       func() time.Time
}

func New(deps Deps, options Options) *Handler {
	if options.MaxBodyBytes <= 0 {
		options.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Handler{
		deps:      deps,
		options:   options,
		validator: validator.New(),
		now:       time.Now,
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

var kindStatuses = map[serrors.Kind]int{ //nolint: gochecknoglobals
	serrors.ErrBadRequest:   http.StatusBadRequest,
	serrors.ErrUnauthorized: http.StatusUnauthorized,
	serrors.ErrForbidden:    http.StatusForbidden,
	serrors.ErrNotFound:     http.StatusNotFound,
	serrors.ErrConflict:     http.StatusConflict,
	serrors.ErrRateLimited:  http.StatusTooManyRequests,
	serrors.ErrUnavailable:  http.StatusServiceUnavailable,
	serrors.ErrTimeout:      http.StatusGatewayTimeout,
	serrors.ErrInternal:     http.StatusInternalServerError,
}

var kindMessages = map[serrors.Kind]string{ //nolint: gochecknoglobals
	serrors.ErrBadRequest:   "bad request",
	serrors.ErrUnauthorized: "unauthorized",
	serrors.ErrForbidden:    "forbidden",
	serrors.ErrNotFound:     "resource not found",
	serrors.ErrConflict:     "conflict",
	serrors.ErrRateLimited:  "too many requests",
	serrors.ErrUnavailable:  "service unavailable",
	serrors.ErrTimeout:      "request timed out",
	serrors.ErrInternal:     "internal error",
}

// NewError maps err to a status and response body. Errors without a semantic
// kind are internal and their text is never sent to the client.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	if kind == nil && errors.Is(err, context.DeadlineExceeded) {
		kind = serrors.ErrTimeout
	}

	status, ok := kindStatuses[kind]
	if !ok {
		kind = serrors.ErrInternal
		status = http.StatusInternalServerError
	}

	msg := serrors.MessageOf(err)
	if msg == "" || kind == serrors.ErrInternal {
		msg = kindMessages[kind]
	}

	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Debug(ctx, "request rejected", zap.Error(err))
	}

	return &ErrorStatusCode{
		StatusCode: status,
		Response:   ErrorResponse{Code: kind.Error(), Message: msg},
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := h.NewError(r.Context(), err)
	writeJSON(w, e.StatusCode, e.Response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.options.MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return serrors.With(serrors.ErrBadRequest, "request body exceeds %d bytes", tooLarge.Limit)
		}

		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	if err := h.validator.Struct(dst); err != nil {
		return validationError(err)
	}

	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request")
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed on %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))

			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}

	return serrors.With(serrors.ErrBadRequest, "invalid request: %s", strings.Join(parts, "; "))
}
