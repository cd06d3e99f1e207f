package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Stable text codes distinguishing the error kinds end-to-end, so the
// boundary layer can choose status codes without re-deriving them.
const (
	EngineErrorBadInput            = "ENGINE_BAD_INPUT"
	EngineErrorUnsupported         = "ENGINE_OPERATION_UNSUPPORTED"
	EngineErrorUpstreamContract    = "ENGINE_UPSTREAM_CONTRACT"
	EngineErrorUpstreamRejected    = "ENGINE_UPSTREAM_REJECTED"
	EngineErrorUpstreamUnavailable = "ENGINE_UPSTREAM_UNAVAILABLE"
	EngineErrorInternal            = "ENGINE_INTERNAL_ERROR"
)

// NewValidationError reports bad caller input. It is raised before any
// network call and is never retried.
func NewValidationError(message string, fields ...goerrors.FieldError) error {
	return goerrors.NewValidation(message, fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode(EngineErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

// RequireFields builds a ValidationError naming every blank field, or nil
// when all are present.
func RequireFields(variant ProviderVariant, fields map[string]string) error {
	var missing []goerrors.FieldError
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, goerrors.FieldError{
				Field:   name,
				Message: "is required",
			})
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return NewValidationError(
		fmt.Sprintf("providers/%s: missing required request fields", variant),
		missing...,
	)
}

// NewUnsupportedOperationError signals a declared capability gap for a
// provider variant. It is never retried.
func NewUnsupportedOperationError(variant ProviderVariant, operation string) error {
	return goerrors.New(
		fmt.Sprintf("providers/%s: %s is not supported", variant, operation),
		goerrors.CategoryOperation,
	).
		WithCode(http.StatusNotImplemented).
		WithTextCode(EngineErrorUnsupported).
		WithMetadata(map[string]any{
			"provider":  string(variant),
			"operation": operation,
		})
}

// NewUpstreamContractError signals a provider response this core cannot
// parse. It is surfaced, never retried, and indicates a provider-side
// contract change.
func NewUpstreamContractError(variant ProviderVariant, cause error, message string) error {
	if cause == nil {
		return goerrors.New(message, goerrors.CategoryExternal).
			WithCode(http.StatusBadGateway).
			WithTextCode(EngineErrorUpstreamContract).
			WithMetadata(map[string]any{"provider": string(variant)})
	}
	return goerrors.Wrap(cause, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(EngineErrorUpstreamContract).
		WithMetadata(map[string]any{"provider": string(variant)})
}

// NewTransientUpstreamError wraps a network or timeout failure that the
// retry policy may re-attempt.
func NewTransientUpstreamError(variant ProviderVariant, cause error, message string) error {
	err := goerrors.Wrap(cause, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(EngineErrorUpstreamUnavailable)
	if variant != "" {
		err.WithMetadata(map[string]any{"provider": string(variant)})
	}
	return err
}

// NewUpstreamStatusError classifies a non-2xx provider status: 408/429/5xx
// are transient and retryable, every other 4xx is a terminal rejection.
func NewUpstreamStatusError(variant ProviderVariant, status int, body []byte) error {
	message := fmt.Sprintf("providers/%s: upstream returned status %d", variant, status)
	metadata := map[string]any{
		"provider":    string(variant),
		"status_code": status,
	}
	if len(body) > 0 {
		metadata["body"] = truncateBody(body)
	}
	textCode := EngineErrorUpstreamRejected
	if transientStatus(status) {
		textCode = EngineErrorUpstreamUnavailable
	}
	return goerrors.New(message, goerrors.CategoryExternal).
		WithCode(status).
		WithTextCode(textCode).
		WithMetadata(metadata)
}

// NewInternalError reports an orchestration failure inside the gateway
// itself, such as the health-check fan-out faulting.
func NewInternalError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(EngineErrorInternal).
		WithSeverity(goerrors.SeverityCritical)
}

// IsRetryable reports whether the retry policy may re-attempt after err.
// Only transient upstream failures qualify: network/timeout errors and
// 5xx-class statuses. Validation, capability-gap, contract, and 4xx errors
// propagate immediately.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.TextCode {
		case EngineErrorUpstreamUnavailable:
			return true
		case EngineErrorBadInput, EngineErrorUnsupported,
			EngineErrorUpstreamContract, EngineErrorUpstreamRejected,
			EngineErrorInternal:
			return false
		}
		return richErr.Category == goerrors.CategoryExternal && transientStatus(richErr.Code)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// IsUnsupportedOperation reports whether err is a declared capability gap.
func IsUnsupportedOperation(err error) bool {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == EngineErrorUnsupported
	}
	return false
}

func transientStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= http.StatusInternalServerError
}

func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}
