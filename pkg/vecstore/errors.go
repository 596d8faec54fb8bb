package vecstore

import "errors"

// Sentinel errors for the canonical error taxonomy. Every failure surfaced by
// this package wraps exactly one of these with fmt.Errorf("%w: ...") so that
// callers can classify with errors.Is while keeping the original provider
// message as context. No error is retried at this layer.
var (
	// ErrConfiguration indicates client or init-time misconfiguration.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrProvider indicates a provider-level operation failed for reasons
	// other than input validation.
	ErrProvider = errors.New("provider operation failed")

	// ErrValidation indicates caller-supplied data violates the canonical shape.
	ErrValidation = errors.New("validation failed")

	// ErrVectorOperation indicates an upsert or query failed at the provider
	// after passing validation.
	ErrVectorOperation = errors.New("vector operation failed")

	// ErrProviderNotFound is returned by Registry.Get for an exact-match miss.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrUnsupportedProvider is returned by Registry.Provider, the
	// case-insensitive lookup used by public entry points.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)
