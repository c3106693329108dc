// Package errors provides severity-aware error types.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// OptimizerError is a structured error with context.
type OptimizerError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	ResourceID  string   `json:"resource_id,omitempty"`
	Recoverable bool     `json:"recoverable"`
}

func (e *OptimizerError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("[%s] %s: %s (resource: %s)", e.Severity, e.Code, e.Message, e.ResourceID)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
}

// Error codes
const (
	ErrCodeUnsupportedProvider = "UNSUPPORTED_PROVIDER"
	ErrCodeMissingAPIKey       = "MISSING_API_KEY"
	ErrCodeUnsupportedBackend  = "UNSUPPORTED_BACKEND"
	ErrCodeStoreWriteFailed    = "STORE_WRITE_FAILED"
	ErrCodeStoreReadFailed     = "STORE_READ_FAILED"
	ErrCodeCollectionFailed    = "COLLECTION_FAILED"
	ErrCodePriceNotFound       = "PRICE_NOT_FOUND"
)

// NewUnsupportedProviderError reports an AI provider name that has no
// implementation. Raised at construction time, never mid-pipeline.
func NewUnsupportedProviderError(provider string) *OptimizerError {
	return &OptimizerError{
		Code:        ErrCodeUnsupportedProvider,
		Message:     fmt.Sprintf("Unsupported AI provider: %s", provider),
		Severity:    SeverityFatal,
		Recoverable: false,
	}
}

// NewMissingAPIKeyError reports a key-authenticated provider configured
// without a key in the environment.
func NewMissingAPIKeyError(provider, envVar string) *OptimizerError {
	return &OptimizerError{
		Code:        ErrCodeMissingAPIKey,
		Message:     fmt.Sprintf("Provider %s requires %s to be set", provider, envVar),
		Severity:    SeverityFatal,
		Recoverable: false,
	}
}

// NewUnsupportedBackendError reports a storage backend name that has no
// implementation.
func NewUnsupportedBackendError(backend string) *OptimizerError {
	return &OptimizerError{
		Code:        ErrCodeUnsupportedBackend,
		Message:     fmt.Sprintf("Unsupported store backend: %s", backend),
		Severity:    SeverityFatal,
		Recoverable: false,
	}
}

// NewStoreWriteError wraps a fatal snapshot persistence failure.
func NewStoreWriteError(id string, err error) *OptimizerError {
	return &OptimizerError{
		Code:        ErrCodeStoreWriteFailed,
		Message:     fmt.Sprintf("Failed to store analysis snapshot: %v", err),
		Severity:    SeverityFatal,
		ResourceID:  id,
		Recoverable: false,
	}
}
