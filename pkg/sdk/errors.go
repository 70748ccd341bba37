package geodex

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/geodex/internal/domain"
	chiapi "github.com/kailas-cloud/geodex/internal/transport/chi"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery        = domain.ErrInvalidQuery
	ErrInvalidLimit        = domain.ErrInvalidLimit
	ErrInvalidCoordinates  = domain.ErrInvalidCoordinates
	ErrInvalidRadius       = domain.ErrInvalidRadius
	ErrUnknownCategory     = domain.ErrUnknownCategory
	ErrUnknownLayer        = domain.ErrUnknownLayer
	ErrProviderUnavailable = domain.ErrProviderUnavailable
	ErrGeodataUnavailable  = domain.ErrGeodataUnavailable

	// ErrUnauthorized means the server rejected the API key.
	ErrUnauthorized = errors.New("unauthorized")
)

var wireSentinels = []error{
	ErrInvalidQuery,
	ErrInvalidLimit,
	ErrInvalidCoordinates,
	ErrInvalidRadius,
	ErrUnknownCategory,
	ErrUnknownLayer,
	ErrProviderUnavailable,
	ErrGeodataUnavailable,
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       chiapi.ErrorCode
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("geodex: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("geodex: status %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the response back to a sentinel. The server sends sentinel text
// as the message for domain failures.
func (e *APIError) Unwrap() error {
	if e.Code == chiapi.ErrorCodeUnauthorized {
		return ErrUnauthorized
	}
	for _, s := range wireSentinels {
		if e.Message == s.Error() {
			return s
		}
	}
	return nil
}
