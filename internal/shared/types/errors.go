package types

import (
	"errors"
	"fmt"
)

var (
	ErrScopeNotConfigured = errors.New("no Azure scope configured. Set SCOPE or the scope config key")
	ErrReportNotFound     = errors.New("report definition not found")
)

// AuthError indica falha na aquisição do token junto ao provedor de credenciais.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to acquire access token: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamError represents a failed attempt against the cost-management API.
// Status carries the HTTP status observed (500 for network-level errors) and
// Retryable is the classification consumed by the retry policy.
type UpstreamError struct {
	Status    int
	Reason    string
	Retryable bool
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed (status %d): %s", e.Status, e.Reason)
}

// StatusOf extrai o status HTTP de um erro de upstream; 500 quando ausente.
func StatusOf(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.Status != 0 {
		return ue.Status
	}
	return 500
}
