package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For the webhook and REST handlers:
//   - Use the gin helpers below for HTTP-level rejects (bad secret, bad payload)
//   - User-visible failures are delivered as chat replies, never HTTP bodies
//
// For services/repositories/internal packages:
//   - Return one of the typed errors below, wrapping the cause
//   - Let the bot layer decide which chat message (if any) each type maps to
//   - Do not log in non-handler code (avoid double logging)

// malformed admin input (bad user id, empty channel name, ...)
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// the membership oracle was unreachable or returned an unusable answer;
// always treated as non-membership by callers
type MembershipCheckError struct {
	Channel string
	Err     error
}

func (e *MembershipCheckError) Error() string {
	return fmt.Sprintf("membership check for %s failed: %v", e.Channel, e.Err)
}

func (e *MembershipCheckError) Unwrap() error { return e.Err }

// the user has exhausted the free daily quota; expected, user-facing
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// every configured image provider failed for this request
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// the persistent store was unavailable or rejected the operation; the
// request must fail rather than commit a partial usage charge
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// wraps a store error, passing nil through
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// standardized error response for the HTTP surface
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

const (
	CodeUnauthorized    = "unauthorized"
	CodeBadRequest      = "bad_request"
	CodeServerError     = "server_error"
	CodeTooManyRequests = "too_many_requests"
)

// returns a 401 unauthorized error
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthorized,
		Message: message,
	})
}

// returns a 400 bad request error
func BadRequest(c *gin.Context, message string, err error) {
	if message == "" {
		message = "invalid request"
	}

	response := ErrorResponse{
		Error:   CodeBadRequest,
		Message: message,
	}

	if err != nil {
		response.Details = sanitizeError(err)
	}

	c.JSON(http.StatusBadRequest, response)
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// sanitizes error messages for production
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()
	if os.Getenv("ENVIRONMENT") != "production" {
		return errMsg
	}

	switch {
	case strings.Contains(errMsg, "database"), strings.Contains(errMsg, "sql"):
		return "database operation failed"
	case strings.Contains(errMsg, "connection"), strings.Contains(errMsg, "network"):
		return "connection error occurred"
	case strings.Contains(errMsg, "timeout"):
		return "request timed out"
	default:
		return "an error occurred"
	}
}
