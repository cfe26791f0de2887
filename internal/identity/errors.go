package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared between the HTTP client and the local service.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeDuplicateAccount   = "duplicate_account"
	CodeValidationRejected = "validation_rejected"
	CodeNetworkFailure     = "network_failure"
)

// Error is the typed failure every identity backend returns. StatusCode is
// zero for transport-level failures that never produced a response.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// IsInvalidCredentials reports a rejected login.
func IsInvalidCredentials(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Code == CodeInvalidCredentials || e.StatusCode == http.StatusUnauthorized)
}

// IsDuplicateAccount reports a registration refused because the email is
// already registered.
func IsDuplicateAccount(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Code == CodeDuplicateAccount || e.StatusCode == http.StatusConflict)
}

// IsValidationRejected reports a payload the backend refused, for example a
// genre outside the schema enum.
func IsValidationRejected(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Code == CodeValidationRejected || e.StatusCode == http.StatusUnprocessableEntity)
}

// IsNetworkFailure reports a transport-level failure: offline, timeout, or an
// unreachable backend.
func IsNetworkFailure(err error) bool {
	var e *Error
	return errors.As(err, &e) && (e.Code == CodeNetworkFailure || e.StatusCode == 0)
}

// Presentable maps an identity error to the message shown to the user.
func Presentable(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return "An unexpected error occurred. Please try again."
	}

	switch {
	case IsNetworkFailure(err):
		return "Network error. Please check your connection and try again."
	case IsInvalidCredentials(err):
		return "Invalid credentials. Please check your email and password."
	case IsDuplicateAccount(err):
		return "An account with this email already exists. Try signing in instead."
	case IsValidationRejected(err):
		return "Please check your information and try again."
	case e.StatusCode >= http.StatusInternalServerError:
		return "Server error. Please try again later."
	case e.Message != "":
		return e.Message
	default:
		return "An unexpected error occurred. Please try again."
	}
}

func networkError(err error) *Error {
	return &Error{Code: CodeNetworkFailure, Message: err.Error()}
}

func parseError(statusCode int, body []byte) *Error {
	apiErr := &Error{StatusCode: statusCode}
	if len(body) > 0 {
		if err := json.Unmarshal(body, apiErr); err == nil && apiErr.Message != "" {
			return apiErr
		}
	}
	apiErr.Message = http.StatusText(statusCode)
	return apiErr
}
