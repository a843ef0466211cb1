package common

import "fmt"

// APIError is the error type handlers attach to the gin context. The error
// middleware maps Status to the HTTP response code; Message and Fields become
// the JSON body.
type APIError struct {
	Status  int            `json:"-"`
	Message string         `json:"error"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

// Errf formats a message into an APIError with the given status.
func Errf(status int, format string, args ...any) APIError {
	return APIError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NewAPIError builds an APIError carrying extra per-field detail, used by
// request binding to report which fields failed validation.
func NewAPIError(status int, message string, fields map[string]any) APIError {
	return APIError{
		Status:  status,
		Message: message,
		Fields:  fields,
	}
}
