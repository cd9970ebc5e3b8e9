package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for customer operations.
var (
	// ErrCustomerNotFound indicates the requested customer does not exist.
	// HTTP Status: 404 Not Found
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrMalformedPayload indicates the request body is missing or unparsable.
	// HTTP Status: 400 Bad Request
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrForbidden indicates the requesting user is neither the owner
	// nor an admin.
	// HTTP Status: 403 Forbidden
	ErrForbidden = errors.New("access denied")

	// ErrUserNotFound indicates no user exists with the given id or email.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates a failed login attempt.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries the field-level violations collected by
// aggregate validation. It is a structured 400, not a hard failure.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d violation(s)", len(e.Violations))
}

// Messages returns the human-readable violation messages in order.
func (e *ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return messages
}
