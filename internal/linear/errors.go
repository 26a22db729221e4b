package linear

import "fmt"

// NotFoundError means Linear returned no issue for the identifier, or reported
// GraphQL errors for the query.
type NotFoundError struct {
	Identifier string
	Reason     string
}

func (e *NotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("issue %s not found", e.Identifier)
	}
	return fmt.Sprintf("issue %s not found: %s", e.Identifier, e.Reason)
}

// AuthError means the API key was rejected or lacks access.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("linear authentication failed (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("linear authentication failed: %s", e.Message)
}

// NetworkError wraps transport failures and unexpected HTTP statuses.
type NetworkError struct {
	Status int // zero when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("linear request failed (HTTP %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("linear request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
