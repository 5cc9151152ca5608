package marble

import "fmt"

// APIError is a non-2xx answer from the Marble API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("marble api %d", e.Status)
	}
	return fmt.Sprintf("marble api %d: %s", e.Status, e.Body)
}

// OperationError is the error payload of a failed operation. The operation
// itself completed; this is the service telling us why the work failed.
type OperationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *OperationError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("operation failed (%d): %s", e.Code, e.Message)
	}
	return "operation failed: " + e.Message
}
