package backend

import "fmt"

// APIError carries a non-success HTTP status together with the backend's own
// error message, verbatim. User-facing surfaces show Message untouched.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return e.Message
}

// errorBody covers both error shapes the backend emits: {"error": ...} on the
// API routes and {"message": ..., "success": false} on the auth routes.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}
