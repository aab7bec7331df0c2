package errors

// ErrorDetails is an error carrying one of the ErrorCode values. It is what
// validation failures and Redis failures are reported with.
type ErrorDetails struct {
	Message string
	Code    string
	// Field names the request field or client call the error is about.
	Field string
	// Subject is the value that broke an invariant, set only on defects.
	Subject any
}

// NewErrorDetails creates an ErrorDetails.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

func (e *ErrorDetails) Error() string {
	return e.Message
}
