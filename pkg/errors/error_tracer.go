package errors

import "github.com/pkg/errors"

// ErrorTracer annotates an underlying error with a message and makes sure a
// stack trace travels with it.
type ErrorTracer struct {
	Message string
	Err     error
}

// NewTracer creates an ErrorTracer with nothing wrapped yet.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{Message: message}
}

// TracerFromError traces err under its own message.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

// Defect is the panic value for a broken ledger or arithmetic invariant.
// The code stays reachable through CodeOf and the offending value through
// DetailsOf(err).Subject.
func Defect(code ErrorCode, message string, subject any) *ErrorTracer {
	return NewTracer(string(code)).Wrap(&ErrorDetails{
		Message: message,
		Code:    string(code),
		Subject: subject,
	})
}

// StackTracer is implemented by errors recorded with a stack, which the
// logger prints in place of its own.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

func (e *ErrorTracer) Error() string {
	if e.Err == nil || e.Err.Error() == e.Message {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// Wrap sets err as the cause, recording the current stack unless err
// already carries one.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	if _, ok := err.(StackTracer); ok {
		e.Err = err
	} else {
		e.Err = errors.WithStack(err)
	}
	return e
}

// StackTrace returns the stack recorded by Wrap, if any.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if st, ok := e.Err.(StackTracer); ok {
		return st.StackTrace()
	}
	return nil
}
