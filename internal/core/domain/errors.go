package domain

import (
	"fmt"
	"time"
)

// ForwardError is returned when the upstream could not be reached at all.
// Upstream HTTP errors (4xx/5xx) are relayed and never become a ForwardError.
type ForwardError struct {
	Err       error
	RequestID string
	TargetURL string
	Method    string
	Latency   time.Duration
}

func (e *ForwardError) Error() string {
	return fmt.Sprintf("forward failed [%s] %s %s after %v: %v",
		e.RequestID, e.Method, e.TargetURL, e.Latency, e.Err)
}

func (e *ForwardError) Unwrap() error {
	return e.Err
}

func NewForwardError(requestID, method, targetURL string, latency time.Duration, err error) *ForwardError {
	return &ForwardError{
		RequestID: requestID,
		TargetURL: targetURL,
		Method:    method,
		Latency:   latency,
		Err:       err,
	}
}

type ConfigValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s=%v: %s", e.Field, e.Value, e.Reason)
}
