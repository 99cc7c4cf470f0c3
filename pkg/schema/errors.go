package schema

import (
	"errors"
	"fmt"
)

// ValidationError represents a single parameter validation failure.
type ValidationError struct {
	Key    string // parameter name
	Reason string // human-readable reason for failure
	Value  any    // the value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("param %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("param %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// IsMissing reports whether err only contains "required" failures, i.e. the values
// that were present are all valid.
func IsMissing(err error) bool {
	errs := ValidationErrors(err)
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		var ve *ValidationError
		if !errors.As(e, &ve) || ve.Reason != reasonRequired {
			return false
		}
	}
	return true
}
