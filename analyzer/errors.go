package analyzer

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes pipeline failures for the operation boundary.
type ErrorKind int

const (
	// KindUnexpected represents any failure outside the two known kinds.
	KindUnexpected ErrorKind = iota
	// KindInvalidURL indicates a malformed URL or a disallowed scheme.
	KindInvalidURL
	// KindFetchFailed indicates a transport error or a non-2xx response.
	KindFetchFailed
)

// AnalysisError carries a failure category, a user-facing message, and the
// original cause.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// ErrorResultFrom converts any pipeline error into the ErrorResult half of
// the operation's result union, preserving the user-facing message of
// kinded errors.
func ErrorResultFrom(err error) ErrorResult {
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		return ErrorResult{Error: analysisErr.Error()}
	}
	return ErrorResult{Error: "An unexpected error occurred: " + err.Error()}
}
