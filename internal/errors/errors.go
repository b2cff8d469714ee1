// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoInstrumentMatch = errors.New("no instrument recognized in query")
	ErrNoNewsAvailable   = errors.New("no news available")
	ErrDataNotFound      = errors.New("data not found")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
	ErrRateLimited       = errors.New("rate limited")
	ErrTimeout           = errors.New("operation timed out")
	ErrNLPUnavailable    = errors.New("nlp service unavailable")
)

// FetchError represents a failure while fetching news from a source.
type FetchError struct {
	Source  string
	Subject string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch error [%s] %s: %v", e.Source, e.Subject, e.Err)
	}
	return fmt.Sprintf("fetch error [%s] %s", e.Source, e.Subject)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(source, subject string, err error) *FetchError {
	return &FetchError{
		Source:  source,
		Subject: subject,
		Err:     err,
	}
}

// ResolveError represents a failure while resolving a query to instruments.
type ResolveError struct {
	Query   string
	Message string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve error %q: %s", e.Query, e.Message)
}

// NewResolveError creates a new ResolveError.
func NewResolveError(query, message string) *ResolveError {
	return &ResolveError{
		Query:   query,
		Message: message,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Subject  string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Subject, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Subject, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, subject, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Subject:  subject,
		Message:  message,
		Err:      err,
	}
}

// NLPError represents an error from the optional NLP collaborator.
type NLPError struct {
	Operation string
	Err       error
}

func (e *NLPError) Error() string {
	return fmt.Sprintf("nlp error [%s]: %v", e.Operation, e.Err)
}

func (e *NLPError) Unwrap() error {
	return e.Err
}

// NewNLPError creates a new NLPError.
func NewNLPError(operation string, err error) *NLPError {
	return &NLPError{
		Operation: operation,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
