// errors.go: structured error handling for ariadne collections
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for construction and lookup failures.
//
// Copyright (c) 2025 Ariadne Contributors
// SPDX-License-Identifier: MPL-2.0
package ariadne

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for ariadne collection operations
const (
	// Argument errors
	ErrCodeInvalidConfig   errors.ErrorCode = "ARIADNE_INVALID_CONFIG"
	ErrCodeInvalidCapacity errors.ErrorCode = "ARIADNE_INVALID_CAPACITY"
	ErrCodeNilHasher       errors.ErrorCode = "ARIADNE_NIL_HASHER"
	ErrCodeNilSource       errors.ErrorCode = "ARIADNE_NIL_SOURCE"

	// Operation errors
	ErrCodeKeyNotFound   errors.ErrorCode = "ARIADNE_KEY_NOT_FOUND"
	ErrCodeInvalidLoader errors.ErrorCode = "ARIADNE_INVALID_LOADER"
	ErrCodeLoaderFailed  errors.ErrorCode = "ARIADNE_LOADER_FAILED"

	// Internal errors
	ErrCodePanicRecovered errors.ErrorCode = "ARIADNE_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidCapacity = "invalid capacity: must be between 0 and MaxCapacity"
	msgNilHasher       = "hasher cannot be nil"
	msgNilSource       = "source collection cannot be nil"
	msgKeyNotFound     = "key not found"
	msgInvalidLoader   = "loader function cannot be nil"
	msgLoaderFailed    = "loader function failed"
	msgPanicRecovered  = "panic recovered in loader"
)

// NewErrInvalidCapacity creates an error for an out-of-range capacity.
func NewErrInvalidCapacity(capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"valid_range":       fmt.Sprintf("0-%d", MaxCapacity),
	})
}

// NewErrNilHasher creates an error for a nil equality capability.
func NewErrNilHasher() error {
	return errors.NewWithField(ErrCodeNilHasher, msgNilHasher, "argument", "hasher")
}

// NewErrNilSource creates an error for a nil seed collection.
func NewErrNilSource(operation string) error {
	return errors.NewWithField(ErrCodeNilSource, msgNilSource, "operation", operation)
}

// NewErrKeyNotFound creates an error when a required key is absent.
func NewErrKeyNotFound(key interface{}) error {
	return errors.NewWithField(ErrCodeKeyNotFound, msgKeyNotFound, "key", fmt.Sprintf("%v", key))
}

// NewErrInvalidLoader creates an error when a loader function is nil.
func NewErrInvalidLoader(key interface{}) error {
	return errors.NewWithField(ErrCodeInvalidLoader, msgInvalidLoader, "key", fmt.Sprintf("%v", key))
}

// NewErrLoaderFailed creates an error when a loader function fails.
func NewErrLoaderFailed(key interface{}, cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailed, msgLoaderFailed).
		WithContext("key", fmt.Sprintf("%v", key)).
		AsRetryable()
}

// NewErrPanicRecovered creates an error when a loader panics.
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsNotFound checks if error is a key not found error
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeKeyNotFound)
}

// IsArgumentError checks if error is an argument-validation error
func IsArgumentError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidCapacity || code == ErrCodeNilHasher ||
			code == ErrCodeNilSource || code == ErrCodeInvalidConfig
	}
	return false
}

// IsLoaderError checks if error is a loader error
func IsLoaderError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidLoader || code == ErrCodeLoaderFailed
	}
	return false
}

// IsRetryable checks if the error can be retried
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var ariadneErr *errors.Error
	if goerrors.As(err, &ariadneErr) {
		return ariadneErr.Context
	}
	return nil
}
