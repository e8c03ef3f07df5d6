package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrDuplicateEmail indicates that a user with the same email is already registered.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrInvalidCredentials is returned for any failed login, whatever the reason.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken covers bad signatures, malformed tokens and expired tokens alike.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrTokenAlreadyUsed indicates a refresh token that was already exchanged once.
var ErrTokenAlreadyUsed = errors.New("refresh token has already been used")

// ErrBucketNotFound indicates that the target bucket does not exist.
var ErrBucketNotFound = errors.New("bucket does not exist")

// ErrBucketAlreadyExists indicates that a bucket with the given name exists.
var ErrBucketAlreadyExists = errors.New("bucket already exists")

// ErrInvalidFileType indicates a filename whose extension is not in the allow-list.
var ErrInvalidFileType = errors.New("file type not allowed")

// ErrStoreOperationFailed wraps any underlying object-store or database fault.
var ErrStoreOperationFailed = errors.New("store operation failed")

// AppError carries an HTTP-ish status code next to the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewStoreError wraps a raw store/database error so that it matches both
// ErrStoreOperationFailed and the original cause with errors.Is.
func NewStoreError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreOperationFailed, op, cause)
}

// BatchError reports the first failing item of a sequential batch operation
// together with the items that were already processed before it.
type BatchError struct {
	Item      string
	Completed []string
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch aborted at %q after %d item(s) [%s]: %v",
		e.Item, len(e.Completed), strings.Join(e.Completed, ", "), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
