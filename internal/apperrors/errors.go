package apperrors

import "errors"

// ErrNotFound indicates that a referenced account or user could not be resolved.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInsufficientFunds indicates that the source account balance cannot cover
// the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrStorageUnavailable indicates that the persistence layer is missing or
// unusable. This is a configuration fault of the calling operation, not a
// recoverable condition.
var ErrStorageUnavailable = errors.New("storage unavailable")
