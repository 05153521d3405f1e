package entity

import "errors"

// Domain errors
var (
	// File errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrTotalSizeTooLarge = errors.New("total file size too large")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrFieldTooLong     = errors.New("field exceeds maximum length")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Upstream errors
	ErrUpstreamService = errors.New("upstream service failed")

	// Storage errors
	ErrStorage           = errors.New("vector store failed")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// Configuration errors
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// IsValidationError reports whether err was caused by bad client input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingField,
		ErrFieldTooLong,
		ErrInvalidFormat,
		ErrInvalidParameter,
		ErrInvalidFile,
		ErrFileTooLarge,
		ErrTooManyFiles,
		ErrInvalidExtension,
		ErrTotalSizeTooLarge,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
