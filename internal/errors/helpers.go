package errors

import "time"

// New creates a generic AppError with the supplied metadata.
func New(category ErrorCategory, code, message string, err error) *AppError {
	return &AppError{
		Code:      code,
		Category:  category,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// SystemError creates a SYSTEM category error instance.
func SystemError(code, message string, err error) *AppError {
	return &AppError{
		Code:      code,
		Category:  ErrCategorySystem,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// NetworkError creates a NETWORK category error instance.
// Network failures are marked recoverable so callers may retry.
func NetworkError(code, message string, err error) *AppError {
	return &AppError{
		Code:        code,
		Category:    ErrCategoryNetwork,
		Message:     message,
		Err:         err,
		Recoverable: true,
		Timestamp:   time.Now(),
	}
}

// ConfigError creates a CONFIG category error instance.
func ConfigError(code, message string, err error) *AppError {
	return &AppError{
		Code:      code,
		Category:  ErrCategoryConfig,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// ValidationError creates a VALIDATION category error instance.
func ValidationError(code, message string, err error) *AppError {
	return &AppError{
		Code:      code,
		Category:  ErrCategoryValidation,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// DatabaseError creates a DATABASE category error instance.
func DatabaseError(code, message string, err error) *AppError {
	return &AppError{
		Code:      code,
		Category:  ErrCategoryDatabase,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// CanceledError creates a CANCELED category error instance.
func CanceledError(message string, err error) *AppError {
	return &AppError{
		Code:      CodeCanceledGeneric,
		Category:  ErrCategoryCanceled,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}
