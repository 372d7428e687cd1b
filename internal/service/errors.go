package service

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input validation error.
var ErrValidation = errors.New("validation failed")

// Service errors.
var (
	ErrInvalidEmail   = fmt.Errorf("%w: email must be a non-empty address containing @", ErrValidation)
	ErrNameRequired   = fmt.Errorf("%w: name is required", ErrValidation)
	ErrTitleRequired  = fmt.Errorf("%w: title is required", ErrValidation)
	ErrUserIDRequired = fmt.Errorf("%w: userId is required", ErrValidation)
	ErrFieldTooLong   = fmt.Errorf("%w: field exceeds maximum length", ErrValidation)

	ErrEmailExists    = errors.New("email already exists")
	ErrAuthorNotFound = errors.New("author not found")
)
