// Package domain holds the error taxonomy shared by every component.
// Components wrap these sentinels with context via fmt.Errorf("%w: ...")
// so the web boundary can translate them with errors.Is.
package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
	// ErrForbidden is returned when consent is missing, expired, or
	// insufficient in scope.
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyExists is returned on a uniqueness violation: duplicate CPF or
	// email, duplicate branch+number, or an existing usable consent.
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrInfrastructure is returned when the store is unavailable or an atomic
	// store operation could not be performed.
	ErrInfrastructure = errors.New("infrastructure failure")
)
