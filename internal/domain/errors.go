package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// The entity-specific errors below wrap it.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidChatID is returned when an account has a zero chat identifier.
	ErrInvalidChatID = fmt.Errorf("%w: chat ID cannot be zero", ErrValidation)

	// ErrEmptyHandle is returned when a profile handle is empty.
	ErrEmptyHandle = fmt.Errorf("%w: handle cannot be empty", ErrValidation)

	// ErrInvalidHandle is returned when a handle contains whitespace or
	// still carries the leading '@'.
	ErrInvalidHandle = fmt.Errorf("%w: handle must not contain whitespace or start with '@'", ErrValidation)

	// ErrMissingProfile is returned when an account is built without its profile.
	ErrMissingProfile = fmt.Errorf("%w: account must own exactly one profile", ErrValidation)

	// ErrEmptyAccountID is returned when a site does not reference an account.
	ErrEmptyAccountID = fmt.Errorf("%w: account ID cannot be empty", ErrValidation)

	// ErrInvalidSiteDomain is returned when a site domain is blank or contains whitespace.
	ErrInvalidSiteDomain = fmt.Errorf("%w: site domain must be non-blank and contain no whitespace", ErrValidation)

	// ErrEmptySiteID is returned when a form does not reference a site.
	ErrEmptySiteID = fmt.Errorf("%w: site ID cannot be empty", ErrValidation)

	// ErrEmptyFormName is returned when a form has no name.
	ErrEmptyFormName = fmt.Errorf("%w: form name cannot be empty", ErrValidation)
)
