// Package services: services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Error taxonomy. Nothing here is fatal: every failure leaves the console idle.
var (
	// ErrPermissionDenied means camera access was refused; the operator can
	// retry after adjusting permissions.
	ErrPermissionDenied = errors.New("camera permission denied")
	// ErrDeviceUnavailable means no capture device could be opened.
	ErrDeviceUnavailable = errors.New("camera device unavailable")
	// ErrPreconditionNotMet covers requests made in the wrong state.
	ErrPreconditionNotMet = errors.New("precondition not met")
)

// Precondition failures with their own notice text. They all match
// ErrPreconditionNotMet under errors.Is.
var (
	ErrCameraInactive        = fmt.Errorf("%w: camera is not active", ErrPreconditionNotMet)
	ErrRecognitionInProgress = fmt.Errorf("%w: recognition already in progress", ErrPreconditionNotMet)
	ErrNoPlayerRecognized    = fmt.Errorf("%w: no player recognized", ErrPreconditionNotMet)
	ErrInvalidCardType       = fmt.Errorf("%w: card type must be yellow or red", ErrPreconditionNotMet)
	ErrInvalidLanguage       = fmt.Errorf("%w: unsupported language", ErrPreconditionNotMet)
)
