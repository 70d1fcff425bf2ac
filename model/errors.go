package model

import "errors"

// Error kinds shared by the store, the services and the controllers.
// Wrap them with fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrStorage        = errors.New("storage error")
)
