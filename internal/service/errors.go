package service

import "errors"

// ErrForbidden marks an operation the acting user's role does not allow.
var ErrForbidden = errors.New("forbidden")
