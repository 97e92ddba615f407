package repository

import "errors"

// ErrNotFound wraps every lookup that matched no row. Callers distinguish
// a missing record from a real failure with errors.Is.
var ErrNotFound = errors.New("not found")
