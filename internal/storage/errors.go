package storage

import "errors"

// The store fails loudly with one of these sentinels rather than returning
// empty results for single-entity operations. Callers match with errors.Is.
var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("conflict with existing record")
	ErrValidation = errors.New("invalid record")
)
