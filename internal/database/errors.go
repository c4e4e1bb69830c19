package database

import "errors"

// ErrNotFound indicates a requested row is absent from the revision index.
var ErrNotFound = errors.New("revision index: no such row")
