package repository

import "errors"

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate indicates an entity with the same identity already exists.
var ErrDuplicate = errors.New("repository: duplicate identity")
