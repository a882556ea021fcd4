package repository

import "errors"

var (
	ErrNotFound       = errors.New("entity not found")
	ErrUpdateFailed   = errors.New("update failed")
	ErrAlreadyExists  = errors.New("entity already exists")
	ErrOptimisticLock = errors.New("optimistic lock conflict: data was modified by another process")
	ErrUnavailable    = errors.New("authoritative store unavailable")
)
