package repository

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// pq error code for unique_violation.
const uniqueViolation = "23505"
