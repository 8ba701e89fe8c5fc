package domain

import "errors"

var (
	// ErrNotFound - запись отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSnapshot - снимок не прошёл структурную проверку.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
