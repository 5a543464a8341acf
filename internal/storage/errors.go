package storage

import "errors"

var (
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidName   = errors.New("invalid image name")
	ErrInvalidData   = errors.New("invalid data")
	ErrStorageInit   = errors.New("storage initialization failed")
	ErrFileOperation = errors.New("file operation failed")
)
