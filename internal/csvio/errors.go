package csvio

import "errors"

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidCSV      = errors.New("invalid CSV")
	ErrEncoding        = errors.New("encoding error")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnknownEncoding = errors.New("unknown encoding")
)
