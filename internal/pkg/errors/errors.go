package errors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalid           = errors.New("invalid")
	ErrInternal          = errors.New("internal")
	ErrEmptyQuestion     = errors.New("question cannot be empty")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrReadOnly          = errors.New("server is in read-only mode")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsEmptyQuestion(err error) bool {
	return errors.Is(err, ErrEmptyQuestion)
}
