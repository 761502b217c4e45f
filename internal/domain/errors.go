package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

var (
	ErrEmptyTopic        = errors.New("topic is required")
	ErrInvalidMaxResults = errors.New("max results must be at least 1")
)

var (
	ErrStorageDisabled = errors.New("storage is not configured")
)

// ValidationError - запрос отклонён до обращения к провайдеру.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SearchError - транспортная или HTTP ошибка при обращении к провайдеру.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search error: %v", e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// NotFoundError - провайдер ответил, но без коллекции результатов.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return ErrNotFound.Error()
	}
	return e.Message
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing error: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// StorageError никогда не отдаётся клиенту как HTTP ошибка, только логируется.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("storage error: %v", e.Err)
	}
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
