package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Ошибки клиентской стороны

var (
	ErrTokenAbsent          = errors.New("no token stored")
	ErrShortLinkUnavailable = errors.New("short link is not available")
	ErrLinkNotInView        = errors.New("link is not in the current list")
)

// ValidationError - ошибки проверки полей формы, до сети не доходит.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add keeps the first message recorded for a field.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NetworkError - транспортная ошибка (DNS, отказ соединения, таймаут).
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError - ответ сервера не 2xx. Message уже извлечен из тела
// (detail/message) либо содержит fallback.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// StorageError - сбой чтения/записи/очистки хранилища токена.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("token storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
