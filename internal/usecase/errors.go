package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// handlerがHTTPステータスへ写すためのエラー。
// Fieldsはバリデーションで問題になったフィールド名（任意）。
type HTTPError struct {
	Status  int
	Message string
	Fields  []string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 400 + 問題フィールドの列挙。
func NewValidationError(message string, fields ...string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: message,
		Fields:  fields,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
