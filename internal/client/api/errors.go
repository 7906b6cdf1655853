package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/mailcheck/pkg/api"
)

var (
	// ErrUnauthorized соответствует ответу 401: токен отсутствует, истек или отозван
	ErrUnauthorized = errors.New("unauthorized")

	// ErrMalformedResponse - успешный статус, но в ответе нет обязательных полей
	ErrMalformedResponse = errors.New("malformed server response")
)

// Сообщения для пользователя, когда сервер ничего не сообщил
const (
	GenericMessage     = "Something went wrong. Please try again."
	TimeoutMessage     = "The server took too long to respond. Please try again."
	UnreachableMessage = "Cannot reach the server. Check your connection and try again."
)

// maxRawMessage ограничивает текст ошибки, если сервер вернул не JSON
const maxRawMessage = 200

// Error - ошибка, полученная от сервера (не-2xx ответ)
type Error struct {
	Code       string // поле error из ответа
	Message    string // поле message из ответа
	Raw        string // тело ответа, если это не JSON
	StatusCode int
}

func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && (errResp.Message != "" || errResp.Error != "") {
		e.Code = errResp.Error
		e.Message = errResp.Message
		return e
	}

	raw := strings.TrimSpace(string(body))
	if len(raw) > maxRawMessage {
		// Режем по границе символа, чтобы не получить невалидный UTF-8
		n := maxRawMessage
		for n > 0 && !utf8.RuneStart(raw[n]) {
			n--
		}
		raw = raw[:n]
	}
	e.Raw = raw
	return e
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	case e.Code != "":
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Code)
	default:
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Raw)
	}
}

// Is позволяет сравнивать через errors.Is(err, ErrUnauthorized)
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// UserMessage сводит ошибку к короткому сообщению для пользователя.
// Приоритет: message сервера, error сервера, таймаут, недоступность, общий текст.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Code != "" {
			return apiErr.Code
		}
		return GenericMessage
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutMessage
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return TimeoutMessage
		}
		return UnreachableMessage
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return UnreachableMessage
	}

	return GenericMessage
}
