package auth

import "errors"

var (
	// ErrSuperseded возвращается login/register, если за время запроса сессия
	// была изменена (например, выполнен logout). Результат запроса отброшен.
	ErrSuperseded = errors.New("operation superseded by a newer session change")

	// ErrNoSession возвращается операциями, которым нужна активная сессия
	ErrNoSession = errors.New("not signed in")
)
