package auth

// Level - важность уведомления
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Notifier показывает пользователю короткие сообщения (toast)
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc позволяет использовать функцию как Notifier
type NotifierFunc func(level Level, message string)

// Notify реализует Notifier
func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Level, string) {}
