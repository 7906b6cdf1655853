package iocli

// IO абстрагирует терминал: вывод, ввод строк и скрытый ввод паролей
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
