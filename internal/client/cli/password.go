package cli

import (
	"fmt"
	"os"
	"strings"
)

// PasswordEnv - переменная окружения с паролем для неинтерактивного входа
const PasswordEnv = "MAILCHECK_PASSWORD"

// getPassword retrieves the account password from various sources with priority:
// 1. Environment variable MAILCHECK_PASSWORD
// 2. File specified by --password-file
// 3. Interactive prompt (fallback)
func (c *Cli) getPassword(prompt string) (string, error) {
	// Priority 1: Environment variable
	if envPassword := c.getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if c.flags.passwordFile != "" {
		content, err := os.ReadFile(c.flags.passwordFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: Interactive prompt
	password, err := c.io.ReadPassword(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// interactivePassword сообщает, вводится ли пароль с клавиатуры
func (c *Cli) interactivePassword() bool {
	return c.getenv(PasswordEnv) == "" && c.flags.passwordFile == ""
}
