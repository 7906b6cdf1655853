package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id для ключа сессии.
// Ключ деривируется при каждом запуске клиента, поэтому память умеренная.
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 2
	// Argon2Memory - объем памяти в KB (32MB)
	Argon2Memory = 32 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 2
	// KeySize - длина выходного ключа в байтах
	KeySize = 32
	// SaltSize - размер соли в байтах
	SaltSize = 16
)

// sessionKeyContext отделяет ключ сессии от любых других ключей,
// которые могут быть деривированы из той же парольной фразы
const sessionKeyContext = "mailcheck/session-token"

// GenerateSalt генерирует криптографически случайную соль
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveSessionKey деривирует ключ шифрования токена сессии из парольной фразы
// Использует Argon2id, соль хранится в локальных метаданных клиента
func DeriveSessionKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	input := append([]byte(passphrase), []byte(sessionKeyContext)...)
	return argon2.IDKey(input, salt, Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}
