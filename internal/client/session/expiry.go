package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry читает claim exp из токена без проверки подписи.
// Подпись проверяет только сервер; клиенту срок нужен, чтобы не
// отправлять заведомо просроченный токен. Для непрозрачных токенов ok == false.
func Expiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	date, err := claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}
	return date.Time, true
}

// Expired сообщает, истек ли срок токена на момент now.
// Токен без известного срока считается действующим до ответа сервера.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !now.Before(exp)
}
