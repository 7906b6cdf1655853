package api

import "github.com/iudanet/mailcheck/internal/models"

// LoginRequest представляет запрос на аутентификацию по email и паролю
type LoginRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль (передается только по TLS)
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Name     string `json:"name"`     // отображаемое имя
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль
}

// AuthResponse представляет ответ на успешный login/register
type AuthResponse struct {
	User  *models.User `json:"user"`  // текущий пользователь
	Token string       `json:"token"` // bearer токен сессии
}

// MeResponse представляет ответ GET /auth/me
type MeResponse struct {
	User *models.User `json:"user"`
}

// MessageResponse представляет ответ, содержащий только сообщение
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // сообщение для пользователя
}
