package models

import "time"

// Role определяет роль пользователя в системе
type Role string

const (
	RoleUser  Role = "user"  // обычный пользователь
	RoleAdmin Role = "admin" // администратор (доступ к админке, без проверки email)
)

// User представляет текущего пользователя, как его отдает GET /auth/me
type User struct {
	CreatedAt     time.Time     `json:"created_at"`             // время создания аккаунта
	Subscription  *Subscription `json:"subscription,omitempty"` // данные подписки (если есть)
	ID            string        `json:"id"`                     // идентификатор пользователя
	Name          string        `json:"name"`                   // отображаемое имя
	Email         string        `json:"email"`                  // email аккаунта
	Role          Role          `json:"role"`                   // admin или user
	Plan          Plan          `json:"plan"`                   // тарифный план
	Usage         Usage         `json:"usage"`                  // счетчики проверок
	Credits       int64         `json:"credits"`                // остаток кредитов
	EmailVerified bool          `json:"email_verified"`         // подтвержден ли email
}

// Plan описывает тарифный план пользователя
type Plan struct {
	RenewsAt    *time.Time `json:"renews_at,omitempty"` // дата продления (если есть)
	Name        string     `json:"name"`                // название плана
	CreditLimit int64      `json:"credit_limit"`        // лимит кредитов плана
}

// Usage содержит счетчики использования сервиса
type Usage struct {
	VerificationsToday int64 `json:"verifications_today"`
	VerificationsMonth int64 `json:"verifications_month"`
	VerificationsTotal int64 `json:"verifications_total"`
}

// Subscription содержит метаданные платной подписки
type Subscription struct {
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	ID                string     `json:"id"`
	Status            string     `json:"status"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
}

// IsAdmin сообщает, обладает ли пользователь повышенной ролью
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Clone возвращает глубокую копию пользователя.
// Контроллер авторизации отдает наружу только копии.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Plan.RenewsAt != nil {
		t := *u.Plan.RenewsAt
		c.Plan.RenewsAt = &t
	}
	if u.Subscription != nil {
		s := *u.Subscription
		if u.Subscription.CurrentPeriodEnd != nil {
			t := *u.Subscription.CurrentPeriodEnd
			s.CurrentPeriodEnd = &t
		}
		c.Subscription = &s
	}
	return &c
}

// CreditsUsedPercent возвращает долю израсходованных кредитов плана (0-100)
func (u *User) CreditsUsedPercent() int {
	if u == nil || u.Plan.CreditLimit <= 0 {
		return 0
	}
	used := u.Plan.CreditLimit - u.Credits
	if used <= 0 {
		return 0
	}
	if used >= u.Plan.CreditLimit {
		return 100
	}
	return int(used * 100 / u.Plan.CreditLimit)
}
