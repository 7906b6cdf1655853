package auth

import "github.com/iudanet/mailcheck/internal/models"

// State - состояние аутентификации клиента
type State int

const (
	// StateLoading - начальное состояние и состояние во время запроса к серверу
	StateLoading State = iota
	// StateAnonymous - пользователь не вошел
	StateAnonymous
	// StateUnverified - пользователь вошел, но email не подтвержден
	StateUnverified
	// StateVerified - пользователь вошел и подтвердил email
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateUnverified:
		return "authenticated-unverified"
	case StateVerified:
		return "authenticated-verified"
	default:
		return "unknown"
	}
}

// Authenticated сообщает, есть ли активная сессия с известным пользователем
func (s State) Authenticated() bool {
	return s == StateUnverified || s == StateVerified
}

// stateFor выбирает состояние по флагу подтверждения email
func stateFor(user *models.User) State {
	if user.EmailVerified {
		return StateVerified
	}
	return StateUnverified
}

// Intent - куда приложению следует перейти после операции
type Intent int

const (
	IntentNone          Intent = iota // оставаться на текущем экране
	IntentDashboard                   // личный кабинет
	IntentVerifyPending               // экран ожидания подтверждения email
	IntentLogin                       // экран входа
)

func (i Intent) String() string {
	switch i {
	case IntentNone:
		return "none"
	case IntentDashboard:
		return "dashboard"
	case IntentVerifyPending:
		return "verify-pending"
	case IntentLogin:
		return "login"
	default:
		return "unknown"
	}
}

// Snapshot - копия состояния контроллера. User принадлежит вызывающему.
type Snapshot struct {
	User  *models.User
	State State
}

// IsAdmin сообщает, является ли текущий пользователь администратором
func (s Snapshot) IsAdmin() bool {
	return s.User.IsAdmin()
}
