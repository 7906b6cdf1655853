package route

import (
	"github.com/iudanet/mailcheck/internal/client/auth"
)

// Paths of the views the guard redirects to
const (
	PathHome        = "/"
	PathLogin       = "/login"
	PathRegister    = "/register"
	PathVerifyEmail = "/verify-email"
	PathDashboard   = "/dashboard"
)

// Action - результат проверки доступа к view
type Action int

const (
	ActionRender      Action = iota // показать view
	ActionPlaceholder               // показать заглушку загрузки
	ActionRedirect                  // перейти на Decision.Target
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionPlaceholder:
		return "placeholder"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision - решение guard для одного перехода
type Decision struct {
	Target string // путь для ActionRedirect
	Action Action
}

// Access описывает, кто может открыть view
type Access int

const (
	// AccessPublic - маркетинговые и юридические страницы, без проверок
	AccessPublic Access = iota
	// AccessGuest - формы входа и регистрации
	AccessGuest
	// AccessProtected - нужна сессия
	AccessProtected
)

// View описывает страницу и правила доступа к ней
type View struct {
	Path            string
	Page            string // имя шаблона в pages
	Access          Access
	AllowUnverified bool // доступна без подтвержденного email
	AdminOnly       bool
}

// Guard решает, можно ли показать view при данном состоянии авторизации.
// Для защищенных view: loading - заглушка, anonymous - вход,
// неподтвержденный email (кроме администраторов) - экран подтверждения.
func Guard(snap auth.Snapshot, view View) Decision {
	switch view.Access {
	case AccessPublic:
		return Decision{Action: ActionRender}
	case AccessGuest:
		return guardGuest(snap)
	}

	switch snap.State {
	case auth.StateLoading:
		return Decision{Action: ActionPlaceholder}
	case auth.StateAnonymous:
		return redirect(PathLogin)
	case auth.StateUnverified:
		if !snap.IsAdmin() && !view.AllowUnverified {
			return redirect(PathVerifyEmail)
		}
	case auth.StateVerified:
	default:
		return redirect(PathLogin)
	}

	if view.AdminOnly && !snap.IsAdmin() {
		return redirect(PathDashboard)
	}

	return Decision{Action: ActionRender}
}

// guardGuest уводит вошедших пользователей с форм входа и регистрации
func guardGuest(snap auth.Snapshot) Decision {
	switch snap.State {
	case auth.StateLoading:
		return Decision{Action: ActionPlaceholder}
	case auth.StateUnverified:
		if snap.IsAdmin() {
			return redirect(PathDashboard)
		}
		return redirect(PathVerifyEmail)
	case auth.StateVerified:
		return redirect(PathDashboard)
	default:
		return Decision{Action: ActionRender}
	}
}

func redirect(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target}
}
