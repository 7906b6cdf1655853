package route

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/mailcheck/internal/client/auth"
)

// ErrUnknownRoute возвращается для путей, которых нет в таблице маршрутов
var ErrUnknownRoute = errors.New("unknown route")

// maxRedirects ограничивает цепочку перенаправлений в Navigate
const maxRedirects = 4

// Router хранит таблицу маршрутов
type Router struct {
	views map[string]View
	order []string
}

// NewRouter создает роутер со всеми страницами приложения
func NewRouter() *Router {
	r := &Router{views: make(map[string]View)}

	r.add(View{Path: PathHome, Page: "home"})
	r.add(View{Path: "/pricing", Page: "pricing"})
	r.add(View{Path: "/about", Page: "about"})
	r.add(View{Path: "/terms", Page: "terms"})
	r.add(View{Path: "/privacy", Page: "privacy"})
	r.add(View{Path: PathLogin, Page: "login", Access: AccessGuest})
	r.add(View{Path: PathRegister, Page: "register", Access: AccessGuest})
	r.add(View{Path: PathVerifyEmail, Page: "verify-pending", Access: AccessProtected, AllowUnverified: true})
	r.add(View{Path: PathDashboard, Page: "dashboard", Access: AccessProtected})
	r.add(View{Path: "/account", Page: "account", Access: AccessProtected})
	r.add(View{Path: "/admin", Page: "admin", Access: AccessProtected, AdminOnly: true})

	return r
}

func (r *Router) add(v View) {
	r.views[v.Path] = v
	r.order = append(r.order, v.Path)
}

// Lookup возвращает view по пути
func (r *Router) Lookup(path string) (View, error) {
	v, ok := r.views[normalize(path)]
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}
	return v, nil
}

// Paths возвращает пути в порядке объявления
func (r *Router) Paths() []string {
	return append([]string(nil), r.order...)
}

// Resolve применяет Guard к view по пути
func (r *Router) Resolve(snap auth.Snapshot, path string) (View, Decision, error) {
	v, err := r.Lookup(path)
	if err != nil {
		return View{}, Decision{}, err
	}
	return v, Guard(snap, v), nil
}

// Navigate следует перенаправлениям, пока guard не разрешит показ
// (или не потребует заглушку), и возвращает итоговую view
func (r *Router) Navigate(snap auth.Snapshot, path string) (View, Decision, error) {
	start := path
	for i := 0; i < maxRedirects; i++ {
		v, d, err := r.Resolve(snap, path)
		if err != nil {
			return View{}, Decision{}, err
		}
		if d.Action != ActionRedirect {
			return v, d, nil
		}
		path = d.Target
	}
	return View{}, Decision{}, fmt.Errorf("too many redirects starting at %s", start)
}

// ForIntent возвращает путь, соответствующий намерению контроллера.
// ok == false для IntentNone.
func ForIntent(intent auth.Intent) (path string, ok bool) {
	switch intent {
	case auth.IntentDashboard:
		return PathDashboard, true
	case auth.IntentVerifyPending:
		return PathVerifyEmail, true
	case auth.IntentLogin:
		return PathLogin, true
	default:
		return "", false
	}
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
