package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/mailcheck/internal/client/auth"
	"github.com/iudanet/mailcheck/internal/client/pages"
	"github.com/iudanet/mailcheck/internal/models"
)

func TestRouter_Lookup(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		path     string
		wantPage string
		wantErr  bool
	}{
		{path: "/", wantPage: "home"},
		{path: "", wantPage: "home"},
		{path: "pricing", wantPage: "pricing"},
		{path: "/dashboard/", wantPage: "dashboard"},
		{path: "/verify-email", wantPage: "verify-pending"},
		{path: "/admin", wantPage: "admin"},
		{path: "/nowhere", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, err := r.Lookup(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownRoute)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, v.Page)
		})
	}
}

func TestRouter_Paths(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, []string{
		"/", "/pricing", "/about", "/terms", "/privacy",
		"/login", "/register", "/verify-email",
		"/dashboard", "/account", "/admin",
	}, r.Paths())
}

func TestRouter_Resolve(t *testing.T) {
	r := NewRouter()
	anon := auth.Snapshot{State: auth.StateAnonymous}

	v, d, err := r.Resolve(anon, "/account")
	require.NoError(t, err)
	assert.Equal(t, "account", v.Page)
	assert.Equal(t, Decision{Action: ActionRedirect, Target: PathLogin}, d)

	_, _, err = r.Resolve(anon, "/missing")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestRouter_Navigate(t *testing.T) {
	r := NewRouter()
	unverified := auth.Snapshot{State: auth.StateUnverified, User: &models.User{Role: models.RoleUser}}
	verified := auth.Snapshot{State: auth.StateVerified, User: &models.User{Role: models.RoleUser, EmailVerified: true}}

	tests := []struct {
		name     string
		path     string
		wantPage string
		snap     auth.Snapshot
	}{
		{name: "anonymous to login", snap: auth.Snapshot{State: auth.StateAnonymous}, path: "/dashboard", wantPage: "login"},
		{name: "unverified to verify", snap: unverified, path: "/dashboard", wantPage: "verify-pending"},
		{name: "unverified login page to verify", snap: unverified, path: "/login", wantPage: "verify-pending"},
		{name: "user admin to dashboard", snap: verified, path: "/admin", wantPage: "dashboard"},
		{name: "verified register to dashboard", snap: verified, path: "/register", wantPage: "dashboard"},
		{name: "loading stays", snap: auth.Snapshot{State: auth.StateLoading}, path: "/account", wantPage: "account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, d, err := r.Navigate(tt.snap, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, v.Page)
			assert.NotEqual(t, ActionRedirect, d.Action)
		})
	}
}

func TestRouter_Navigate_RedirectLoop(t *testing.T) {
	r := &Router{views: make(map[string]View)}
	r.add(View{Path: PathLogin, Page: "login", Access: AccessGuest})
	r.add(View{Path: PathDashboard, Page: "dashboard", Access: AccessGuest})
	verified := auth.Snapshot{State: auth.StateVerified, User: &models.User{Role: models.RoleUser, EmailVerified: true}}

	_, _, err := r.Navigate(verified, PathLogin)
	require.Error(t, err)
	assert.Equal(t, "too many redirects starting at /login", err.Error())
}

func TestRouter_PagesExist(t *testing.T) {
	r := NewRouter()
	names := pages.Names()

	for _, path := range r.Paths() {
		v, err := r.Lookup(path)
		require.NoError(t, err)
		assert.Contains(t, names, v.Page, "route %s", path)
	}
}

func TestForIntent(t *testing.T) {
	tests := []struct {
		want   string
		intent auth.Intent
		wantOK bool
	}{
		{intent: auth.IntentNone, want: "", wantOK: false},
		{intent: auth.IntentDashboard, want: PathDashboard, wantOK: true},
		{intent: auth.IntentVerifyPending, want: PathVerifyEmail, wantOK: true},
		{intent: auth.IntentLogin, want: PathLogin, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.intent.String(), func(t *testing.T) {
			got, ok := ForIntent(tt.intent)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
