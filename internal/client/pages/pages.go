package pages

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/iudanet/mailcheck/internal/models"
)

// ErrPageNotFound возвращается для неизвестного имени страницы
var ErrPageNotFound = errors.New("page not found")

//go:embed templates/*.tmpl
var templateFS embed.FS

// Data - данные, доступные шаблонам
type Data struct {
	User     *models.User
	Now      time.Time
	Product  string
	Support  string
	Resend   string // команда повторной отправки письма
	SignedIn bool
}

var funcs = template.FuncMap{
	"date": formatDate,
	"bar": func(percent int) string {
		const width = 20
		filled := percent * width / 100
		if filled < 0 {
			filled = 0
		}
		if filled > width {
			filled = width
		}
		return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
	},
	"upper": strings.ToUpper,
}

var templates = template.Must(
	template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"),
)

// formatDate принимает time.Time или *time.Time
func formatDate(v any) string {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case *time.Time:
		if tv != nil {
			t = *tv
		}
	}
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}

// Render выводит страницу name в w
func Render(w io.Writer, name string, data Data) error {
	t := templates.Lookup(name + ".tmpl")
	if t == nil {
		return fmt.Errorf("%w: %s", ErrPageNotFound, name)
	}

	if data.Product == "" {
		data.Product = "MailCheck"
	}
	if data.Support == "" {
		data.Support = "support@mailcheck.app"
	}
	if data.Resend == "" {
		data.Resend = "mailcheck resend-verification"
	}
	if data.Now.IsZero() {
		data.Now = time.Now()
	}
	data.SignedIn = data.User != nil

	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render page %s: %w", name, err)
	}
	return nil
}

// Names возвращает отсортированные имена всех страниц
func Names() []string {
	var names []string
	for _, t := range templates.Templates() {
		if name, ok := strings.CutSuffix(t.Name(), ".tmpl"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
