package cli

import (
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/mailcheck/internal/client/auth"
	"github.com/iudanet/mailcheck/internal/client/session"
	"github.com/iudanet/mailcheck/internal/models"
)

var errNotLoggedIn = errors.New("not logged in. Please run 'mailcheck login' first")

const statusTemplate = `
=== Authentication Status ===

Status:   {{.State}}
{{- with .User}}
Name:     {{.Name}}
Email:    {{.Email}}
Verified: {{if .EmailVerified}}yes{{else}}no{{end}}
Role:     {{.Role}}
Credits:  {{.Credits}}
{{- end}}
{{- if .Expires}}
Token expires: {{.Expires}}
{{- end}}
`

var statusTmpl = template.Must(template.New("status").Parse(statusTemplate))

type statusView struct {
	User    *models.User
	State   string
	Expires string
}

func (c *Cli) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSetup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			// Сетевая ошибка не мешает показать статус: контроллер уже сообщил о ней
			if _, err := c.service.Init(ctx); err != nil {
				c.logger.Debug("Session refresh failed", "error", err)
			}

			snap := c.service.Snapshot()
			view := statusView{State: snap.State.String(), User: snap.User}

			if snap.State.Authenticated() && c.tokens != nil {
				if token, err := c.tokens.Get(ctx); err == nil {
					if exp, ok := session.Expiry(token); ok {
						view.Expires = fmt.Sprintf("%s (in %s)", exp.Format(time.RFC3339), time.Until(exp).Round(time.Second))
					}
				}
			}

			if err := statusTmpl.Execute(c.io, view); err != nil {
				return fmt.Errorf("failed to render status: %w", err)
			}
			c.io.Println()

			switch snap.State {
			case auth.StateAnonymous:
				c.io.Println("Run 'mailcheck login' to authenticate.")
			case auth.StateUnverified:
				c.io.Println("Check your inbox, or run 'mailcheck resend-verification'.")
			}
			return nil
		},
	}
}
