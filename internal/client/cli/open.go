package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/mailcheck/internal/client/auth"
	"github.com/iudanet/mailcheck/internal/client/pages"
	"github.com/iudanet/mailcheck/internal/client/route"
)

func (c *Cli) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Show a page (/, /pricing, /dashboard, /account, ...)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSetup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			path := route.PathHome
			if len(args) == 1 {
				path = args[0]
			}

			// Публичные страницы не требуют обращения к серверу
			view, err := c.router.Lookup(path)
			if err != nil {
				return fmt.Errorf("%w (available: %v)", err, c.router.Paths())
			}
			if view.Access != route.AccessPublic {
				if _, err := c.service.Init(ctx); err != nil {
					c.logger.Debug("Session refresh failed", "error", err)
				}
			}

			return c.show(path)
		},
	}
}

// follow показывает страницу, соответствующую намерению контроллера
func (c *Cli) follow(intent auth.Intent) error {
	path, ok := route.ForIntent(intent)
	if !ok {
		return nil
	}
	return c.show(path)
}

// show проходит guard и выводит итоговую страницу
func (c *Cli) show(path string) error {
	snap := c.service.Snapshot()

	view, decision, err := c.router.Navigate(snap, path)
	if err != nil {
		return err
	}

	page := view.Page
	if decision.Action == route.ActionPlaceholder {
		page = "loading"
	}
	if view.Path != path {
		c.logger.Debug("Redirected", "from", path, "to", view.Path)
	}

	return pages.Render(c.io, page, pages.Data{User: snap.User})
}
