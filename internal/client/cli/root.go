package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// skipSetup помечает команды, которым не нужны конфигурация и хранилище
const skipSetup = "skip-setup"

func (c *Cli) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailcheck",
		Short: "MailCheck terminal client",
		Long: `mailcheck is the terminal client for the MailCheck email verification service.

It keeps your session locally and shows your dashboard, account and plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return c.setup(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&c.flags.configPath, "config", "c", "", "Config file path (YAML)")
	f.StringVar(&c.flags.serverURL, "server", "", "Server API URL")
	f.StringVar(&c.flags.storageDriver, "storage", "", "Local storage driver (bolt, sqlite)")
	f.StringVar(&c.flags.storagePath, "db", "", "Path to local database")
	f.StringVar(&c.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.StringVar(&c.flags.logFormat, "log-format", "", "Log format (text, json)")
	f.StringVar(&c.flags.timeout, "timeout", "", "Request timeout (e.g. 15s)")

	cmd.AddCommand(
		c.registerCommand(),
		c.loginCommand(),
		c.logoutCommand(),
		c.statusCommand(),
		c.openCommand(),
		c.resendCommand(),
		c.versionCommand(),
	)

	return cmd
}

func (c *Cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			c.io.Printf("mailcheck version %s\n", c.build.Version)
			c.io.Printf("Build date: %s\n", c.build.BuildDate)
			c.io.Printf("Git commit: %s\n", c.build.GitCommit)
		},
	}
}

// requireSetup возвращает ошибку, если сервис не был собран
func (c *Cli) requireSetup() error {
	if c.service == nil {
		return fmt.Errorf("client is not initialized")
	}
	return nil
}
