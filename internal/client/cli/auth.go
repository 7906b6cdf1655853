package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) registerCommand() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSetup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			c.io.Println("=== Register ===")
			c.io.Println()

			var err error
			if name == "" {
				if name, err = c.io.ReadInput("Name: "); err != nil {
					return fmt.Errorf("failed to read name: %w", err)
				}
			}
			if email == "" {
				if email, err = c.io.ReadInput("Email: "); err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
			}

			password, err := c.getPassword("Password: ")
			if err != nil {
				return err
			}

			// Подтверждение пароля только при вводе с клавиатуры
			if c.interactivePassword() {
				confirm, err := c.io.ReadPassword("Confirm password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				if confirm != password {
					return fmt.Errorf("passwords do not match")
				}
			}

			c.io.Println("Creating account...")

			intent, err := c.service.Register(ctx, name, email, password)
			if err != nil {
				return err
			}

			c.io.Println("✓ Registration successful!")
			c.io.Println()
			return c.follow(intent)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&c.flags.passwordFile, "password-file", "", "Read password from file")

	return cmd
}

func (c *Cli) loginCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSetup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			c.io.Println("=== Login ===")
			c.io.Println()

			if email == "" {
				var err error
				if email, err = c.io.ReadInput("Email: "); err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
			}

			password, err := c.getPassword("Password: ")
			if err != nil {
				return err
			}

			c.io.Println("Authenticating...")

			intent, err := c.service.Login(ctx, email, password)
			if err != nil {
				return err
			}

			c.io.Println("✓ Login successful!")
			c.io.Println()
			return c.follow(intent)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&c.flags.passwordFile, "password-file", "", "Read password from file")

	return cmd
}

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSetup(); err != nil {
				return err
			}

			c.service.Logout(cmd.Context())
			c.io.Println("✓ Logged out. Local session removed.")
			return nil
		},
	}
}

func (c *Cli) resendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resend-verification",
		Short: "Send the email verification link again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSetup(); err != nil {
				return err
			}
			ctx := cmd.Context()

			if _, err := c.service.Init(ctx); err != nil {
				return err
			}
			if !c.service.Snapshot().State.Authenticated() {
				return errNotLoggedIn
			}

			intent, err := c.service.ResendVerification(ctx)
			if ferr := c.follow(intent); ferr != nil {
				return ferr
			}
			return err
		},
	}
}
