package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/Harshitk-cp/sump-console/internal/session"
	"github.com/spf13/cobra"
)

func newLoginCommand(app *App) *cobra.Command {
	var password, tenant string
	cmd := &cobra.Command{
		Use:   "login <identifier>",
		Short: "Sign in with an email, phone number or username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			if password == "" {
				if password, err = app.prompt("Password: "); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}

			resp, err := c.resolver.Login(cmd.Context(), args[0], password, tenant)
			if errors.Is(err, session.ErrNoTenant) {
				return errors.New("no tenant selected, pass --tenant or run 'consolectl tenant use <tenant-id>'")
			}
			if err != nil {
				return errors.New(screen.Message(err, screen.UnexpectedErrorMessage))
			}
			if tenant != "" {
				if err := c.ids.Set(tenant); err != nil {
					return err
				}
			}
			c.printer.Success("Signed in to tenant %s as %s", c.ids.Get(), resp.AccountID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVarP(&tenant, "tenant", "t", "", "sign in to this tenant and select it")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	var forget bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the selected tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			c.resolver.Logout(cmd.Context())
			if err := c.jar.Clear(); err != nil {
				return err
			}
			if forget {
				if err := c.ids.Clear(); err != nil {
					return err
				}
			}
			c.printer.Success("Signed out")
			return nil
		},
	}
	cmd.Flags().BoolVar(&forget, "forget", false, "also forget the selected tenant")
	return cmd
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			snap := c.resolver.Resolve(cmd.Context())
			c.printer.Field("Tenant", valueOr(snap.TenantID, "-"))
			c.printer.Field("Status", c.printer.StatusBadge(snap.State.String()))
			if snap.IsAuthenticated() {
				c.printer.Field("Account", snap.Session.AccountID)
				c.printer.Field("Session", snap.Session.ID)
				c.printer.Field("Expires", when(snap.Session.ExpiresAt))
			}
			return nil
		},
	}
}

func newSessionsCommand(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List active sessions, or revoke them all",
		Args:  cobra.NoArgs,
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			settings := screen.NewSettings(c.client, c.resolver, c.ids, c.logger)

			if all {
				if !app.confirm("Sign out of every session, including this one?") {
					c.printer.Info("Cancelled")
					return nil
				}
				n, out := settings.LogoutAll(cmd.Context())
				_ = c.jar.Clear()
				if !out.OK() {
					return errors.New(out.Message)
				}
				c.printer.Success("Signed out of %d sessions", n)
				return nil
			}

			view := settings.Load(cmd.Context())
			if !view.IsLoaded() {
				return errors.New(view.Message)
			}
			if view.Data.SessionsError != "" {
				return errors.New(view.Data.SessionsError)
			}
			rows := make([][]string, 0, len(view.Data.Sessions))
			for _, s := range view.Data.Sessions {
				rows = append(rows, []string{s.ID, s.IPAddress, s.UserAgent, when(s.LastActiveAt), when(s.ExpiresAt)})
			}
			c.printer.Table([]string{"ID", "IP", "User agent", "Last active", "Expires"}, rows)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&all, "logout-all", false, "revoke every session of the account")
	return cmd
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func newPasswordCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
	}

	var forgotTenant string
	forgot := &cobra.Command{
		Use:   "forgot <identifier>",
		Short: "Send a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			msg, err := c.resolver.ForgotPassword(cmd.Context(), args[0], forgotTenant)
			if err != nil {
				return recoveryError(err)
			}
			c.printer.Success("%s", msg)
			return nil
		},
	}
	forgot.Flags().StringVarP(&forgotTenant, "tenant", "t", "", "tenant of the account (default: the selected tenant)")

	var resetTenant, newPassword string
	reset := &cobra.Command{
		Use:   "reset <token>",
		Short: "Set a new password with the token from a reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			if newPassword == "" {
				if newPassword, err = app.prompt("New password: "); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			msg, err := c.resolver.ResetPassword(cmd.Context(), args[0], newPassword, resetTenant)
			if err != nil {
				return recoveryError(err)
			}
			c.printer.Success("%s", msg)
			return nil
		},
	}
	reset.Flags().StringVarP(&resetTenant, "tenant", "t", "", "tenant of the account (default: the selected tenant)")
	reset.Flags().StringVarP(&newPassword, "new-password", "p", "", "new password (prompted when omitted)")

	cmd.AddCommand(forgot, reset)
	return cmd
}

func recoveryError(err error) error {
	if errors.Is(err, session.ErrNoTenant) {
		return err
	}
	return errors.New(screen.Message(err, screen.UnexpectedErrorMessage))
}
