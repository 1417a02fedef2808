package cli

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/spf13/cobra"
)

func newUserCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users"},
		Short:   "Manage the users of an environment",
	}
	cmd.AddCommand(
		newUserShowCommand(app),
		newUserCreateCommand(app),
		newUserEditCommand(app),
		newUserStateCommand(app, "disable", "Disable a user", (*screen.UserDetail).Disable),
		newUserStateCommand(app, "enable", "Enable a disabled user", (*screen.UserDetail).Enable),
		newUserIdentifierCommand(app),
		newUserDeleteCommand(app),
		newUserPropertyCommand(app),
	)
	return cmd
}

func newUserShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <env-id> <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(2),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			view := screen.NewUserDetail(c.client).Load(cmd.Context(), args[0], args[1])
			if !view.IsLoaded() {
				return errors.New(view.Message)
			}
			printUser(c.printer, view.Data)
			return nil
		}),
	}
}

func newUserCreateCommand(app *App) *cobra.Command {
	var in screen.UserInput
	cmd := &cobra.Command{
		Use:   "create <env-id>",
		Short: "Create a user in an environment",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			var created *domain.EnvironmentAccount
			out := screen.NewUserForm(c.client).Submit(cmd.Context(), args[0], "", in,
				func(acc *domain.EnvironmentAccount) string {
					created = acc
					return screen.UserPath(args[0], acc.ID)
				})
			if !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("User %s created with id %s", created.Username, created.ID)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "full name")
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.Username, "username", "", "username")
	f.StringVar(&in.Password, "password", "", "initial password, at least 8 characters")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	f.StringVar(&in.AvatarURL, "avatar-url", "", "avatar image URL")
	return cmd
}

func newUserEditCommand(app *App) *cobra.Command {
	var in screen.UserInput
	cmd := &cobra.Command{
		Use:   "edit <env-id> <user-id>",
		Short: "Change a user's name and avatar",
		Long: `edit changes the name and avatar of a user. Email, phone and username
are changed with 'consolectl user identifier'.`,
		Args: cobra.ExactArgs(2),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			form := screen.NewUserForm(c.client)
			if !cmd.Flags().Changed("name") {
				view := form.Load(cmd.Context(), args[0], args[1])
				if !view.IsLoaded() {
					return errors.New(view.Message)
				}
				in.Name = view.Data.Name
			}
			if out := form.Submit(cmd.Context(), args[0], args[1], in, nil); !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("User %s updated", args[1])
			return nil
		}),
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.AvatarURL, "avatar-url", "", "avatar image URL")
	return cmd
}

type userStateFunc func(d *screen.UserDetail, ctx context.Context, envID, userID string) screen.Outcome

func newUserStateCommand(app *App, verb, short string, fn userStateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <env-id> <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			if out := fn(screen.NewUserDetail(c.client), cmd.Context(), args[0], args[1]); !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("User %s %sd", args[1], verb)
			return nil
		}),
	}
}

func newUserIdentifierCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "identifier <env-id> <user-id> email|phone|username <value>",
		Short:     "Change a user's email, phone number or username",
		Args:      cobra.ExactArgs(4),
		ValidArgs: []string{"email", "phone", "username"},
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			out := screen.NewUserDetail(c.client).ChangeIdentifier(cmd.Context(), args[0], args[1], args[2], args[3])
			if !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("User %s %s changed", args[1], args[2])
			return nil
		}),
	}
}

func newUserDeleteCommand(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <env-id> <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(2),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			detail := screen.NewUserDetail(c.client)
			detail.RequestDelete(args[1])
			if !yes && !app.confirm("Delete user "+args[1]+"? This cannot be undone.") {
				detail.CancelDelete()
				c.printer.Info("Cancelled")
				return nil
			}
			if out := detail.Delete(cmd.Context(), args[0], args[1]); !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("User %s deleted", args[1])
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newUserPropertyCommand(app *App) *cobra.Command {
	return newPropertyCommand(app, []string{"env-id", "user-id"},
		func(cmd *cobra.Command, c *console, ids []string, in screen.PropertyInput) screen.Outcome {
			return screen.NewUserDetail(c.client).SetProperty(cmd.Context(), ids[0], ids[1], in)
		},
		func(cmd *cobra.Command, c *console, ids []string, key string) screen.Outcome {
			return screen.NewUserDetail(c.client).DeleteProperty(cmd.Context(), ids[0], ids[1], key)
		})
}

func printUser(p *Printer, u *domain.EnvironmentAccount) {
	status := "active"
	if u.Disabled {
		status = "disabled"
	}
	p.Header(valueOr(u.Name, u.Username))
	p.Field("ID", u.ID)
	p.Field("Username", u.Username)
	p.Field("Email", valueOr(u.Email, "-"))
	p.Field("Phone", valueOr(u.Phone, "-"))
	p.Field("Status", p.StatusBadge(status))
	p.Field("Created", when(u.CreatedAt))
	printProperties(p, u.CustomProperties)
}
