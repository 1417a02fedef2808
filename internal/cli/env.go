package cli

import (
	"errors"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/spf13/cobra"
)

func newEnvCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "env",
		Aliases: []string{"environment", "environments"},
		Short:   "Manage the tenant's environments",
	}
	cmd.AddCommand(
		newEnvListCommand(app),
		newEnvShowCommand(app),
		newEnvCreateCommand(app),
		newEnvRenameCommand(app),
		newEnvDeleteCommand(app),
		newEnvPropertyCommand(app),
	)
	return cmd
}

// signedIn wraps a command body that needs a session.
func signedIn(app *App, fn func(cmd *cobra.Command, c *console, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := app.open(cmd.Context())
		if err != nil {
			return err
		}
		if err := c.requireSession(cmd.Context()); err != nil {
			return err
		}
		return fn(cmd, c, args)
	}
}

func newEnvListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environments",
		Args:  cobra.NoArgs,
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			view := screen.NewEnvironmentList(c.client, c.ids).Load(cmd.Context())
			switch view.Status {
			case screen.Error:
				return errors.New(view.Message)
			case screen.Empty:
				c.printer.Info("No environments yet, create one with 'consolectl env create <name>'")
				return nil
			}
			rows := make([][]string, 0, len(view.Data))
			for _, e := range view.Data {
				rows = append(rows, []string{e.ID, e.Name})
			}
			c.printer.Table([]string{"ID", "Name"}, rows)
			return nil
		}),
	}
}

func newEnvShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <env-id>",
		Short: "Show an environment",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			view := screen.NewEnvironmentDetail(c.client, c.ids).Load(cmd.Context(), args[0])
			if !view.IsLoaded() {
				return errors.New(view.Message)
			}
			printEnvironment(c.printer, view.Data)
			return nil
		}),
	}
}

func newEnvCreateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an environment",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			var created *domain.Environment
			out := screen.NewEnvironmentForm(c.client, c.ids).Submit(cmd.Context(), "",
				screen.EnvironmentInput{Name: args[0]},
				func(env *domain.Environment) string {
					created = env
					return screen.EnvironmentPath(env.ID)
				})
			if !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("Environment %s created with id %s", created.Name, created.ID)
			return nil
		}),
	}
}

func newEnvRenameCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <env-id> <name>",
		Short: "Rename an environment",
		Args:  cobra.ExactArgs(2),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			out := screen.NewEnvironmentForm(c.client, c.ids).Submit(cmd.Context(), args[0],
				screen.EnvironmentInput{Name: args[1]}, nil)
			if !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("Environment renamed")
			return nil
		}),
	}
}

func newEnvDeleteCommand(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <env-id>",
		Short: "Delete an environment and all its users",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			detail := screen.NewEnvironmentDetail(c.client, c.ids)
			detail.RequestDelete(args[0])
			if !yes && !app.confirm("Delete environment "+args[0]+" and all its users? This cannot be undone.") {
				detail.CancelDelete()
				c.printer.Info("Cancelled")
				return nil
			}
			if out := detail.Delete(cmd.Context(), args[0]); !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("Environment %s deleted", args[0])
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newEnvPropertyCommand(app *App) *cobra.Command {
	return newPropertyCommand(app, []string{"env-id"},
		func(cmd *cobra.Command, c *console, ids []string, in screen.PropertyInput) screen.Outcome {
			return screen.NewEnvironmentDetail(c.client, c.ids).SetProperty(cmd.Context(), ids[0], in)
		},
		func(cmd *cobra.Command, c *console, ids []string, key string) screen.Outcome {
			return screen.NewEnvironmentDetail(c.client, c.ids).DeleteProperty(cmd.Context(), ids[0], key)
		})
}

func printEnvironment(p *Printer, env *domain.Environment) {
	p.Header(env.Name)
	p.Field("ID", env.ID)
	p.Field("Created", when(env.CreatedAt))
	p.Field("Updated", when(env.UpdatedAt))
	printProperties(p, env.CustomProperties)
}
