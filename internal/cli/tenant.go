package cli

import (
	"errors"
	"fmt"

	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/spf13/cobra"
)

func newTenantCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Show or select the current tenant",
	}
	cmd.AddCommand(
		newTenantShowCommand(app),
		newTenantUseCommand(app),
		newTenantClearCommand(app),
		newTenantRenameCommand(app),
		newTenantPropertyCommand(app),
	)
	return cmd
}

func newTenantShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the selected tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			if !c.ids.Has() {
				c.printer.Warning("No tenant selected")
				return nil
			}
			if !c.resolver.Resolve(cmd.Context()).IsAuthenticated() {
				c.printer.Field("Tenant", c.ids.Get())
				c.printer.Field("Session", c.printer.StatusBadge("unauthenticated"))
				return nil
			}

			view := screen.NewDashboard(c.client, c.ids).Load(cmd.Context())
			if !view.IsLoaded() {
				return errors.New(view.Message)
			}
			t := view.Data
			c.printer.Header(t.Name)
			c.printer.Field("ID", t.ID)
			c.printer.Field("Environments", fmt.Sprint(len(t.Environments)))
			printProperties(c.printer, t.CustomProperties)
			return nil
		},
	}
}

func newTenantUseCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <tenant-id>",
		Short: "Select a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.ids.Set(args[0]); err != nil {
				return err
			}
			c.printer.Success("Selected tenant %s", c.ids.Get())
			return nil
		},
	}
}

func newTenantClearCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the selected tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.ids.Clear(); err != nil {
				return err
			}
			c.printer.Success("Tenant cleared")
			return nil
		},
	}
}

func newTenantRenameCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the selected tenant",
		Args:  cobra.ExactArgs(1),
		RunE: signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			settings := screen.NewSettings(c.client, c.resolver, c.ids, c.logger)
			if out := settings.Rename(cmd.Context(), screen.TenantNameInput{Name: args[0]}); !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success("Tenant renamed")
			return nil
		}),
	}
}

func newTenantPropertyCommand(app *App) *cobra.Command {
	settings := func(c *console) *screen.Settings {
		return screen.NewSettings(c.client, c.resolver, c.ids, c.logger)
	}
	return newPropertyCommand(app, nil,
		func(cmd *cobra.Command, c *console, _ []string, in screen.PropertyInput) screen.Outcome {
			return settings(c).SetProperty(cmd.Context(), in)
		},
		func(cmd *cobra.Command, c *console, _ []string, key string) screen.Outcome {
			return settings(c).DeleteProperty(cmd.Context(), key)
		})
}
