package cli

import (
	"errors"

	"github.com/Harshitk-cp/sump-console/internal/onboarding"
	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/spf13/cobra"
)

var setupFlags = []struct {
	field onboarding.Field
	name  string
	usage string
}{
	{onboarding.FieldTenantName, "tenant-name", "tenant name"},
	{onboarding.FieldAccountName, "name", "owner's full name"},
	{onboarding.FieldAccountEmail, "email", "owner's email"},
	{onboarding.FieldAccountUsername, "username", "owner's username"},
	{onboarding.FieldAccountPassword, "password", "owner's password"},
	{onboarding.FieldAccountPhone, "phone", "owner's phone number (optional)"},
	{onboarding.FieldEnvironmentName, "environment", "first environment name (default \"default\")"},
}

var setupPrompts = map[onboarding.Field]string{
	onboarding.FieldTenantName:             "Tenant name: ",
	onboarding.FieldAccountName:            "Your name: ",
	onboarding.FieldAccountEmail:           "Email: ",
	onboarding.FieldAccountUsername:        "Username: ",
	onboarding.FieldAccountPassword:        "Password: ",
	onboarding.FieldAccountPasswordConfirm: "Confirm password: ",
}

// setupSteps lists the fields each wizard step asks for.
var setupSteps = map[onboarding.Step][]onboarding.Field{
	onboarding.StepTenant: {onboarding.FieldTenantName},
	onboarding.StepAccount: {
		onboarding.FieldAccountName,
		onboarding.FieldAccountEmail,
		onboarding.FieldAccountUsername,
		onboarding.FieldAccountPassword,
		onboarding.FieldAccountPasswordConfirm,
		onboarding.FieldAccountPhone,
	},
	onboarding.StepEnvironment: {onboarding.FieldEnvironmentName},
}

func newSetupCommand(app *App) *cobra.Command {
	values := make(map[onboarding.Field]*string, len(setupFlags))
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create a tenant with its owner account and first environment",
		Long: `setup walks the onboarding steps: tenant name, owner account, first
environment. Values not given as flags are prompted for. On success the new
tenant is selected and the owner is signed in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context())
			if err != nil {
				return err
			}
			wizard := onboarding.New(c.client, c.ids, c.logger)

			for {
				step := wizard.View().Step
				for _, f := range setupSteps[step] {
					value, err := setupValue(app, cmd, values, f)
					if err != nil {
						return err
					}
					if err := wizard.Set(f, value); err != nil {
						return err
					}
				}
				if step == onboarding.StepEnvironment {
					break
				}
				if err := wizard.Next(); err != nil {
					return errors.New(screen.Message(err, onboarding.UnexpectedErrorMessage))
				}
			}

			tenantID, err := wizard.Submit(cmd.Context())
			if err != nil {
				if msg := wizard.View().Error; msg != "" {
					return errors.New(msg)
				}
				return errors.New(screen.Message(err, onboarding.UnexpectedErrorMessage))
			}
			c.printer.Success("Tenant %s created", tenantID)
			if c.resolver.Resolve(cmd.Context()).IsAuthenticated() {
				c.printer.Info("Signed in as the owner account")
			}
			return nil
		},
	}
	for _, fl := range setupFlags {
		values[fl.field] = cmd.Flags().String(fl.name, "", fl.usage)
	}
	return cmd
}

// setupValue takes f from its flag, or prompts for it. The password
// confirmation repeats --password, the phone is never prompted for and the
// environment name falls back to the default.
func setupValue(app *App, cmd *cobra.Command, values map[onboarding.Field]*string, f onboarding.Field) (string, error) {
	if f == onboarding.FieldAccountPasswordConfirm {
		if cmd.Flags().Changed("password") {
			return *values[onboarding.FieldAccountPassword], nil
		}
	}
	for _, fl := range setupFlags {
		if fl.field == f && cmd.Flags().Changed(fl.name) {
			return *values[f], nil
		}
	}

	switch f {
	case onboarding.FieldAccountPhone:
		return "", nil
	case onboarding.FieldEnvironmentName:
		return onboarding.DefaultEnvironmentName, nil
	}
	return app.prompt(setupPrompts[f])
}
