package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds consolectl. apiURL is the default for --api-url.
func NewRootCommand(apiURL string, in io.Reader, out, errOut io.Writer) *cobra.Command {
	app := &App{In: in, Out: out, Err: errOut}

	root := &cobra.Command{
		Use:   "consolectl",
		Short: "Terminal console for SUMP tenants",
		Long: `consolectl manages a SUMP tenant from the terminal: sign in, create a
tenant, and maintain its environments and their users.

The selected tenant and the session cookie are kept in the config directory
between runs.

Example usage:
  consolectl setup --tenant-name Acme ...   # Create a tenant and sign in
  consolectl tenant use <tenant-id>         # Select an existing tenant
  consolectl login owner@acme.io            # Sign in
  consolectl env list                       # List environments`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&app.APIURL, "api-url", apiURL, "SUMP API base URL")
	flags.StringVar(&app.ConfigDir, "config-dir", DefaultConfigDir(), "directory holding the tenant id and session cookie")
	flags.BoolVar(&app.NoColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&app.Verbose, "verbose", "v", false, "log API calls to stderr")

	root.AddCommand(
		newTenantCommand(app),
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newSessionsCommand(app),
		newPasswordCommand(app),
		newSetupCommand(app),
		newEnvCommand(app),
		newUserCommand(app),
	)
	return root
}
