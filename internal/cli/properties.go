package cli

import (
	"errors"
	"strings"

	"github.com/Harshitk-cp/sump-console/internal/domain"
	"github.com/Harshitk-cp/sump-console/internal/screen"
	"github.com/spf13/cobra"
)

type (
	setPropertyFunc    func(cmd *cobra.Command, c *console, ids []string, in screen.PropertyInput) screen.Outcome
	deletePropertyFunc func(cmd *cobra.Command, c *console, ids []string, key string) screen.Outcome
)

// newPropertyCommand builds "property set" and "property delete". ids names
// the positional arguments that come before the key.
func newPropertyCommand(app *App, ids []string, set setPropertyFunc, del deletePropertyFunc) *cobra.Command {
	prefix := ""
	for _, id := range ids {
		prefix += "<" + id + "> "
	}
	cmd := &cobra.Command{
		Use:   "property",
		Short: "Set or delete custom properties",
		Long: `Custom property values are read as JSON when they parse as JSON and
as plain strings otherwise: 42 is a number, true a boolean, gold a string.`,
	}

	run := func(fn func(cmd *cobra.Command, c *console, args []string) screen.Outcome, done string) func(*cobra.Command, []string) error {
		return signedIn(app, func(cmd *cobra.Command, c *console, args []string) error {
			if out := fn(cmd, c, args); !out.OK() {
				return errors.New(out.Message)
			}
			c.printer.Success(done, args[len(ids)])
			return nil
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set " + prefix + "<key> <value>",
		Short: "Set a custom property",
		Args:  cobra.ExactArgs(len(ids) + 2),
		RunE: run(func(cmd *cobra.Command, c *console, args []string) screen.Outcome {
			in := screen.PropertyInput{Key: args[len(ids)], Value: args[len(ids)+1]}
			return set(cmd, c, args[:len(ids)], in)
		}, "Property %s set"),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete " + prefix + "<key>",
		Short: "Delete a custom property",
		Args:  cobra.ExactArgs(len(ids) + 1),
		RunE: run(func(cmd *cobra.Command, c *console, args []string) screen.Outcome {
			return del(cmd, c, args[:len(ids)], args[len(ids)])
		}, "Property %s deleted"),
	})
	return cmd
}

func printProperties(p *Printer, props domain.Properties) {
	if props.Len() == 0 {
		return
	}
	rows := make([][]string, 0, props.Len())
	props.Each(func(key string, v domain.Value) bool {
		rows = append(rows, []string{key, v.String()})
		return true
	})
	p.Header("Custom properties")
	p.Table([]string{"Key", "Value"}, rows)
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
