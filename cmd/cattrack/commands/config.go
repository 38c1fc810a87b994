package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cattrack/cattrack/internal/config"
)

// configCmd works on the config file only; it never opens the database.
func configCmd(a *app, flags *rootFlags) *cobra.Command {
	path := func() string {
		if flags.config != "" {
			return flags.config
		}
		return config.Path()
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write the config file",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(*flags)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := path()
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", p)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(p, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg
			fmt.Fprintf(cmd.OutOrStdout(), "file %s\n", path())
			return printTable(cmd.OutOrStdout(), []string{"Key", "Value"}, [][]string{
				{"database.path", c.Database.Path},
				{"log.path", c.Log.Path},
				{"log.level", c.Log.Level},
				{"ui.date_format", c.UI.DateFormat},
				{"ui.currency_symbol", c.UI.CurrencySymbol},
				{"ui.timezone", c.UI.Timezone},
				{"ui.start_route", c.UI.StartRoute},
				{"ui.page_size", strconv.Itoa(c.UI.PageSize)},
				{"import.auto_categorise_score", strconv.Itoa(c.Import.AutoCategoriseScore)},
			})
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}
