package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cattrack/cattrack/internal/prefs"
	"github.com/cattrack/cattrack/internal/sample"
)

func resetCmd(a *app) *cobra.Command {
	var all, yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete transactions, balances and accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset deletes data; pass --yes to confirm")
			}
			if err := a.maintenance.Reset(cmd.Context(), all); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also delete categories and period definitions")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	return cmd
}

func prefsCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Back up or restore categories and period definitions",
	}
	cmd.PersistentFlags().StringVar(&path, "file", "", "prefs file (default ~/.config/cattrack/prefs.toml)")
	file := func() string {
		if path != "" {
			return path
		}
		return prefs.Path()
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Write categories and periods to the prefs file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := prefs.Export(cmd.Context(), a.categories, a.periods)
			if err != nil {
				return err
			}
			if err := prefs.Save(file(), f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d categories and %d periods to %s\n", len(f.Categories), len(f.Periods), file())
			return nil
		},
	}
	restore := &cobra.Command{
		Use:   "restore",
		Short: "Load categories and periods from the prefs file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := prefs.Load(file())
			if err != nil {
				return err
			}
			n, err := prefs.Restore(cmd.Context(), f, a.categories, a.periods)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d entries from %s\n", n, file())
			return nil
		},
	}
	cmd.AddCommand(export, restore)
	return cmd
}

func sampleCmd(a *app) *cobra.Command {
	var opts sample.Options
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Fill the database with demo transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := sample.Seed(cmd.Context(), sample.Repos{
				Accounts:     a.accounts,
				Categories:   a.categories,
				Transactions: a.transactions,
			}, a.today(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d sample transactions\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Account, "account", "Sample Everyday", "account name")
	cmd.Flags().IntVar(&opts.Days, "days", 90, "days of history")
	cmd.Flags().IntVar(&opts.Count, "count", 120, "spend transactions")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "random seed")
	return cmd
}
