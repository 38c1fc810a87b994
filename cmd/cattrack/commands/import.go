package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cattrack/cattrack/internal/service"
)

func importCmd(a *app) *cobra.Command {
	var format, account, from, to string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a CSV, ANZ CSV or OFX statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := service.ParseFormat(format, path)
			if err != nil {
				return err
			}
			opts := service.ImportOptions{Format: f, Account: account, Location: a.loc}
			if opts.From, err = parseDay(from); err != nil {
				return err
			}
			if opts.To, err = parseDay(to); err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			res, err := a.ingest.Import(cmd.Context(), file, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d, skipped %d duplicates, filtered %d, auto-categorised %d\n",
				res.Imported, res.Skipped, res.Filtered, res.Categorised)
			for _, e := range res.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), "  ", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "csv, anz or ofx (default from file extension)")
	cmd.Flags().StringVar(&account, "account", "Default", "account for lines that do not name one")
	cmd.Flags().StringVar(&from, "from", "", "skip lines before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "skip lines after this date (YYYY-MM-DD)")
	return cmd
}
