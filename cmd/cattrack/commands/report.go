package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/service"
)

func summaryCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals per category for a date range (default this month)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok, err := parseRange(from, to)
			if err != nil {
				return err
			}
			if !ok {
				r = service.MonthOf(a.today())
			}

			s, err := a.reports.Summary(cmd.Context(), r)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			sym := a.cfg.UI.CurrencySymbol
			fmt.Fprintf(out, "%s\nnet %s  transactions %d  uncategorised %d\n", s.Range, service.FormatMoney(sym, s.NetCents), s.Count, s.Uncategorised)
			rows := make([][]string, 0, len(s.Totals))
			for _, t := range s.Totals {
				name := t.CategoryName
				if name == "" {
					name = "[uncategorised]"
				}
				rows = append(rows, []string{name, service.FormatMoney(sym, t.TotalCents)})
			}
			return printTable(out, []string{"Category", "Total"}, rows)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	return cmd
}

func periodsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Show current and previous ranges of each period definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := a.periods.List(cmd.Context())
			if err != nil {
				return err
			}
			opts, errs := service.OptionsFor(defs, a.today())
			for _, e := range errs {
				fmt.Fprintln(cmd.ErrOrStderr(), "skipped:", e)
			}
			rows := make([][]string, 0, len(opts))
			for _, o := range opts {
				rows = append(rows, []string{o.Label, o.Range.From.Format("2006-01-02"), o.Range.To.Format("2006-01-02")})
			}
			return printTable(cmd.OutOrStdout(), []string{"Period", "From", "To"}, rows)
		},
	}

	var frequency, anchor string
	add := &cobra.Command{
		Use:   "add LABEL",
		Short: "Add or update a period definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.TrimSpace(args[0])
			def := repository.PeriodDefinition{
				ID:        database.PeriodID(label),
				Label:     label,
				Frequency: repository.Frequency(strings.ToLower(frequency)),
			}
			if anchor != "" {
				at, err := parseDay(anchor)
				if err != nil {
					return err
				}
				def.AnchorDate = &at
				// reject anchors the range maths cannot use
				if _, err := service.Current(def, a.today()); err != nil {
					return err
				}
			}
			if err := a.periods.Upsert(cmd.Context(), def); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "period %q saved\n", label)
			return nil
		},
	}
	add.Flags().StringVar(&frequency, "frequency", "monthly", "weekly, fortnightly, monthly, quarterly or annual")
	add.Flags().StringVar(&anchor, "anchor", "", "first day of the series (YYYY-MM-DD), at least a year ago")
	cmd.AddCommand(add)
	return cmd
}

func balanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show account balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.balanceSvc.All(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(all))
			for _, b := range all {
				rows = append(rows, []string{b.Account.Name, service.FormatMoney(a.cfg.UI.CurrencySymbol, b.BalanceCents)})
			}
			return printTable(cmd.OutOrStdout(), []string{"Account", "Balance"}, rows)
		},
	}

	var on string
	set := &cobra.Command{
		Use:   "set ACCOUNT AMOUNT",
		Short: "Record a known balance at the end of a day (default today)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := service.ParseAmount(args[1])
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[1], err)
			}
			day := a.today()
			if on != "" {
				if day, err = parseDay(on); err != nil {
					return err
				}
			}
			if err := a.balanceSvc.Record(cmd.Context(), service.AccountID(args[0]), day, cents); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "balance of %s on %s set to %s\n", args[0], day.Format("2006-01-02"), service.FormatMoney(a.cfg.UI.CurrencySymbol, cents))
			return nil
		},
	}
	set.Flags().StringVar(&on, "on", "", "date of the balance (YYYY-MM-DD)")

	var days int
	history := &cobra.Command{
		Use:   "history ACCOUNT",
		Short: "End-of-day balances of an account up to today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := service.AccountID(args[0])
			if _, err := a.accounts.Get(cmd.Context(), id); err != nil {
				return fmt.Errorf("account %s: %w", args[0], err)
			}
			series, err := a.balanceSvc.Daily(cmd.Context(), id, a.today())
			if err != nil {
				return err
			}
			if days > 0 && len(series) > days {
				series = series[len(series)-days:]
			}
			rows := make([][]string, 0, len(series))
			for _, d := range series {
				rows = append(rows, []string{d.Day.Format("2006-01-02"), service.FormatMoney(a.cfg.UI.CurrencySymbol, d.BalanceCents)})
			}
			return printTable(cmd.OutOrStdout(), []string{"Day", "Balance"}, rows)
		},
	}
	history.Flags().IntVar(&days, "days", 31, "show only the last N days (0 = all)")

	cmd.AddCommand(set, history)
	return cmd
}

// formatScore renders a suggestion score as a percentage.
func formatScore(score int) string {
	return strconv.Itoa(score) + "%"
}
