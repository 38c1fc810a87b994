package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cattrack/cattrack/internal/service"
)

func budgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage budgets and compare them with spend",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List budget entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			budgets, err := a.budgetSvc.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(budgets))
			for _, b := range budgets {
				rows = append(rows, []string{
					b.ID,
					b.Name,
					service.FormatMoney(a.cfg.UI.CurrencySymbol, b.AmountCents),
					b.ValidFrom.Format("2006-01-02"),
					b.ValidTo.Format("2006-01-02"),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "Categories", "Amount", "From", "To"}, rows)
		},
	}

	var validFrom, validTo string
	add := &cobra.Command{
		Use:   "add AMOUNT CATEGORY...",
		Short: "Budget an amount across categories (default this calendar year)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := service.ParseAmount(args[0])
			if err != nil {
				return err
			}
			valid := service.YearOf(a.today())
			if validFrom != "" {
				if valid.From, err = parseDay(validFrom); err != nil {
					return err
				}
			}
			if validTo != "" {
				if valid.To, err = parseDay(validTo); err != nil {
					return err
				}
			}
			b, err := a.budgetSvc.Add(cmd.Context(), cents, valid, args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "budget %s: %s for %s, %s\n", b.ID, service.FormatMoney(a.cfg.UI.CurrencySymbol, cents), b.Name, valid)
			return nil
		},
	}
	add.Flags().StringVar(&validFrom, "from", "", "first day the budget applies (YYYY-MM-DD)")
	add.Flags().StringVar(&validTo, "to", "", "last day the budget applies (YYYY-MM-DD)")

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a budget entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.budgetSvc.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("budget %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed budget %s\n", args[0])
			return nil
		},
	}

	var from, to string
	report := &cobra.Command{
		Use:   "report",
		Short: "Spend against pro-rated budgets for a date range (default this month)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok, err := parseRange(from, to)
			if err != nil {
				return err
			}
			if !ok {
				r = service.MonthOf(a.today())
			}
			lines, err := a.budgetSvc.Report(cmd.Context(), r)
			if err != nil {
				return err
			}
			sym := a.cfg.UI.CurrencySymbol
			fmt.Fprintln(cmd.OutOrStdout(), r)
			rows := make([][]string, 0, len(lines))
			for _, l := range lines {
				rows = append(rows, []string{
					l.Name,
					service.FormatMoney(sym, l.SpentCents),
					service.FormatMoney(sym, l.BudgetCents),
					service.FormatMoney(sym, l.Remaining()),
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"Categories", "Spent", "Budget", "Remaining"}, rows)
		},
	}
	report.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	report.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")

	cmd.AddCommand(list, add, remove, report)
	return cmd
}

func groupsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage category groups and their weekly totals",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List category groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.groupSvc.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				rows = append(rows, []string{g.Name, strings.Join(g.Categories, ", ")})
			}
			return printTable(cmd.OutOrStdout(), []string{"Group", "Categories"}, rows)
		},
	}

	set := &cobra.Command{
		Use:   "set NAME [CATEGORY...]",
		Short: "Create a group or replace its categories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.groupSvc.Save(cmd.Context(), args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "group %s: %d categories\n", g.Name, len(g.CategoryIDs))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a group; its categories are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.groupSvc.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed group %s\n", args[0])
			return nil
		},
	}

	var from, to string
	weekly := &cobra.Command{
		Use:   "weekly NAME",
		Short: "Net amount per week (Wednesday to Tuesday) for a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := parseRange(from, to)
			if err != nil {
				return err
			}
			weeks, err := a.groupSvc.WeeklySummary(cmd.Context(), args[0], r)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(weeks))
			for _, w := range weeks {
				rows = append(rows, []string{w.Start.Format("2006-01-02"), service.FormatMoney(a.cfg.UI.CurrencySymbol, w.TotalCents)})
			}
			return printTable(cmd.OutOrStdout(), []string{"Week of", "Total"}, rows)
		},
	}
	weekly.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD), required")
	weekly.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD), required")

	cmd.AddCommand(list, set, remove, weekly)
	return cmd
}
