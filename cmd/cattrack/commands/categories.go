package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
	"github.com/cattrack/cattrack/internal/service"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.categories.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c.Name)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("category name required")
			}
			if _, err := a.categories.ByName(ctx, name); err == nil {
				return fmt.Errorf("category %q already exists", name)
			}
			cats, err := a.categories.List(ctx)
			if err != nil {
				return err
			}
			err = a.categories.Upsert(ctx, repository.Category{ID: database.CategoryID(name), Name: name, SortOrder: len(cats)})
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("category %q already exists", name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", name)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a category; its transactions become uncategorised",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.categories.ByName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("category %q: %w", args[0], err)
			}
			if err := a.categories.Delete(ctx, c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", c.Name)
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func transactionsCmd(a *app) *cobra.Command {
	var search string
	var uncategorised bool
	var limit int
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			txs, err := a.transactions.List(ctx, repository.TransactionFilters{Search: search, Uncategorised: uncategorised, Limit: limit})
			if err != nil {
				return err
			}
			cats, err := a.categories.List(ctx)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(cats))
			for _, c := range cats {
				names[c.ID] = c.Name
			}
			rows := make([][]string, 0, len(txs))
			for _, t := range txs {
				cat := "[uncategorised]"
				if t.CategoryID != nil {
					cat = names[*t.CategoryID]
				}
				rows = append(rows, []string{t.ID, t.When.Format("2006-01-02"), t.Description, service.FormatMoney(a.cfg.UI.CurrencySymbol, t.AmountCents), cat})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "Date", "Description", "Amount", "Category"}, rows)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "description contains")
	cmd.Flags().BoolVar(&uncategorised, "uncategorised", false, "only uncategorised")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows (0 for all)")
	return cmd
}

func splitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "split TXID CATEGORY=AMOUNT...",
		Short: "Split a transaction across categories; parts must sum to its amount",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parts := map[string]int64{}
			for _, arg := range args[1:] {
				name, amount, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("part %q: want CATEGORY=AMOUNT", arg)
				}
				c, err := a.categories.ByName(ctx, name)
				if err != nil {
					return fmt.Errorf("category %q: %w", name, err)
				}
				cents, err := service.ParseAmount(amount)
				if err != nil {
					return fmt.Errorf("amount %q: %w", amount, err)
				}
				if _, dup := parts[c.ID]; dup {
					return fmt.Errorf("category %q given twice", c.Name)
				}
				parts[c.ID] = cents
			}
			children, err := a.transactions.Split(ctx, args[0], parts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "split into %d transactions\n", len(children))
			return nil
		},
	}
}

func suggestCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest DESCRIPTION",
		Short: "Suggest categories for a description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sugs, err := a.categoriser.Suggest(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if len(sugs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no suggestions")
				return nil
			}
			rows := make([][]string, 0, len(sugs))
			for _, s := range sugs {
				rows = append(rows, []string{s.Name, formatScore(s.Score)})
			}
			return printTable(cmd.OutOrStdout(), []string{"Category", "Score"}, rows)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum suggestions")
	return cmd
}
