package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cattrack/cattrack/internal/database"
)

// MaintenanceService houses destructive actions exposed through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes transactions, balances and accounts. Categories, period
// definitions, budgets and category groups are kept unless all is set. The
// schema stays intact.
func (s *MaintenanceService) Reset(ctx context.Context, all bool) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	tables := []string{"balance_points", "transactions", "accounts"}
	if all {
		tables = append(tables, "budget_entry_categories", "budget_entries", "category_group_members", "category_groups", "categories", "period_definitions")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
