package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cattrack/cattrack/internal/database/repository"
)

var defaultCategories = []string{
	"Income",
	"Groceries",
	"Restaurants",
	"Transport",
	"Shopping",
	"Utilities",
	"Subscriptions",
	"Health",
	"Entertainment",
}

var defaultPeriods = []repository.PeriodDefinition{
	{Label: "Month", Frequency: repository.FrequencyMonthly},
	{Label: "Quarter", Frequency: repository.FrequencyQuarterly},
	{Label: "Year", Frequency: repository.FrequencyAnnual},
}

// SeedDefaults ensures baseline categories and period definitions exist for
// new databases. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	catRepo := repository.NewCategoryRepo(db)
	existing, err := catRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) == 0 {
		for idx, name := range defaultCategories {
			cat := repository.Category{ID: CategoryID(name), Name: name, SortOrder: idx}
			if err := catRepo.Upsert(ctx, cat); err != nil {
				return err
			}
		}
	}

	periodRepo := repository.NewPeriodRepo(db)
	periods, err := periodRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list periods: %w", err)
	}
	if len(periods) > 0 {
		return nil
	}
	for _, p := range defaultPeriods {
		p.ID = PeriodID(p.Label)
		if err := periodRepo.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// CategoryID is the stable id for a category name.
func CategoryID(name string) string { return seedID("cat:" + name) }

// PeriodID is the stable id for a period definition label.
func PeriodID(label string) string { return seedID("period:" + label) }

func seedID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
