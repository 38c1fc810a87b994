package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cattrack/cattrack/internal/database"
	"github.com/cattrack/cattrack/internal/database/repository"
)

const fileName = "prefs.toml"

// File is the category and period setup kept outside the database, so a reset
// or a fresh database can get it back.
type File struct {
	Categories []Category `toml:"category"`
	Periods    []Period   `toml:"period"`
}

type Category struct {
	Name      string `toml:"name"`
	SortOrder int    `toml:"sort_order"`
}

type Period struct {
	Label     string `toml:"label"`
	Frequency string `toml:"frequency"`
	Anchor    string `toml:"anchor,omitempty"` // YYYY-MM-DD
}

// Path is where prefs live next to the config file.
func Path() string {
	if p := os.Getenv("CATTRACK_PREFS"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "cattrack", fileName)
}

// Load reads path. A missing file is an empty File.
func Load(path string) (File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("read prefs: %w", err)
	}
	return f, nil
}

// Save writes f atomically.
func Save(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(out).Encode(f); err != nil {
		out.Close()
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Export snapshots the stored categories and period definitions.
func Export(ctx context.Context, cats *repository.CategoryRepo, periods *repository.PeriodRepo) (File, error) {
	var f File
	cl, err := cats.List(ctx)
	if err != nil {
		return f, fmt.Errorf("list categories: %w", err)
	}
	for _, c := range cl {
		f.Categories = append(f.Categories, Category{Name: c.Name, SortOrder: c.SortOrder})
	}
	pl, err := periods.List(ctx)
	if err != nil {
		return f, fmt.Errorf("list periods: %w", err)
	}
	for _, p := range pl {
		out := Period{Label: p.Label, Frequency: string(p.Frequency)}
		if p.AnchorDate != nil {
			out.Anchor = p.AnchorDate.Format(time.DateOnly)
		}
		f.Periods = append(f.Periods, out)
	}
	return f, nil
}

// Restore upserts every entry of f. Categories whose name is already taken by
// another id are left alone. It returns how many entries were written.
func Restore(ctx context.Context, f File, cats *repository.CategoryRepo, periods *repository.PeriodRepo) (int, error) {
	n := 0
	for _, c := range f.Categories {
		err := cats.Upsert(ctx, repository.Category{ID: database.CategoryID(c.Name), Name: c.Name, SortOrder: c.SortOrder})
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			continue
		case err != nil:
			return n, fmt.Errorf("restore category %q: %w", c.Name, err)
		}
		n++
	}
	for _, p := range f.Periods {
		def := repository.PeriodDefinition{ID: database.PeriodID(p.Label), Label: p.Label, Frequency: repository.Frequency(p.Frequency)}
		if p.Anchor != "" {
			a, err := time.Parse(time.DateOnly, p.Anchor)
			if err != nil {
				return n, fmt.Errorf("period %q anchor: %w", p.Label, err)
			}
			def.AnchorDate = &a
		}
		err := periods.Upsert(ctx, def)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			continue
		case err != nil:
			return n, fmt.Errorf("restore period %q: %w", p.Label, err)
		}
		n++
	}
	return n, nil
}
