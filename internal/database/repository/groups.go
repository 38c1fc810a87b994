package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GroupRepo handles category groups.
type GroupRepo struct {
	db *sql.DB
}

func NewGroupRepo(db *sql.DB) *GroupRepo { return &GroupRepo{db: db} }

// Upsert stores g and replaces its categories. Names are unique ignoring case.
func (r *GroupRepo) Upsert(ctx context.Context, g CategoryGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var clash string
	err = tx.QueryRowContext(ctx, `SELECT id FROM category_groups WHERE name = ? COLLATE NOCASE AND id <> ?`, strings.TrimSpace(g.Name), g.ID).Scan(&clash)
	if err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO category_groups(id, name)
	VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name;
	`, g.ID, strings.TrimSpace(g.Name))
	if isUnique(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if err := groupMembers.replace(ctx, tx, g.ID, g.CategoryIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM category_groups WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ByName finds a group by case-insensitive name.
func (r *GroupRepo) ByName(ctx context.Context, name string) (CategoryGroup, error) {
	var g CategoryGroup
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM category_groups WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name)).
		Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return CategoryGroup{}, ErrNotFound
	}
	if err != nil {
		return CategoryGroup{}, err
	}
	members, err := groupMembers.load(ctx, r.db)
	if err != nil {
		return CategoryGroup{}, fmt.Errorf("group categories: %w", err)
	}
	g.CategoryIDs = members[g.ID]
	return g, nil
}

// List returns every group ordered by name.
func (r *GroupRepo) List(ctx context.Context) ([]CategoryGroup, error) {
	out, err := r.scanGroups(ctx)
	if err != nil {
		return nil, err
	}
	members, err := groupMembers.load(ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("group categories: %w", err)
	}
	for i := range out {
		out[i].CategoryIDs = members[out[i].ID]
	}
	return out, nil
}

func (r *GroupRepo) scanGroups(ctx context.Context) ([]CategoryGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM category_groups ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CategoryGroup
	for rows.Next() {
		var g CategoryGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
