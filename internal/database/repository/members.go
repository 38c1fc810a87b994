package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// membership is a link table between an owner row and categories.
type membership struct {
	table string
	owner string
}

var (
	budgetMembers = membership{table: "budget_entry_categories", owner: "budget_id"}
	groupMembers  = membership{table: "category_group_members", owner: "group_id"}
)

// replace sets the categories of ownerID. Unknown categories give ErrNotFound.
func (m membership) replace(ctx context.Context, tx *sql.Tx, ownerID string, categoryIDs []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+m.table+" WHERE "+m.owner+" = ?", ownerID); err != nil {
		return err
	}
	for _, id := range categoryIDs {
		_, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO "+m.table+"("+m.owner+", category_id) VALUES (?, ?)", ownerID, id)
		if isForeignKey(err) {
			return fmt.Errorf("category %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// load returns category ids by owner, ordered by category name.
func (m membership) load(ctx context.Context, db *sql.DB) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, `
	SELECT l.`+m.owner+`, l.category_id FROM `+m.table+` l
	JOIN categories c ON c.id = l.category_id
	ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string][]string)
	for rows.Next() {
		var owner, cat string
		if err := rows.Scan(&owner, &cat); err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], cat)
	}
	return out, rows.Err()
}
