package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PeriodRepo handles period definitions.
type PeriodRepo struct {
	db *sql.DB
}

func NewPeriodRepo(db *sql.DB) *PeriodRepo { return &PeriodRepo{db: db} }

func (r *PeriodRepo) Upsert(ctx context.Context, p PeriodDefinition) error {
	if !p.Frequency.Valid() {
		return fmt.Errorf("period %q: unknown frequency %q", p.Label, p.Frequency)
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO period_definitions(id, label, frequency, anchor_date)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 label=excluded.label,
	 frequency=excluded.frequency,
	 anchor_date=excluded.anchor_date;
	`, p.ID, p.Label, string(p.Frequency), p.AnchorDate)
	if isUnique(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PeriodRepo) List(ctx context.Context) ([]PeriodDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, frequency, anchor_date FROM period_definitions ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PeriodDefinition
	for rows.Next() {
		var p PeriodDefinition
		var freq string
		var anchor sql.NullTime
		if err := rows.Scan(&p.ID, &p.Label, &freq, &anchor); err != nil {
			return nil, err
		}
		p.Frequency = Frequency(freq)
		if anchor.Valid {
			a := anchor.Time
			p.AnchorDate = &a
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
