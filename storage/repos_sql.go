package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type sqlFactRepo struct {
	db      *sql.DB
	dialect string
}

const upsertFactSQL = `INSERT INTO histfacts_fact
	(id, uuid, position, text, image_url, period, year, is_explicit, date_created)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		text = excluded.text,
		image_url = excluded.image_url,
		period = excluded.period,
		year = excluded.year,
		is_explicit = excluded.is_explicit`

func (r *sqlFactRepo) q(query string) string { return rebind(r.dialect, query) }

func (r *sqlFactRepo) Upsert(ctx context.Context, rec FactRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), -1) + 1 FROM histfacts_fact").Scan(&rec.Position); err != nil {
		return fmt.Errorf("next fact position: %w", err)
	}
	if err := r.upsertTx(ctx, tx, rec, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqlFactRepo) ReplaceAll(ctx context.Context, recs []FactRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.deleteAllTx(ctx, tx); err != nil {
		return err
	}
	now := time.Now().UTC()
	for i, rec := range recs {
		rec.Position = i
		if err := r.upsertTx(ctx, tx, rec, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *sqlFactRepo) upsertTx(ctx context.Context, tx *sql.Tx, rec FactRecord, now time.Time) error {
	stamp(&rec, now)
	_, err := tx.ExecContext(ctx, r.q(upsertFactSQL),
		rec.ID, rec.UUID, rec.Position, rec.Text, rec.ImageURL,
		rec.Period, rec.Year, rec.IsExplicit, rec.DateCreated,
	)
	if err != nil {
		return fmt.Errorf("upsert fact %d: %w", rec.ID, err)
	}

	if _, err := tx.ExecContext(ctx, r.q("DELETE FROM histfacts_fact_tag WHERE fact_id = ?"), rec.ID); err != nil {
		return fmt.Errorf("clear tags of fact %d: %w", rec.ID, err)
	}
	for i, tag := range rec.Tags {
		_, err := tx.ExecContext(ctx,
			r.q("INSERT INTO histfacts_fact_tag (fact_id, position, tag) VALUES (?, ?, ?)"),
			rec.ID, i, tag,
		)
		if err != nil {
			return fmt.Errorf("insert tag of fact %d: %w", rec.ID, err)
		}
	}
	return nil
}

func (r *sqlFactRepo) List(ctx context.Context) ([]FactRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, uuid, position, text, image_url, period, year, is_explicit, date_created
		FROM histfacts_fact ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FactRecord
	byID := make(map[int]int)
	for rows.Next() {
		var (
			rec     FactRecord
			created any
		)
		if err := rows.Scan(&rec.ID, &rec.UUID, &rec.Position, &rec.Text, &rec.ImageURL,
			&rec.Period, &rec.Year, &rec.IsExplicit, &created); err != nil {
			return nil, err
		}
		if t, ok := decodeAnyTime(created); ok {
			rec.DateCreated = t
		}
		byID[rec.ID] = len(out)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagRows, err := r.db.QueryContext(ctx, "SELECT fact_id, tag FROM histfacts_fact_tag ORDER BY fact_id, position")
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var (
			factID int
			tag    string
		)
		if err := tagRows.Scan(&factID, &tag); err != nil {
			return nil, err
		}
		if i, ok := byID[factID]; ok {
			out[i].Tags = append(out[i].Tags, tag)
		}
	}
	return out, tagRows.Err()
}

func (r *sqlFactRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM histfacts_fact").Scan(&n)
	return n, err
}

func (r *sqlFactRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.deleteAllTx(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqlFactRepo) deleteAllTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM histfacts_fact_tag"); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM histfacts_fact")
	return err
}
