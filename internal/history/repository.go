package history

import (
	"context"
	"database/sql"
	"fmt"

	"marketsync_api/internal/engine"
)

// Repository -- архив итогов прогонов для оператора. Только запись:
// реконсиляция никогда не читает историю, каждый прогон полный.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) SaveRun(ctx context.Context, s engine.RunSummary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO marketsync.runs (run_id, platform, started_at, finished_at, applied, failed, skipped)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.RunID, s.Platform, s.StartedAt, s.FinishedAt, s.Applied, len(s.Failed), len(s.Skipped))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO marketsync.run_items (run_id, sku, status, reason, detail)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("prepare run_items insert: %w", err)
	}
	defer stmt.Close()

	for _, issue := range s.Failed {
		if _, err := stmt.ExecContext(ctx, s.RunID, issue.SKU, engine.StatusFailed, issue.Reason, issue.Detail); err != nil {
			return fmt.Errorf("insert failed item %s: %w", issue.SKU, err)
		}
	}
	for _, issue := range s.Skipped {
		if _, err := stmt.ExecContext(ctx, s.RunID, issue.SKU, engine.StatusSkipped, issue.Reason, issue.Detail); err != nil {
			return fmt.Errorf("insert skipped item %s: %w", issue.SKU, err)
		}
	}

	return tx.Commit()
}
