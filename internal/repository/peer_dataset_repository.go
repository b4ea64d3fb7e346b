package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
)

const peerInsertBatch = 1000

var peerSchema = []string{
	`CREATE TABLE IF NOT EXISTS peer_datasets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	url TEXT NOT NULL,
	record_count INTEGER NOT NULL DEFAULT 0,
	synced_at TIMESTAMPTZ
)`,
	`CREATE TABLE IF NOT EXISTS peer_records (
	dataset_id TEXT NOT NULL REFERENCES peer_datasets (id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	gpa4 DOUBLE PRECISION NOT NULL,
	credits INTEGER NOT NULL,
	drl INTEGER NOT NULL,
	PRIMARY KEY (dataset_id, position)
)`,
}

type peerRecordRow struct {
	DatasetID string  `db:"dataset_id"`
	Position  int     `db:"position"`
	GPA4      float64 `db:"gpa4"`
	Credits   int     `db:"credits"`
	DRL       int     `db:"drl"`
}

// PeerDatasetRepository stores the last fetched copy of each cohort sheet so rankings keep
// working while the sheet host is unreachable.
type PeerDatasetRepository struct {
	db *sqlx.DB
}

// NewPeerDatasetRepository constructs the repository.
func NewPeerDatasetRepository(db *sqlx.DB) *PeerDatasetRepository {
	return &PeerDatasetRepository{db: db}
}

// EnsureSchema creates the dataset tables when missing.
func (r *PeerDatasetRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range peerSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure peer schema: %w", err)
		}
	}
	return nil
}

// ListSyncStatus returns every stored dataset with its record count and last sync time.
func (r *PeerDatasetRepository) ListSyncStatus(ctx context.Context) ([]models.PeerDataset, error) {
	const query = `SELECT id, name, url, record_count, synced_at FROM peer_datasets ORDER BY id`
	var datasets []models.PeerDataset
	if err := r.db.SelectContext(ctx, &datasets, query); err != nil {
		return nil, fmt.Errorf("list peer datasets: %w", err)
	}
	return datasets, nil
}

// Records returns the stored cohort in sheet order. An unknown dataset yields an empty slice.
func (r *PeerDatasetRepository) Records(ctx context.Context, datasetID string) ([]grading.PeerRecord, error) {
	const query = `SELECT gpa4, credits, drl FROM peer_records WHERE dataset_id = $1 ORDER BY position`
	var records []grading.PeerRecord
	if err := r.db.SelectContext(ctx, &records, query, datasetID); err != nil {
		return nil, fmt.Errorf("list peer records: %w", err)
	}
	return records, nil
}

// ReplaceRecords swaps the stored cohort for dataset in one transaction and stamps the sync.
func (r *PeerDatasetRepository) ReplaceRecords(ctx context.Context, dataset models.PeerDataset, records []grading.PeerRecord) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin peer sync: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	syncedAt := time.Now().UTC()
	const upsert = `INSERT INTO peer_datasets (id, name, url, record_count, synced_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, url = EXCLUDED.url, record_count = EXCLUDED.record_count, synced_at = EXCLUDED.synced_at`
	if _, err = tx.ExecContext(ctx, upsert, dataset.ID, dataset.Name, dataset.URL, len(records), syncedAt); err != nil {
		return fmt.Errorf("upsert peer dataset: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM peer_records WHERE dataset_id = $1`, dataset.ID); err != nil {
		return fmt.Errorf("clear peer records: %w", err)
	}

	const insert = `INSERT INTO peer_records (dataset_id, position, gpa4, credits, drl) VALUES (:dataset_id, :position, :gpa4, :credits, :drl)`
	for start := 0; start < len(records); start += peerInsertBatch {
		end := start + peerInsertBatch
		if end > len(records) {
			end = len(records)
		}
		rows := make([]peerRecordRow, 0, end-start)
		for i := start; i < end; i++ {
			rec := records[i]
			rows = append(rows, peerRecordRow{DatasetID: dataset.ID, Position: i, GPA4: rec.GPA4, Credits: rec.Credits, DRL: rec.DRL})
		}
		if _, err = tx.NamedExecContext(ctx, insert, rows); err != nil {
			return fmt.Errorf("insert peer records: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit peer sync: %w", err)
	}
	return nil
}
