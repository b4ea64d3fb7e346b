package models

import "time"

// PeerDataset is a published cohort sheet used for rank forecasts.
type PeerDataset struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	URL         string     `db:"url" json:"url"`
	RecordCount int        `db:"record_count" json:"record_count"`
	SyncedAt    *time.Time `db:"synced_at" json:"synced_at,omitempty"`
}

// PeerSyncJobType tags dataset refresh jobs on the background queue.
const PeerSyncJobType = "peer_dataset_sync"
