package dto

// ExportRequest asks for a transcript rendering of the snapshot.
type ExportRequest struct {
	Snapshot SnapshotRequest `json:"snapshot"`
	Format   string          `json:"format" validate:"required,oneof=csv pdf"`
}
