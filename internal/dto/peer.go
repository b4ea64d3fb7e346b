package dto

import (
	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
)

// PeerRecordInput is an explicit student position to rank.
type PeerRecordInput struct {
	GPA4    float64 `json:"gpa4" validate:"min=0,max=4"`
	Credits int     `json:"credits" validate:"min=0,max=60"`
	DRL     int     `json:"drl" validate:"min=0,max=100"`
}

// RankForecastRequest ranks either an explicit record or a semester from the snapshot.
// Dataset may be a dataset id or free text such as a semester name.
type RankForecastRequest struct {
	Dataset  string           `json:"dataset" validate:"max=200"`
	User     *PeerRecordInput `json:"user"`
	Semester *SemesterInput   `json:"semester"`
}

// RankForecastResponse is the forecast plus the record and dataset it was computed against.
type RankForecastResponse struct {
	Dataset  models.PeerDataset   `json:"dataset"`
	User     grading.PeerRecord   `json:"user"`
	Forecast grading.RankForecast `json:"forecast"`
}

// PeerSyncResponse acknowledges a queued dataset refresh.
type PeerSyncResponse struct {
	DatasetID string `json:"dataset_id"`
	JobID     string `json:"job_id"`
}
