package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	appErrors "github.com/noah-isme/hub-grade-planner/pkg/errors"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
	"github.com/noah-isme/hub-grade-planner/pkg/jobs"
	"github.com/noah-isme/hub-grade-planner/pkg/textnorm"
)

type peerStore interface {
	ListSyncStatus(ctx context.Context) ([]models.PeerDataset, error)
	Records(ctx context.Context, datasetID string) ([]grading.PeerRecord, error)
	ReplaceRecords(ctx context.Context, dataset models.PeerDataset, records []grading.PeerRecord) error
}

type peerFetcher interface {
	Fetch(ctx context.Context, url string) ([]grading.PeerRecord, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// PeerServiceParams groups constructor dependencies. Store, Cache and Queue are optional.
type PeerServiceParams struct {
	Datasets  []models.PeerDataset
	Store     peerStore
	Fetcher   peerFetcher
	Cache     jsonCache
	Queue     jobDispatcher
	Metrics   *MetricsService
	CacheTTL  time.Duration
	Policy    grading.Policy
	Validator *validator.Validate
	Logger    *zap.Logger
}

// PeerService serves historical cohorts and places students inside them.
type PeerService struct {
	datasets  []models.PeerDataset
	store     peerStore
	fetcher   peerFetcher
	cache     jsonCache
	queue     jobDispatcher
	metrics   *MetricsService
	cacheTTL  time.Duration
	policy    grading.Policy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeerService constructs a PeerService.
func NewPeerService(params PeerServiceParams) *PeerService {
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	policy := params.Policy
	if policy.Version == "" {
		policy = grading.DefaultPolicy
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeerService{
		datasets:  append([]models.PeerDataset(nil), params.Datasets...),
		store:     params.Store,
		fetcher:   params.Fetcher,
		cache:     params.Cache,
		queue:     params.Queue,
		metrics:   params.Metrics,
		cacheTTL:  ttl,
		policy:    policy,
		validator: newValidator(params.Validator),
		logger:    logger,
	}
}

// SetQueue attaches the sync queue once it exists; the queue handler itself calls back into
// the service.
func (s *PeerService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Datasets lists the configured cohorts with the sync state recorded in the store.
func (s *PeerService) Datasets(ctx context.Context) ([]models.PeerDataset, error) {
	result := append([]models.PeerDataset(nil), s.datasets...)
	if s.store == nil {
		return result, nil
	}
	start := time.Now()
	stored, err := s.store.ListSyncStatus(ctx)
	s.metrics.ObserveDBQuery("peer_datasets_list", time.Since(start))
	if err != nil {
		s.logger.Warn("list peer sync status failed", zap.Error(err))
		return result, nil
	}
	byID := make(map[string]models.PeerDataset, len(stored))
	for _, ds := range stored {
		byID[ds.ID] = ds
	}
	for i := range result {
		if ds, ok := byID[result[i].ID]; ok {
			result[i].RecordCount = ds.RecordCount
			result[i].SyncedAt = ds.SyncedAt
		}
	}
	return result, nil
}

// Resolve picks the dataset for an id or a free-text hint such as a semester name. An exact
// id wins; otherwise a first-term hint selects the first hk1 dataset and a second-term hint
// the first hk2 dataset; anything else falls back to the first configured dataset.
func (s *PeerService) Resolve(idOrName string) (models.PeerDataset, bool) {
	if len(s.datasets) == 0 {
		return models.PeerDataset{}, false
	}
	for _, ds := range s.datasets {
		if ds.ID == idOrName {
			return ds, true
		}
	}
	hint := textnorm.Fold(idOrName)
	switch {
	case containsAny(hint, "hoc ky 1", "hk1", "hk 1"):
		if ds, ok := s.firstWithPrefix("hk1"); ok {
			return ds, true
		}
	case containsAny(hint, "hoc ky 2", "hk2", "hk 2"):
		if ds, ok := s.firstWithPrefix("hk2"); ok {
			return ds, true
		}
	}
	return s.datasets[0], true
}

func (s *PeerService) firstWithPrefix(prefix string) (models.PeerDataset, bool) {
	for _, ds := range s.datasets {
		if strings.HasPrefix(strings.ToLower(ds.ID), prefix) {
			return ds, true
		}
	}
	return models.PeerDataset{}, false
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func (s *PeerService) dataset(id string) (models.PeerDataset, error) {
	for _, ds := range s.datasets {
		if ds.ID == id {
			return ds, nil
		}
	}
	return models.PeerDataset{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("peer dataset %q not found", id))
}

// Cohort returns the records of dataset id from the cache, then the store, then the
// published sheet. A fresh download is written back to both.
func (s *PeerService) Cohort(ctx context.Context, id string) ([]grading.PeerRecord, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return nil, err
	}

	key := cacheKey("peers", ds.ID)
	if s.cache != nil {
		var cached []grading.PeerRecord
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	if s.store != nil {
		start := time.Now()
		records, err := s.store.Records(ctx, ds.ID)
		s.metrics.ObserveDBQuery("peer_records_select", time.Since(start))
		if err != nil {
			s.logger.Warn("load stored cohort failed", zap.String("dataset", ds.ID), zap.Error(err))
		} else if len(records) > 0 {
			s.remember(ctx, key, records)
			return records, nil
		}
	}

	records, err := s.download(ctx, ds)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDatasetUnavailable.Code, appErrors.ErrDatasetUnavailable.Status, appErrors.ErrDatasetUnavailable.Message)
	}
	return records, nil
}

// Sync downloads dataset id regardless of what is cached and returns the record count.
func (s *PeerService) Sync(ctx context.Context, id string) (int, error) {
	ds, err := s.dataset(id)
	if err != nil {
		return 0, err
	}
	records, err := s.download(ctx, ds)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *PeerService) download(ctx context.Context, ds models.PeerDataset) ([]grading.PeerRecord, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("no sheet fetcher configured")
	}
	records, err := s.fetcher.Fetch(ctx, ds.URL)
	s.metrics.RecordPeerFetch(ds.ID, err == nil)
	if err != nil {
		s.logger.Warn("peer sheet fetch failed", zap.String("dataset", ds.ID), zap.Error(err))
		return nil, err
	}

	if s.store != nil {
		start := time.Now()
		err := s.store.ReplaceRecords(ctx, ds, records)
		s.metrics.ObserveDBQuery("peer_records_replace", time.Since(start))
		if err != nil {
			s.logger.Warn("persist cohort failed", zap.String("dataset", ds.ID), zap.Error(err))
		}
	}
	s.remember(ctx, cacheKey("peers", ds.ID), records)
	s.invalidateRankedSummaries(ctx)
	s.logger.Info("peer dataset synced", zap.String("dataset", ds.ID), zap.Int("records", len(records)))
	return records, nil
}

func (s *PeerService) remember(ctx context.Context, key string, records []grading.PeerRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, records, s.cacheTTL); err != nil {
		s.logger.Debug("cohort cache write skipped", zap.String("key", key), zap.Error(err))
	}
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// invalidateRankedSummaries drops cached dashboards that embed rank forecasts, since a new
// cohort changes them.
func (s *PeerService) invalidateRankedSummaries(ctx context.Context) {
	inv, ok := s.cache.(cacheInvalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(ctx, cacheKey("summary", "*", "true", "*")); err != nil {
		s.logger.Debug("ranked summary invalidation skipped", zap.Error(err))
	}
}

// HandleSyncJob is the queue handler for dataset refresh jobs.
func (s *PeerService) HandleSyncJob(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("sync job %s: unexpected payload %T", job.ID, job.Payload)
	}
	_, err := s.Sync(ctx, id)
	return err
}

// EnqueueSync schedules a refresh of dataset id on the background queue.
func (s *PeerService) EnqueueSync(id string) (*dto.PeerSyncResponse, error) {
	if _, err := s.dataset(id); err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, appErrors.ErrQueueUnavailable
	}
	job := jobs.Job{ID: uuid.NewString(), Type: models.PeerSyncJobType, Payload: id}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrQueueUnavailable.Code, appErrors.ErrQueueUnavailable.Status, appErrors.ErrQueueUnavailable.Message)
	}
	return &dto.PeerSyncResponse{DatasetID: id, JobID: job.ID}, nil
}

// EnqueueAll schedules a refresh of every configured dataset.
func (s *PeerService) EnqueueAll() error {
	for _, ds := range s.datasets {
		if _, err := s.EnqueueSync(ds.ID); err != nil {
			return err
		}
	}
	return nil
}

// Forecast ranks an explicit record or a snapshot semester. A semester contributes its 4-point
// GPA, graded credits and training score, and its name picks the dataset when none is given.
func (s *PeerService) Forecast(ctx context.Context, req dto.RankForecastRequest) (*dto.RankForecastResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}
	switch {
	case req.Semester != nil:
		sem := req.Semester.ToModel()
		user, ok := s.semesterRecord(sem)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "semester has no graded subject to rank")
		}
		hint := req.Dataset
		if hint == "" {
			hint = sem.Name
		}
		return s.rank(ctx, hint, user)
	case req.User != nil:
		user := grading.PeerRecord{GPA4: req.User.GPA4, Credits: req.User.Credits, DRL: req.User.DRL}
		return s.rank(ctx, req.Dataset, user)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "either user or semester is required")
	}
}

// ForecastSemester ranks one semester against the dataset its name points to.
func (s *PeerService) ForecastSemester(ctx context.Context, sem grading.Semester) (*dto.RankForecastResponse, error) {
	user, ok := s.semesterRecord(sem)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester has no graded subject to rank")
	}
	return s.rank(ctx, sem.Name, user)
}

// semesterRecord turns a semester into a cohort row. A missing training score counts as 0.
func (s *PeerService) semesterRecord(sem grading.Semester) (grading.PeerRecord, bool) {
	stats := s.policy.Aggregate(sem.Subjects)
	if !stats.HasData {
		return grading.PeerRecord{}, false
	}
	record := grading.PeerRecord{GPA4: stats.GPA4, Credits: stats.TotalCreditsWithGrade}
	if sem.TrainingScore != nil {
		record.DRL = *sem.TrainingScore
	}
	return record, true
}

func (s *PeerService) rank(ctx context.Context, hint string, user grading.PeerRecord) (*dto.RankForecastResponse, error) {
	ds, ok := s.Resolve(hint)
	if !ok {
		return nil, appErrors.ErrDatasetUnavailable
	}
	cohort, err := s.Cohort(ctx, ds.ID)
	if err != nil {
		return nil, err
	}
	ds.RecordCount = len(cohort)
	s.metrics.RecordRankForecast()
	return &dto.RankForecastResponse{
		Dataset:  ds,
		User:     user,
		Forecast: grading.ForecastRank(user, cohort),
	}, nil
}
