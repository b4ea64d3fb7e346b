package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/hub-grade-planner/internal/dto"
	"github.com/noah-isme/hub-grade-planner/internal/models"
	"github.com/noah-isme/hub-grade-planner/pkg/grading"
)

type jsonCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type semesterRanker interface {
	ForecastSemester(ctx context.Context, sem grading.Semester) (*dto.RankForecastResponse, error)
}

type creditCatalog interface {
	RequiredCredits(program, major, specialization string) (int, error)
}

// PlannerConfig carries the defaults for new snapshots.
type PlannerConfig struct {
	Years               int
	DefaultTotalCredits int
	DefaultTargetGPA    float64
	SummaryCacheTTL     time.Duration
}

// PlannerServiceParams groups constructor dependencies.
type PlannerServiceParams struct {
	Policy    grading.Policy
	Config    PlannerConfig
	Cache     jsonCache
	Ranker    semesterRanker
	Catalog   creditCatalog
	Validator *validator.Validate
	Logger    *zap.Logger
}

// PlannerService grades snapshots and builds the dashboard summary.
type PlannerService struct {
	policy    grading.Policy
	cfg       PlannerConfig
	cache     jsonCache
	ranker    semesterRanker
	catalog   creditCatalog
	validator *validator.Validate
	logger    *zap.Logger
	newID     func() string
}

// NewPlannerService constructs a PlannerService. A zero Policy falls back to the default
// regulation.
func NewPlannerService(params PlannerServiceParams) *PlannerService {
	policy := params.Policy
	if policy.Version == "" {
		policy = grading.DefaultPolicy
	}
	cfg := params.Config
	if cfg.Years <= 0 {
		cfg.Years = 4
	}
	if cfg.DefaultTotalCredits <= 0 {
		cfg.DefaultTotalCredits = 125
	}
	if cfg.DefaultTargetGPA <= 0 {
		cfg.DefaultTargetGPA = 3.2
	}
	if cfg.SummaryCacheTTL <= 0 {
		cfg.SummaryCacheTTL = 10 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		policy:    policy,
		cfg:       cfg,
		cache:     params.Cache,
		ranker:    params.Ranker,
		catalog:   params.Catalog,
		validator: newValidator(params.Validator),
		logger:    logger,
		newID:     func() string { return uuid.NewString() },
	}
}

// Policy returns the grading regulation in force.
func (s *PlannerService) Policy() grading.Policy {
	return s.policy
}

// Template returns the blank planner: two regular terms for every programme year.
func (s *PlannerService) Template() models.Snapshot {
	semesters := make([]grading.Semester, 0, s.cfg.Years*2)
	for year := 1; year <= s.cfg.Years; year++ {
		for term := 1; term <= 2; term++ {
			semesters = append(semesters, grading.Semester{
				ID:       fmt.Sprintf("y%d_hk%d", year, term),
				Name:     fmt.Sprintf("Năm %d - Học kỳ %d", year, term),
				Term:     &grading.Term{Year: year, Index: term},
				Subjects: []grading.Subject{},
			})
		}
	}
	return models.Snapshot{
		Semesters:            semesters,
		TargetGPA:            s.cfg.DefaultTargetGPA,
		TotalCreditsRequired: s.cfg.DefaultTotalCredits,
	}
}

// Normalize validates a client snapshot and fills what an older or partial client left out.
func (s *PlannerService) Normalize(ctx context.Context, req dto.SnapshotRequest) (*models.Snapshot, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}
	snapshot := s.normalize(req.ToModel())
	return &snapshot, nil
}

func (s *PlannerService) normalize(snapshot models.Snapshot) models.Snapshot {
	if snapshot.Semesters == nil {
		snapshot.Semesters = s.Template().Semesters
	}
	if snapshot.TargetGPA <= 0 {
		snapshot.TargetGPA = s.cfg.DefaultTargetGPA
	}
	if snapshot.TotalCreditsRequired <= 0 {
		snapshot.TotalCreditsRequired = s.requiredCredits(snapshot)
	}
	for i := range snapshot.Semesters {
		sem := &snapshot.Semesters[i]
		if sem.ID == "" {
			sem.ID = s.newID()
		}
		if sem.Subjects == nil {
			sem.Subjects = []grading.Subject{}
		}
		for j := range sem.Subjects {
			if sem.Subjects[j].ID == "" {
				sem.Subjects[j].ID = s.newID()
			}
		}
	}
	inferTerms(snapshot.Semesters)
	return snapshot
}

// requiredCredits looks the chosen specialization up in the catalogue and falls back to the
// configured default.
func (s *PlannerService) requiredCredits(snapshot models.Snapshot) int {
	if s.catalog != nil && snapshot.SpecializationName != "" {
		credits, err := s.catalog.RequiredCredits(snapshot.ProgramName, snapshot.MajorName, snapshot.SpecializationName)
		if err == nil && credits > 0 {
			return credits
		}
	}
	return s.cfg.DefaultTotalCredits
}

// GradeSubject grades a single subject.
func (s *PlannerService) GradeSubject(ctx context.Context, req dto.GradeSubjectRequest) (*dto.GradeSubjectResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}
	subject := grading.Subject{Credits: req.Credits, Scores: req.Scores.ToModel(), ExcludedFromGPA: req.ExcludedFromGPA}
	resp := &dto.GradeSubjectResponse{ExcludedFromGPA: req.ExcludedFromGPA}
	grade, ok := s.policy.Grade(subject)
	if ok {
		resp.Grade = &grade
	}
	resp.Status = s.policy.SubjectStatus(grade.Average10, ok)
	return resp, nil
}

// Forecast solves the target forecast for explicit inputs.
func (s *PlannerService) Forecast(ctx context.Context, req dto.ForecastRequest) (*dto.ForecastResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, validationError(err)
	}
	resp := s.targetForecast(req.CurrentGPA4, req.PassedCredits, req.TotalCreditsRequired, req.TargetGPA)
	return &resp, nil
}

func (s *PlannerService) targetForecast(current float64, passed, total int, target float64) dto.ForecastResponse {
	resp := dto.ForecastResponse{TargetGPA: target, MeetsTarget: current >= target}
	forecast, ok := s.policy.RequiredFutureGPA(current, passed, total, target)
	if !ok {
		resp.Completed = true
		return resp
	}
	resp.Forecast = &forecast
	resp.Difficulty = s.policy.Difficulty(forecast)
	return resp
}

// Summary validates the snapshot and returns its dashboard, reporting whether it came from
// cache.
func (s *PlannerService) Summary(ctx context.Context, req dto.SummaryRequest) (*dto.SummaryResponse, bool, error) {
	snapshot, err := s.Normalize(ctx, req.Snapshot)
	if err != nil {
		return nil, false, err
	}

	// Keyed on the request; normalization mints fresh ids for id-less semesters and subjects.
	var key string
	if s.cache != nil {
		if hash, err := contentKey(req.Snapshot); err == nil {
			key = cacheKey("summary", s.policy.Version, strconv.FormatBool(req.IncludeRanking), hash)
		}
	}
	if key != "" {
		var cached dto.SummaryResponse
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	summary := s.Summarize(ctx, *snapshot, req.IncludeRanking)
	if key != "" {
		if err := s.cache.Set(ctx, key, summary, s.cfg.SummaryCacheTTL); err != nil {
			s.logger.Debug("summary cache write skipped", zap.Error(err))
		}
	}
	return summary, false, nil
}

// Summarize computes the dashboard for an already normalized snapshot. Ranking is attached
// per semester only when requested and a ranker is wired; a ranking failure leaves that
// semester unranked.
func (s *PlannerService) Summarize(ctx context.Context, snapshot models.Snapshot, includeRanking bool) *dto.SummaryResponse {
	p := s.policy
	resp := &dto.SummaryResponse{
		PolicyVersion:        p.Version,
		Cumulative:           p.CumulativeStats(snapshot.Semesters),
		TotalCreditsRequired: snapshot.TotalCreditsRequired,
		Semesters:            make([]dto.SemesterSummary, 0, len(snapshot.Semesters)),
		LetterDistribution:   map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0},
	}
	if resp.Cumulative.HasData {
		resp.Classification = p.DegreeClassification(resp.Cumulative.GPA4)
	}

	var (
		allSubjects   []grading.Subject
		ordered       = make([]grading.AggregateStats, 0, len(snapshot.Semesters))
		trainingSum   int
		trainingCount int
	)
	for _, sem := range snapshot.Semesters {
		row := s.semesterSummary(ctx, sem, includeRanking)
		resp.Semesters = append(resp.Semesters, row)
		ordered = append(ordered, row.Stats)
		allSubjects = append(allSubjects, sem.Subjects...)

		if sem.TrainingScore != nil {
			trainingSum += *sem.TrainingScore
			trainingCount++
		}
		if row.Stats.HasData && (resp.BestSemester == nil || row.Stats.GPA4 > resp.BestSemester.GPA4) {
			resp.BestSemester = &dto.SemesterHighlight{ID: sem.ID, Name: sem.Name, GPA4: row.Stats.GPA4}
		}
		for _, sub := range row.Subjects {
			if sub.ExcludedFromGPA || sub.Grade == nil {
				continue
			}
			resp.LetterDistribution[sub.Grade.Letter[:1]]++
			if resp.HighestSubject == nil || sub.Grade.Average10 > resp.HighestSubject.Average10 {
				resp.HighestSubject = &dto.SubjectHighlight{
					SemesterID: sem.ID,
					SubjectID:  sub.ID,
					Name:       sub.Name,
					Average10:  sub.Grade.Average10,
					Letter:     sub.Grade.Letter,
				}
			}
		}
	}

	resp.RegisteredCredits = grading.RegisteredCredits(allSubjects)
	resp.FailedSubjects = p.FailedSubjects(allSubjects)
	resp.Trend = p.AnalyzeTrend(ordered)
	resp.Target = s.targetForecast(resp.Cumulative.GPA4, resp.Cumulative.PassedCredits, snapshot.TotalCreditsRequired, snapshot.TargetGPA)
	if snapshot.TotalCreditsRequired > 0 {
		progress := float64(resp.Cumulative.PassedCredits) / float64(snapshot.TotalCreditsRequired) * 100
		resp.ProgressPercent = math.Min(100, math.Round(progress*10)/10)
	}

	if trainingCount > 0 {
		avg := int(math.Round(float64(trainingSum) / float64(trainingCount)))
		resp.AverageTrainingScore = &avg
		resp.TrainingTier = p.TrainingClassification(avg)
		resp.ScholarshipEligible = p.ScholarshipEligible(resp.Cumulative, avg, resp.FailedSubjects)
	}

	years := p.YearlyStats(snapshot.Semesters, grading.TermYearKey(LegacyYearKey))
	resp.Years = make([]dto.YearSummary, 0, len(years))
	for _, year := range years {
		row := dto.YearSummary{YearStats: year}
		if year.HasData {
			row.Classification = p.DegreeClassification(year.GPA4)
		}
		resp.Years = append(resp.Years, row)
	}
	return resp
}

func (s *PlannerService) semesterSummary(ctx context.Context, sem grading.Semester, includeRanking bool) dto.SemesterSummary {
	p := s.policy
	row := dto.SemesterSummary{
		ID:                sem.ID,
		Name:              sem.Name,
		Term:              sem.Term,
		Stats:             p.Aggregate(sem.Subjects),
		RegisteredCredits: grading.RegisteredCredits(sem.Subjects),
		TrainingScore:     sem.TrainingScore,
		Subjects:          make([]dto.SubjectSummary, 0, len(sem.Subjects)),
	}
	if row.Stats.HasData {
		row.Classification = p.DegreeClassification(row.Stats.GPA4)
	}
	if sem.TrainingScore != nil {
		row.TrainingTier = p.TrainingClassification(*sem.TrainingScore)
	}
	if reward, ok := p.SemesterReward(sem); ok {
		row.Reward = reward
	}
	for _, sub := range sem.Subjects {
		entry := dto.SubjectSummary{ID: sub.ID, Name: sub.Name, Credits: sub.Credits, ExcludedFromGPA: sub.ExcludedFromGPA}
		grade, ok := p.Grade(sub)
		if ok {
			entry.Grade = &grade
		}
		entry.Status = p.SubjectStatus(grade.Average10, ok)
		row.Subjects = append(row.Subjects, entry)
	}

	if includeRanking && s.ranker != nil && row.Stats.HasData {
		ranking, err := s.ranker.ForecastSemester(ctx, sem)
		if err != nil {
			s.logger.Debug("semester ranking unavailable", zap.String("semester", sem.ID), zap.Error(err))
		} else {
			row.Ranking = ranking
		}
	}
	return row
}
