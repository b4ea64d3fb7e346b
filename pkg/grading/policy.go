package grading

import (
	"fmt"
	"math"
)

// Tier is a descending classification band shared by academic standing and training score.
type Tier string

const (
	TierExcellent Tier = "EXCELLENT"
	TierGood      Tier = "GOOD"
	TierFair      Tier = "FAIR"
	TierAverage   Tier = "AVERAGE"
	TierWeak      Tier = "WEAK"
	TierPoor      Tier = "POOR"
)

var tierRank = map[Tier]int{
	TierPoor:      0,
	TierWeak:      1,
	TierAverage:   2,
	TierFair:      3,
	TierGood:      4,
	TierExcellent: 5,
}

// AtLeast reports whether t ranks the same as or above other. Unknown tiers rank below
// everything.
func (t Tier) AtLeast(other Tier) bool {
	rank, ok := tierRank[t]
	if !ok {
		return false
	}
	return rank >= tierRank[other]
}

// RewardTier is the honour title a semester can earn.
type RewardTier string

const (
	RewardExcellentStudent RewardTier = "EXCELLENT_STUDENT"
	RewardGoodStudent      RewardTier = "GOOD_STUDENT"
	RewardFairStudent      RewardTier = "FAIR_STUDENT"
)

// Difficulty grades how hard a target forecast is to meet.
type Difficulty string

const (
	DifficultyChallenging Difficulty = "CHALLENGING"
	DifficultyDemanding   Difficulty = "DEMANDING"
	DifficultyAchievable  Difficulty = "ACHIEVABLE"
	DifficultyComfortable Difficulty = "COMFORTABLE"
	DifficultyUnreachable Difficulty = "UNREACHABLE"
)

// ComponentWeights are the fractions each score component contributes to a subject average.
type ComponentWeights struct {
	Attendance float64 `json:"attendance"`
	Process    float64 `json:"process"`
	Midterm    float64 `json:"midterm"`
	Final      float64 `json:"final"`
}

// Sum returns the total weight.
func (w ComponentWeights) Sum() float64 {
	return w.Attendance + w.Process + w.Midterm + w.Final
}

// ScaleStep is one rung of the 10-point to letter/4-point ladder.
type ScaleStep struct {
	Min    float64 `json:"min"`
	Scale4 float64 `json:"scale4"`
	Letter string  `json:"letter"`
}

// Threshold maps a lower bound to a tier.
type Threshold struct {
	Min  float64 `json:"min"`
	Tier Tier    `json:"tier"`
}

// RewardRule lists the minimum academic and training tiers for a reward.
type RewardRule struct {
	Reward      RewardTier `json:"reward"`
	MinDegree   Tier       `json:"min_degree"`
	MinTraining Tier       `json:"min_training"`
}

// DifficultyStep applies when the required GPA is strictly above Above.
type DifficultyStep struct {
	Above      float64    `json:"above"`
	Difficulty Difficulty `json:"difficulty"`
}

// ScholarshipRule is the cumulative merit-scholarship screen.
type ScholarshipRule struct {
	MinGPA4     float64 `json:"min_gpa4"`
	MinTraining int     `json:"min_training"`
}

// Policy holds every threshold of one published grading regulation. Changing the policy
// means building a new Policy value; no rule is hard-coded elsewhere.
type Policy struct {
	Version                string           `json:"version"`
	Weights                ComponentWeights `json:"weights"`
	Scale                  []ScaleStep      `json:"scale"`
	FailingGrade           ScaleStep        `json:"failing_grade"`
	PassThreshold          float64          `json:"pass_threshold"`
	ImproveThreshold       float64          `json:"improve_threshold"`
	DegreeTiers            []Threshold      `json:"degree_tiers"`
	TrainingTiers          []Threshold      `json:"training_tiers"`
	FloorTier              Tier             `json:"floor_tier"`
	RewardRules            []RewardRule     `json:"reward_rules"`
	RewardMinCredits       int              `json:"reward_min_credits"`
	RewardMinSubjectScale4 float64          `json:"reward_min_subject_scale4"`
	TrendThreshold         float64          `json:"trend_threshold"`
	MaxGPA4                float64          `json:"max_gpa4"`
	DifficultySteps        []DifficultyStep `json:"difficulty_steps"`
	Scholarship            ScholarshipRule  `json:"scholarship"`
}

// DefaultPolicy is the HUB credit-system regulation in force since the 2024 intake.
var DefaultPolicy = Policy{
	Version: "HUB-2024.1",
	Weights: ComponentWeights{Attendance: 0.1, Process: 0.2, Midterm: 0.2, Final: 0.5},
	Scale: []ScaleStep{
		{Min: 9.5, Scale4: 4.0, Letter: "A+"},
		{Min: 9.0, Scale4: 3.7, Letter: "A"},
		{Min: 8.5, Scale4: 3.4, Letter: "A-"},
		{Min: 8.0, Scale4: 3.2, Letter: "B+"},
		{Min: 7.5, Scale4: 3.0, Letter: "B"},
		{Min: 7.0, Scale4: 2.8, Letter: "B-"},
		{Min: 6.5, Scale4: 2.6, Letter: "C+"},
		{Min: 6.0, Scale4: 2.4, Letter: "C"},
		{Min: 5.5, Scale4: 2.2, Letter: "C-"},
		{Min: 5.0, Scale4: 2.0, Letter: "D+"},
		{Min: 4.5, Scale4: 1.8, Letter: "D"},
		{Min: 4.0, Scale4: 1.6, Letter: "D-"},
	},
	FailingGrade:     ScaleStep{Min: 0, Scale4: 0.0, Letter: "F"},
	PassThreshold:    4.0,
	ImproveThreshold: 5.5,
	DegreeTiers: []Threshold{
		{Min: 3.6, Tier: TierExcellent},
		{Min: 3.2, Tier: TierGood},
		{Min: 2.5, Tier: TierFair},
		{Min: 2.0, Tier: TierAverage},
		{Min: 1.0, Tier: TierWeak},
	},
	TrainingTiers: []Threshold{
		{Min: 90, Tier: TierExcellent},
		{Min: 80, Tier: TierGood},
		{Min: 65, Tier: TierFair},
		{Min: 50, Tier: TierAverage},
		{Min: 35, Tier: TierWeak},
	},
	FloorTier: TierPoor,
	RewardRules: []RewardRule{
		{Reward: RewardExcellentStudent, MinDegree: TierExcellent, MinTraining: TierGood},
		{Reward: RewardGoodStudent, MinDegree: TierGood, MinTraining: TierGood},
		{Reward: RewardFairStudent, MinDegree: TierFair, MinTraining: TierFair},
	},
	RewardMinCredits:       14,
	RewardMinSubjectScale4: 2.0,
	TrendThreshold:         0.2,
	MaxGPA4:                4.0,
	DifficultySteps: []DifficultyStep{
		{Above: 3.6, Difficulty: DifficultyChallenging},
		{Above: 3.2, Difficulty: DifficultyDemanding},
		{Above: 2.5, Difficulty: DifficultyAchievable},
	},
	Scholarship: ScholarshipRule{MinGPA4: 3.2, MinTraining: 80},
}

// Validate checks the structural invariants the calculations rely on.
func (p Policy) Validate() error {
	if math.Abs(p.Weights.Sum()-1) > 1e-9 {
		return fmt.Errorf("component weights sum to %.4f, want 1", p.Weights.Sum())
	}
	if len(p.Scale) == 0 {
		return fmt.Errorf("grade scale is empty")
	}
	for i := 1; i < len(p.Scale); i++ {
		if p.Scale[i].Min >= p.Scale[i-1].Min {
			return fmt.Errorf("grade scale not descending at %s", p.Scale[i].Letter)
		}
		if p.Scale[i].Scale4 > p.Scale[i-1].Scale4 {
			return fmt.Errorf("4-point value increases at %s", p.Scale[i].Letter)
		}
	}
	if err := validateThresholds("degree", p.DegreeTiers); err != nil {
		return err
	}
	if err := validateThresholds("training", p.TrainingTiers); err != nil {
		return err
	}
	if p.ImproveThreshold < p.PassThreshold {
		return fmt.Errorf("improve threshold %.1f below pass threshold %.1f", p.ImproveThreshold, p.PassThreshold)
	}
	for _, rule := range p.RewardRules {
		if _, ok := tierRank[rule.MinDegree]; !ok {
			return fmt.Errorf("reward %s: unknown degree tier %q", rule.Reward, rule.MinDegree)
		}
		if _, ok := tierRank[rule.MinTraining]; !ok {
			return fmt.Errorf("reward %s: unknown training tier %q", rule.Reward, rule.MinTraining)
		}
	}
	return nil
}

func validateThresholds(name string, tiers []Threshold) error {
	for i, t := range tiers {
		if _, ok := tierRank[t.Tier]; !ok {
			return fmt.Errorf("%s tiers: unknown tier %q", name, t.Tier)
		}
		if i > 0 && t.Min >= tiers[i-1].Min {
			return fmt.Errorf("%s tiers not descending at %s", name, t.Tier)
		}
	}
	return nil
}
