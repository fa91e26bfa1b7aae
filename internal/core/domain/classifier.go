package domain

import (
	"strings"
	"time"
)

type TrainingStatus string

const (
	TrainingStatusNotBegun  TrainingStatus = "not_begun"
	TrainingStatusTraining  TrainingStatus = "training"
	TrainingStatusCompleted TrainingStatus = "completed"
	TrainingStatusError     TrainingStatus = "error"
)

// Classifier is a user-defined text classifier. Its lifecycle is driven by
// the presence and state of its labeled sets: a classifier with no train set
// has not begun training, one with an incomplete train set is training.
type Classifier struct {
	ID                   int64     `json:"classifier_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	Name                 string    `json:"name"`
	CategoryNames        []string  `json:"category_names"`
	NotifyAtEmail        string    `json:"notify_at_email"`
	TrainedByOpenFraming bool      `json:"trained_by_openFraming"`

	TrainSet *LabeledSet `json:"train_set"`
	DevSet   *LabeledSet `json:"dev_set"`
}

// LabeledSet tracks the lifecycle of one labeled split (train or dev).
type LabeledSet struct {
	ID                           int64     `json:"id"`
	CreatedAt                    time.Time `json:"created_at"`
	UpdatedAt                    time.Time `json:"updated_at"`
	TrainingOrInferenceCompleted bool      `json:"training_or_inference_completed"`
	ErrorEncountered             bool      `json:"error_encountered"`
	ErrorMessage                 string    `json:"error_message"`
	Metrics                      *Metrics  `json:"metrics"`
}

// Metrics holds dev-set evaluation results, produced once training finishes.
type Metrics struct {
	Accuracy       float64 `json:"accuracy"`
	MacroPrecision float64 `json:"macro_precision"`
	MacroRecall    float64 `json:"macro_recall"`
	MacroF1Score   float64 `json:"macro_f1_score"`
}

func (c *Classifier) TrainingStatus() TrainingStatus {
	if c.TrainSet == nil {
		return TrainingStatusNotBegun
	}
	if c.TrainSet.ErrorEncountered {
		return TrainingStatusError
	}
	if c.TrainSet.TrainingOrInferenceCompleted {
		return TrainingStatusCompleted
	}
	return TrainingStatusTraining
}

// DevMetrics returns the dev-set metrics when training completed, nil otherwise.
func (c *Classifier) DevMetrics() *Metrics {
	if c.TrainingStatus() != TrainingStatusCompleted || c.DevSet == nil {
		return nil
	}
	return c.DevSet.Metrics
}

func ValidateCategoryNames(names []string) error {
	if len(names) < 2 {
		return ErrTooFewCategories
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return ErrInvalidCategoryName
		}
		if strings.Contains(n, ",") {
			return ErrInvalidCategoryName
		}
		if seen[n] {
			return ErrDuplicateCategoryName
		}
		seen[n] = true
	}
	return nil
}
