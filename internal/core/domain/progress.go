package domain

import "time"

type ProgressScope string

const (
	ProgressScopeClassifier ProgressScope = "classifier"
	ProgressScopeTestSet    ProgressScope = "test_set"
	ProgressScopeTopicModel ProgressScope = "topic_model"
)

type ProgressStage string

const (
	StageNotStarted    ProgressStage = "not_started"
	StageQueued        ProgressStage = "queued"
	StageLoadingData   ProgressStage = "loading_data"
	StageTraining      ProgressStage = "training"
	StageEvaluating    ProgressStage = "evaluating"
	StagePredicting    ProgressStage = "predicting"
	StageSampling      ProgressStage = "sampling"
	StageWritingOutput ProgressStage = "writing_output"
	StageDone          ProgressStage = "done"
	StageFailed        ProgressStage = "failed"
)

// Progress is a live snapshot of a background job, keyed by the entity it
// works on. Percent runs 0-100.
type Progress struct {
	Scope     ProgressScope `json:"scope"`
	EntityID  int64         `json:"entity_id"`
	Percent   float64       `json:"progress"`
	Stage     ProgressStage `json:"stage"`
	Message   string        `json:"message,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}
