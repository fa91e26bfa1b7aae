package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeClassifierTraining   JobType = "classifier_training"
	JobTypeClassifierPrediction JobType = "classifier_prediction"
	JobTypeTopicModelTraining   JobType = "topic_model_training"
)

// Job is the envelope pushed onto the background queue. Exactly one of the
// entity ID fields is meaningful for a given type.
type Job struct {
	ID           uuid.UUID `json:"id"`
	Type         JobType   `json:"type"`
	ClassifierID int64     `json:"classifier_id,omitempty"`
	TestSetID    int64     `json:"test_set_id,omitempty"`
	TopicModelID int64     `json:"topic_model_id,omitempty"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

func NewTrainingJob(classifierID int64) *Job {
	return &Job{
		ID:           uuid.New(),
		Type:         JobTypeClassifierTraining,
		ClassifierID: classifierID,
		EnqueuedAt:   time.Now(),
	}
}

func NewPredictionJob(classifierID, testSetID int64) *Job {
	return &Job{
		ID:           uuid.New(),
		Type:         JobTypeClassifierPrediction,
		ClassifierID: classifierID,
		TestSetID:    testSetID,
		EnqueuedAt:   time.Now(),
	}
}

func NewTopicModelJob(topicModelID int64) *Job {
	return &Job{
		ID:           uuid.New(),
		Type:         JobTypeTopicModelTraining,
		TopicModelID: topicModelID,
		EnqueuedAt:   time.Now(),
	}
}
