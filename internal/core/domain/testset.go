package domain

import "time"

// TestSet is an unlabeled data set uploaded against a trained classifier.
// Predictions for it are produced by a background inference job.
type TestSet struct {
	ID                 int64     `json:"test_set_id"`
	ClassifierID       int64     `json:"classifier_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Name               string    `json:"name"`
	NotifyAtEmail      string    `json:"notify_at_email"`
	InferenceBegan     bool      `json:"inference_began"`
	InferenceCompleted bool      `json:"inference_completed"`
	ErrorEncountered   bool      `json:"error_encountered"`
	ErrorMessage       string    `json:"error_message"`
}

type InferenceStatus string

const (
	InferenceStatusNotBegun  InferenceStatus = "not_begun"
	InferenceStatusRunning   InferenceStatus = "predicting"
	InferenceStatusCompleted InferenceStatus = "completed"
	InferenceStatusError     InferenceStatus = "error"
)

func (t *TestSet) Status() InferenceStatus {
	switch {
	case t.ErrorEncountered:
		return InferenceStatusError
	case t.InferenceCompleted:
		return InferenceStatusCompleted
	case t.InferenceBegan:
		return InferenceStatusRunning
	default:
		return InferenceStatusNotBegun
	}
}
