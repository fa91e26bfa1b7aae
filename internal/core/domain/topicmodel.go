package domain

import "time"

// Topic is one discovered topic: its top keywords and the share of the
// corpus assigned to it.
type Topic struct {
	Keywords   []string `json:"keywords"`
	Proportion float64  `json:"proportion"`
}

// TopicModel is an unsupervised LDA run over an uploaded corpus.
type TopicModel struct {
	ID               int64     `json:"topic_model_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Name             string    `json:"name"`
	NumTopics        int       `json:"num_topics"`
	Iterations       int       `json:"iterations"`
	NotifyAtEmail    string    `json:"notify_at_email"`
	TopicNames       []string  `json:"topic_names"`
	Topics           []Topic   `json:"topics"`
	TrainingBegan    bool      `json:"training_began"`
	LDACompleted     bool      `json:"lda_completed"`
	ErrorEncountered bool      `json:"error_encountered"`
	ErrorMessage     string    `json:"error_message"`
}

func (m *TopicModel) Status() TrainingStatus {
	switch {
	case m.ErrorEncountered:
		return TrainingStatusError
	case m.LDACompleted:
		return TrainingStatusCompleted
	case m.TrainingBegan:
		return TrainingStatusTraining
	default:
		return TrainingStatusNotBegun
	}
}
