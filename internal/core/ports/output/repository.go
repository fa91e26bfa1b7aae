package ports

import (
	"context"

	"openframing-service/internal/core/domain"
)

type ClassifierRepository interface {
	Create(ctx context.Context, clsf *domain.Classifier) error
	GetByID(ctx context.Context, id int64) (*domain.Classifier, error)
	List(ctx context.Context) ([]*domain.Classifier, error)
	Delete(ctx context.Context, id int64) error

	// AttachSets creates fresh train and dev labeled sets and links them to
	// the classifier; fails with ErrTrainingAlreadyBegun when sets exist.
	AttachSets(ctx context.Context, classifierID int64) error
	MarkTrainingCompleted(ctx context.Context, classifierID int64, metrics domain.Metrics) error
	MarkTrainingFailed(ctx context.Context, classifierID int64, message string) error
}

type TestSetRepository interface {
	Create(ctx context.Context, ts *domain.TestSet) error
	GetByID(ctx context.Context, classifierID, id int64) (*domain.TestSet, error)
	ListByClassifier(ctx context.Context, classifierID int64) ([]*domain.TestSet, error)
	MarkInferenceBegan(ctx context.Context, id int64) error
	MarkInferenceCompleted(ctx context.Context, id int64) error
	MarkInferenceFailed(ctx context.Context, id int64, message string) error
}

type TopicModelRepository interface {
	Create(ctx context.Context, tm *domain.TopicModel) error
	GetByID(ctx context.Context, id int64) (*domain.TopicModel, error)
	List(ctx context.Context) ([]*domain.TopicModel, error)
	MarkTrainingBegan(ctx context.Context, id int64) error
	MarkCompleted(ctx context.Context, id int64, topics []domain.Topic) error
	MarkFailed(ctx context.Context, id int64, message string) error
	SetTopicNames(ctx context.Context, id int64, names []string) error
}
