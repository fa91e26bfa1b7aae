package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"openframing-service/internal/core/domain"
)

// MockClassifierRepo is a mock of ClassifierRepository.
type MockClassifierRepo struct {
	mock.Mock
}

func (m *MockClassifierRepo) Create(ctx context.Context, clsf *domain.Classifier) error {
	args := m.Called(ctx, clsf)
	return args.Error(0)
}

func (m *MockClassifierRepo) GetByID(ctx context.Context, id int64) (*domain.Classifier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Classifier), args.Error(1)
}

func (m *MockClassifierRepo) List(ctx context.Context) ([]*domain.Classifier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Classifier), args.Error(1)
}

func (m *MockClassifierRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClassifierRepo) AttachSets(ctx context.Context, classifierID int64) error {
	args := m.Called(ctx, classifierID)
	return args.Error(0)
}

func (m *MockClassifierRepo) MarkTrainingCompleted(ctx context.Context, classifierID int64, metrics domain.Metrics) error {
	args := m.Called(ctx, classifierID, metrics)
	return args.Error(0)
}

func (m *MockClassifierRepo) MarkTrainingFailed(ctx context.Context, classifierID int64, message string) error {
	args := m.Called(ctx, classifierID, message)
	return args.Error(0)
}

// MockTestSetRepo is a mock of TestSetRepository.
type MockTestSetRepo struct {
	mock.Mock
}

func (m *MockTestSetRepo) Create(ctx context.Context, ts *domain.TestSet) error {
	args := m.Called(ctx, ts)
	return args.Error(0)
}

func (m *MockTestSetRepo) GetByID(ctx context.Context, classifierID, id int64) (*domain.TestSet, error) {
	args := m.Called(ctx, classifierID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestSet), args.Error(1)
}

func (m *MockTestSetRepo) ListByClassifier(ctx context.Context, classifierID int64) ([]*domain.TestSet, error) {
	args := m.Called(ctx, classifierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TestSet), args.Error(1)
}

func (m *MockTestSetRepo) MarkInferenceBegan(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTestSetRepo) MarkInferenceCompleted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTestSetRepo) MarkInferenceFailed(ctx context.Context, id int64, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

// MockTopicModelRepo is a mock of TopicModelRepository.
type MockTopicModelRepo struct {
	mock.Mock
}

func (m *MockTopicModelRepo) Create(ctx context.Context, tm *domain.TopicModel) error {
	args := m.Called(ctx, tm)
	return args.Error(0)
}

func (m *MockTopicModelRepo) GetByID(ctx context.Context, id int64) (*domain.TopicModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopicModel), args.Error(1)
}

func (m *MockTopicModelRepo) List(ctx context.Context) ([]*domain.TopicModel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TopicModel), args.Error(1)
}

func (m *MockTopicModelRepo) MarkTrainingBegan(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTopicModelRepo) MarkCompleted(ctx context.Context, id int64, topics []domain.Topic) error {
	args := m.Called(ctx, id, topics)
	return args.Error(0)
}

func (m *MockTopicModelRepo) MarkFailed(ctx context.Context, id int64, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockTopicModelRepo) SetTopicNames(ctx context.Context, id int64, names []string) error {
	args := m.Called(ctx, id, names)
	return args.Error(0)
}

// MockJobQueue is a mock of JobQueue.
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Enqueue(ctx context.Context, job *domain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobQueue) Dequeue(ctx context.Context) (*domain.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

// MockProgressStore is a mock of ProgressStore.
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Set(ctx context.Context, p domain.Progress) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProgressStore) Get(ctx context.Context, scope domain.ProgressScope, entityID int64) (*domain.Progress, error) {
	args := m.Called(ctx, scope, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockProgressStore) Clear(ctx context.Context, scope domain.ProgressScope, entityID int64) error {
	args := m.Called(ctx, scope, entityID)
	return args.Error(0)
}

// MockMailer is a mock of Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
