package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"openframing-service/internal/core/domain"
	ports "openframing-service/internal/core/ports/output"
)

// ProgressService answers progress queries by combining the live snapshot
// from the progress store with the durable status in the database. The
// database wins on terminal states so a missing or stale snapshot can never
// report a finished job as running.
type ProgressService struct {
	classifiers ports.ClassifierRepository
	testSets    ports.TestSetRepository
	topicModels ports.TopicModelRepository
	progress    ports.ProgressStore
}

func NewProgressService(classifiers ports.ClassifierRepository, testSets ports.TestSetRepository, topicModels ports.TopicModelRepository, progress ports.ProgressStore) *ProgressService {
	return &ProgressService{
		classifiers: classifiers,
		testSets:    testSets,
		topicModels: topicModels,
		progress:    progress,
	}
}

type ClassifierProgress struct {
	Classifier *domain.Classifier
	Progress   domain.Progress
}

func (s *ProgressService) ForClassifier(ctx context.Context, id int64) (*ClassifierProgress, error) {
	clsf, err := s.classifiers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := s.snapshot(ctx, domain.ProgressScopeClassifier, id)
	switch clsf.TrainingStatus() {
	case domain.TrainingStatusNotBegun:
		p = domain.Progress{Scope: domain.ProgressScopeClassifier, EntityID: id, Stage: domain.StageNotStarted}
	case domain.TrainingStatusCompleted:
		p.Percent = 100
		p.Stage = domain.StageDone
	case domain.TrainingStatusError:
		p.Stage = domain.StageFailed
		if clsf.TrainSet != nil && p.Message == "" {
			p.Message = clsf.TrainSet.ErrorMessage
		}
	}
	p.Scope = domain.ProgressScopeClassifier
	p.EntityID = id

	return &ClassifierProgress{Classifier: clsf, Progress: p}, nil
}

type TopicModelProgress struct {
	TopicModel *domain.TopicModel
	Progress   domain.Progress
}

func (s *ProgressService) ForTopicModel(ctx context.Context, id int64) (*TopicModelProgress, error) {
	tm, err := s.topicModels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := s.snapshot(ctx, domain.ProgressScopeTopicModel, id)
	switch tm.Status() {
	case domain.TrainingStatusNotBegun:
		p = domain.Progress{Scope: domain.ProgressScopeTopicModel, EntityID: id, Stage: domain.StageNotStarted}
	case domain.TrainingStatusCompleted:
		p.Percent = 100
		p.Stage = domain.StageDone
	case domain.TrainingStatusError:
		p.Stage = domain.StageFailed
		if p.Message == "" {
			p.Message = tm.ErrorMessage
		}
	}
	p.Scope = domain.ProgressScopeTopicModel
	p.EntityID = id

	return &TopicModelProgress{TopicModel: tm, Progress: p}, nil
}

type TestSetProgress struct {
	TestSet  *domain.TestSet
	Progress domain.Progress
}

func (s *ProgressService) ForTestSet(ctx context.Context, classifierID, id int64) (*TestSetProgress, error) {
	ts, err := s.testSets.GetByID(ctx, classifierID, id)
	if err != nil {
		return nil, err
	}

	p := s.snapshot(ctx, domain.ProgressScopeTestSet, id)
	switch ts.Status() {
	case domain.InferenceStatusNotBegun:
		p = domain.Progress{Scope: domain.ProgressScopeTestSet, EntityID: id, Stage: domain.StageNotStarted}
	case domain.InferenceStatusCompleted:
		p.Percent = 100
		p.Stage = domain.StageDone
	case domain.InferenceStatusError:
		p.Stage = domain.StageFailed
		if p.Message == "" {
			p.Message = ts.ErrorMessage
		}
	}
	p.Scope = domain.ProgressScopeTestSet
	p.EntityID = id

	return &TestSetProgress{TestSet: ts, Progress: p}, nil
}

// snapshot fetches the live snapshot, falling back to a zeroed queued state.
// Store failures degrade to the fallback rather than failing the request.
func (s *ProgressService) snapshot(ctx context.Context, scope domain.ProgressScope, id int64) domain.Progress {
	p, err := s.progress.Get(ctx, scope, id)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"scope": scope, "entity_id": id}).
			Warn("read progress snapshot failed")
	}
	if p == nil {
		return domain.Progress{Scope: scope, EntityID: id, Stage: domain.StageQueued}
	}
	return *p
}
