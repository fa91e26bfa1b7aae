package services

import (
	"context"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"openframing-service/internal/core/domain"
	ports "openframing-service/internal/core/ports/output"
	"openframing-service/internal/datafiles"
	"openframing-service/internal/textml"
)

type TopicModelService struct {
	repo     ports.TopicModelRepository
	queue    ports.JobQueue
	progress ports.ProgressStore
	files    *datafiles.Store
}

func NewTopicModelService(repo ports.TopicModelRepository, queue ports.JobQueue, progress ports.ProgressStore, files *datafiles.Store) *TopicModelService {
	return &TopicModelService{repo: repo, queue: queue, progress: progress, files: files}
}

func (s *TopicModelService) Create(ctx context.Context, name string, numTopics, iterations int, notifyAtEmail string) (*domain.TopicModel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidTopicModelName
	}
	if numTopics < 2 {
		return nil, domain.ErrInvalidNumTopics
	}
	if iterations <= 0 {
		iterations = textml.DefaultLDAIterations
	}

	tm := &domain.TopicModel{
		Name:          name,
		NumTopics:     numTopics,
		Iterations:    iterations,
		NotifyAtEmail: notifyAtEmail,
	}
	if err := s.repo.Create(ctx, tm); err != nil {
		return nil, err
	}
	return tm, nil
}

func (s *TopicModelService) Get(ctx context.Context, id int64) (*domain.TopicModel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TopicModelService) List(ctx context.Context) ([]*domain.TopicModel, error) {
	return s.repo.List(ctx)
}

// UploadCorpus accepts an [id, text] CSV and enqueues the LDA job.
func (s *TopicModelService) UploadCorpus(ctx context.Context, id int64, file io.Reader) (*domain.TopicModel, error) {
	tm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tm.TrainingBegan {
		return nil, domain.ErrTopicModelHasCorpus
	}

	rows, err := readCSVTable(file, []string{idHeader, textHeader})
	if err != nil {
		return nil, err
	}
	if len(rows) < tm.NumTopics {
		return nil, domain.ErrTooFewDocuments
	}

	if err := s.files.WriteCSV(s.files.CorpusFile(id), []string{idHeader, textHeader}, rows); err != nil {
		return nil, err
	}

	if err := s.repo.MarkTrainingBegan(ctx, id); err != nil {
		return nil, err
	}

	if err := s.progress.Set(ctx, domain.Progress{
		Scope:    domain.ProgressScopeTopicModel,
		EntityID: id,
		Stage:    domain.StageQueued,
	}); err != nil {
		log.WithError(err).WithField("topic_model_id", id).Warn("record queued progress failed")
	}

	if err := s.queue.Enqueue(ctx, domain.NewTopicModelJob(id)); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Preview returns the fitted topics. Only available once LDA has completed.
func (s *TopicModelService) Preview(ctx context.Context, id int64) (*domain.TopicModel, error) {
	tm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tm.LDACompleted {
		return nil, domain.ErrTopicPreviewNotReady
	}
	return tm, nil
}

// SetTopicNames assigns a human-readable name to every fitted topic.
func (s *TopicModelService) SetTopicNames(ctx context.Context, id int64, names []string) (*domain.TopicModel, error) {
	tm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tm.LDACompleted {
		return nil, domain.ErrTopicPreviewNotReady
	}
	if len(names) != tm.NumTopics {
		return nil, domain.ErrInvalidTopicNames
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, domain.ErrInvalidTopicNames
		}
	}

	if err := s.repo.SetTopicNames(ctx, id, names); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// KeywordsFile returns the path of the finished keywords CSV.
func (s *TopicModelService) KeywordsFile(ctx context.Context, id int64) (string, error) {
	tm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !tm.LDACompleted {
		return "", domain.ErrTopicPreviewNotReady
	}

	path := s.files.KeywordsFile(id)
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrTopicPreviewNotReady
	}
	return path, nil
}
