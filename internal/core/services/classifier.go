package services

import (
	"context"
	"io"
	"math/rand"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"openframing-service/internal/core/domain"
	ports "openframing-service/internal/core/ports/output"
	"openframing-service/internal/datafiles"
)

type ClassifierService struct {
	repo     ports.ClassifierRepository
	queue    ports.JobQueue
	progress ports.ProgressStore
	files    *datafiles.Store
}

func NewClassifierService(repo ports.ClassifierRepository, queue ports.JobQueue, progress ports.ProgressStore, files *datafiles.Store) *ClassifierService {
	return &ClassifierService{repo: repo, queue: queue, progress: progress, files: files}
}

func (s *ClassifierService) Create(ctx context.Context, name, notifyAtEmail string, categoryNames []string) (*domain.Classifier, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidClassifierName
	}
	if err := domain.ValidateCategoryNames(categoryNames); err != nil {
		return nil, err
	}

	clsf := &domain.Classifier{
		Name:                 name,
		CategoryNames:        categoryNames,
		NotifyAtEmail:        notifyAtEmail,
		TrainedByOpenFraming: true,
	}
	if err := s.repo.Create(ctx, clsf); err != nil {
		return nil, err
	}
	return clsf, nil
}

func (s *ClassifierService) Get(ctx context.Context, id int64) (*domain.Classifier, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ClassifierService) List(ctx context.Context) ([]*domain.Classifier, error) {
	return s.repo.List(ctx)
}

func (s *ClassifierService) Delete(ctx context.Context, id int64) error {
	clsf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if clsf.TrainingStatus() == domain.TrainingStatusTraining {
		return domain.ErrCannotDeleteTraining
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.files.RemoveClassifierDir(id); err != nil {
		log.WithError(err).WithField("classifier_id", id).Warn("remove classifier data dir failed")
	}
	return nil
}

// UploadTrainingData validates an [example, category] CSV, writes the
// stratified train/dev split to disk and enqueues the training job.
func (s *ClassifierService) UploadTrainingData(ctx context.Context, id int64, file io.Reader) (*domain.Classifier, error) {
	clsf, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if clsf.TrainSet != nil {
		return nil, domain.ErrTrainingAlreadyBegun
	}

	rows, err := readCSVTable(file, []string{exampleHeader, categoryHeader})
	if err != nil {
		return nil, err
	}
	if err := validateTrainingRows(rows, clsf.CategoryNames); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	train, dev := stratifiedSplit(rows, rng)

	headers := []string{exampleHeader, categoryHeader}
	if err := s.files.WriteCSV(s.files.TrainFile(id), headers, train); err != nil {
		return nil, err
	}
	if err := s.files.WriteCSV(s.files.DevFile(id), headers, dev); err != nil {
		return nil, err
	}

	if err := s.repo.AttachSets(ctx, id); err != nil {
		return nil, err
	}

	if err := s.progress.Set(ctx, domain.Progress{
		Scope:    domain.ProgressScopeClassifier,
		EntityID: id,
		Stage:    domain.StageQueued,
	}); err != nil {
		log.WithError(err).WithField("classifier_id", id).Warn("record queued progress failed")
	}

	if err := s.queue.Enqueue(ctx, domain.NewTrainingJob(id)); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}
