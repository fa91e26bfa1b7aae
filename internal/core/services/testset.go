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
)

type TestSetService struct {
	testSets    ports.TestSetRepository
	classifiers ports.ClassifierRepository
	queue       ports.JobQueue
	progress    ports.ProgressStore
	files       *datafiles.Store
}

func NewTestSetService(testSets ports.TestSetRepository, classifiers ports.ClassifierRepository, queue ports.JobQueue, progress ports.ProgressStore, files *datafiles.Store) *TestSetService {
	return &TestSetService{
		testSets:    testSets,
		classifiers: classifiers,
		queue:       queue,
		progress:    progress,
		files:       files,
	}
}

func (s *TestSetService) Create(ctx context.Context, classifierID int64, name, notifyAtEmail string) (*domain.TestSet, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidTestSetName
	}
	if _, err := s.classifiers.GetByID(ctx, classifierID); err != nil {
		return nil, err
	}

	ts := &domain.TestSet{
		ClassifierID:  classifierID,
		Name:          name,
		NotifyAtEmail: notifyAtEmail,
	}
	if err := s.testSets.Create(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *TestSetService) Get(ctx context.Context, classifierID, id int64) (*domain.TestSet, error) {
	return s.testSets.GetByID(ctx, classifierID, id)
}

func (s *TestSetService) List(ctx context.Context, classifierID int64) ([]*domain.TestSet, error) {
	if _, err := s.classifiers.GetByID(ctx, classifierID); err != nil {
		return nil, err
	}
	return s.testSets.ListByClassifier(ctx, classifierID)
}

// UploadTestFile accepts an [id, example] CSV and enqueues the prediction
// job. The classifier must have completed training.
func (s *TestSetService) UploadTestFile(ctx context.Context, classifierID, id int64, file io.Reader) (*domain.TestSet, error) {
	clsf, err := s.classifiers.GetByID(ctx, classifierID)
	if err != nil {
		return nil, err
	}
	if clsf.TrainingStatus() != domain.TrainingStatusCompleted {
		return nil, domain.ErrClassifierNotTrained
	}

	ts, err := s.testSets.GetByID(ctx, classifierID, id)
	if err != nil {
		return nil, err
	}
	if ts.InferenceBegan {
		return nil, domain.ErrInferenceAlreadyBegun
	}

	rows, err := readCSVTable(file, []string{idHeader, exampleHeader})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrTooFewExamples
	}

	if err := s.files.WriteCSV(s.files.TestFile(classifierID, id), []string{idHeader, exampleHeader}, rows); err != nil {
		return nil, err
	}

	if err := s.testSets.MarkInferenceBegan(ctx, id); err != nil {
		return nil, err
	}

	if err := s.progress.Set(ctx, domain.Progress{
		Scope:    domain.ProgressScopeTestSet,
		EntityID: id,
		Stage:    domain.StageQueued,
	}); err != nil {
		log.WithError(err).WithField("test_set_id", id).Warn("record queued progress failed")
	}

	if err := s.queue.Enqueue(ctx, domain.NewPredictionJob(classifierID, id)); err != nil {
		return nil, err
	}

	return s.testSets.GetByID(ctx, classifierID, id)
}

// PredictionsFile returns the path of the finished predictions CSV.
func (s *TestSetService) PredictionsFile(ctx context.Context, classifierID, id int64) (string, error) {
	ts, err := s.testSets.GetByID(ctx, classifierID, id)
	if err != nil {
		return "", err
	}
	if !ts.InferenceCompleted {
		return "", domain.ErrPredictionsNotReady
	}

	path := s.files.PredictionsFile(classifierID, id)
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrPredictionsNotReady
	}
	return path, nil
}
