package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"openframing-service/internal/core/domain"
	"openframing-service/internal/textml"
)

// Percent ranges for the phases of a training job.
const (
	trainLoadEnd = 5.0
	trainFitEnd  = 70.0
	trainEvalEnd = 95.0
)

func (r *Runner) runTraining(ctx context.Context, job *domain.Job) error {
	id := job.ClassifierID
	clsf, err := r.classifiers.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load classifier %d: %w", id, err)
	}

	fail := func(cause error) error {
		if markErr := r.classifiers.MarkTrainingFailed(ctx, id, cause.Error()); markErr != nil {
			return fmt.Errorf("mark training failed (%v): %w", cause, markErr)
		}
		r.clearProgress(ctx, domain.ProgressScopeClassifier, id)
		return cause
	}

	r.reportProgress(ctx, domain.ProgressScopeClassifier, id, domain.StageLoadingData, 0, trainLoadEnd, 0, 1)

	trainExamples, err := r.readLabeledSet(r.files.TrainFile(id))
	if err != nil {
		return fail(err)
	}
	devExamples, err := r.readLabeledSet(r.files.DevFile(id))
	if err != nil {
		return fail(err)
	}

	model := textml.NewBayesClassifier(clsf.CategoryNames)
	model.Train(trainExamples, progressThrottle(func(done, total int) {
		r.reportProgress(ctx, domain.ProgressScopeClassifier, id, domain.StageTraining, trainLoadEnd, trainFitEnd, done, total)
	}))

	evaluation := model.Evaluate(devExamples, progressThrottle(func(done, total int) {
		r.reportProgress(ctx, domain.ProgressScopeClassifier, id, domain.StageEvaluating, trainFitEnd, trainEvalEnd, done, total)
	}))

	if err := r.classifiers.MarkTrainingCompleted(ctx, id, evaluation); err != nil {
		return fmt.Errorf("mark training completed: %w", err)
	}
	r.clearProgress(ctx, domain.ProgressScopeClassifier, id)

	r.notify(ctx, clsf.NotifyAtEmail,
		fmt.Sprintf("openFraming: training of %q finished", clsf.Name),
		fmt.Sprintf(
			"Training of your classifier %q has finished.\n\n"+
				"Dev set accuracy: %.3f\nMacro F1 score: %.3f\n",
			clsf.Name, evaluation.Accuracy, evaluation.MacroF1Score),
	)
	return nil
}

func (r *Runner) readLabeledSet(path string) ([]textml.LabeledExample, error) {
	_, rows, err := r.files.ReadCSV(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrTrainingFileNotFound)
		}
		return nil, err
	}

	examples := make([]textml.LabeledExample, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		examples = append(examples, textml.LabeledExample{Text: row[0], Category: row[1]})
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("%s: %w", path, errEmptyDataFile)
	}
	return examples, nil
}

var errEmptyDataFile = fmt.Errorf("data file contains no rows")

// trainModelFromSplit rebuilds the fitted classifier from the stored train
// split. Model parameters are not persisted; multinomial naive Bayes is
// cheap enough to refit on demand for prediction jobs.
func (r *Runner) trainModelFromSplit(clsf *domain.Classifier) (*textml.BayesClassifier, error) {
	examples, err := r.readLabeledSet(r.files.TrainFile(clsf.ID))
	if err != nil {
		return nil, err
	}
	model := textml.NewBayesClassifier(clsf.CategoryNames)
	model.Train(examples, nil)
	return model, nil
}
