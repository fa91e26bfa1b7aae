package runner

import (
	"context"
	"fmt"

	"openframing-service/internal/core/domain"
	"openframing-service/internal/datafiles"
)

const (
	predictLoadEnd  = 10.0
	predictMainEnd  = 90.0
	predictWriteEnd = 100.0
)

func (r *Runner) runPrediction(ctx context.Context, job *domain.Job) error {
	tsID := job.TestSetID
	ts, err := r.testSets.GetByID(ctx, job.ClassifierID, tsID)
	if err != nil {
		return fmt.Errorf("load test set %d: %w", tsID, err)
	}

	fail := func(cause error) error {
		if markErr := r.testSets.MarkInferenceFailed(ctx, tsID, cause.Error()); markErr != nil {
			return fmt.Errorf("mark inference failed (%v): %w", cause, markErr)
		}
		r.clearProgress(ctx, domain.ProgressScopeTestSet, tsID)
		return cause
	}

	clsf, err := r.classifiers.GetByID(ctx, job.ClassifierID)
	if err != nil {
		return fail(fmt.Errorf("load classifier %d: %w", job.ClassifierID, err))
	}

	r.reportProgress(ctx, domain.ProgressScopeTestSet, tsID, domain.StageLoadingData, 0, predictLoadEnd, 0, 1)

	model, err := r.trainModelFromSplit(clsf)
	if err != nil {
		return fail(err)
	}

	_, rows, err := r.files.ReadCSV(r.files.TestFile(clsf.ID, tsID))
	if err != nil {
		return fail(err)
	}

	report := progressThrottle(func(done, total int) {
		r.reportProgress(ctx, domain.ProgressScopeTestSet, tsID, domain.StagePredicting, predictLoadEnd, predictMainEnd, done, total)
	})

	predictions := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		predicted := model.Predict(row[1])
		predictions = append(predictions, []string{row[0], row[1], predicted})
		report(i+1, len(rows))
	}

	r.reportProgress(ctx, domain.ProgressScopeTestSet, tsID, domain.StageWritingOutput, predictMainEnd, predictWriteEnd, 0, 1)

	headers := []string{"id", "example", "predicted_category"}
	if err := r.files.WriteCSV(r.files.PredictionsFile(clsf.ID, tsID), headers, predictions); err != nil {
		return fail(err)
	}

	if err := r.testSets.MarkInferenceCompleted(ctx, tsID); err != nil {
		return fmt.Errorf("mark inference completed: %w", err)
	}
	r.clearProgress(ctx, domain.ProgressScopeTestSet, tsID)

	r.notify(ctx, ts.NotifyAtEmail,
		fmt.Sprintf("openFraming: predictions for %q are ready", ts.Name),
		fmt.Sprintf(
			"Your test set %q has been labelled by classifier %q.\n"+
				"The predictions file (%s) is ready for download.\n",
			ts.Name, clsf.Name, datafiles.PredictionsFileName),
	)
	return nil
}
