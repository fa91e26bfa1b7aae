package runner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"openframing-service/internal/core/domain"
	"openframing-service/internal/textml"
)

const (
	ldaLoadEnd    = 5.0
	ldaSampleEnd  = 90.0
	ldaOutputEnd  = 100.0
	topicKeywords = 10
)

func (r *Runner) runTopicModel(ctx context.Context, job *domain.Job) error {
	id := job.TopicModelID
	tm, err := r.topicModels.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load topic model %d: %w", id, err)
	}

	fail := func(cause error) error {
		if markErr := r.topicModels.MarkFailed(ctx, id, cause.Error()); markErr != nil {
			return fmt.Errorf("mark topic model failed (%v): %w", cause, markErr)
		}
		r.clearProgress(ctx, domain.ProgressScopeTopicModel, id)
		return cause
	}

	r.reportProgress(ctx, domain.ProgressScopeTopicModel, id, domain.StageLoadingData, 0, ldaLoadEnd, 0, 1)

	_, rows, err := r.files.ReadCSV(r.files.CorpusFile(id))
	if err != nil {
		return fail(err)
	}

	docIDs := make([]string, 0, len(rows))
	corpus := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		docIDs = append(docIDs, row[0])
		corpus = append(corpus, row[1])
	}
	if len(corpus) < tm.NumTopics {
		return fail(domain.ErrTooFewDocuments)
	}

	// Seeded from the model ID so reruns of the same corpus reproduce.
	lda := textml.NewLDA(tm.NumTopics, tm.Iterations, id)
	lda.Fit(corpus, progressThrottle(func(done, total int) {
		r.reportProgress(ctx, domain.ProgressScopeTopicModel, id, domain.StageSampling, ldaLoadEnd, ldaSampleEnd, done, total)
	}))

	topics := lda.Topics(topicKeywords)
	docTopics := lda.DocTopics()

	r.reportProgress(ctx, domain.ProgressScopeTopicModel, id, domain.StageWritingOutput, ldaSampleEnd, ldaOutputEnd, 0, 1)

	if err := r.writeTopicOutputs(id, tm.NumTopics, docIDs, topics, docTopics); err != nil {
		return fail(err)
	}

	if err := r.topicModels.MarkCompleted(ctx, id, topics); err != nil {
		return fmt.Errorf("mark topic model completed: %w", err)
	}
	r.clearProgress(ctx, domain.ProgressScopeTopicModel, id)

	r.notify(ctx, tm.NotifyAtEmail,
		fmt.Sprintf("openFraming: topic model %q finished", tm.Name),
		fmt.Sprintf(
			"Topic modeling for %q has finished with %d topics.\n"+
				"The topic preview and keyword file are ready.\n",
			tm.Name, tm.NumTopics),
	)
	return nil
}

func (r *Runner) writeTopicOutputs(id int64, numTopics int, docIDs []string, topics []domain.Topic, docTopics [][]float64) error {
	keywordRows := make([][]string, len(topics))
	for k, topic := range topics {
		keywordRows[k] = []string{
			fmt.Sprintf("topic_%d", k+1),
			strconv.FormatFloat(topic.Proportion, 'f', 4, 64),
			strings.Join(topic.Keywords, " "),
		}
	}
	if err := r.files.WriteCSV(r.files.KeywordsFile(id), []string{"topic", "proportion", "keywords"}, keywordRows); err != nil {
		return err
	}

	headers := make([]string, 0, numTopics+2)
	headers = append(headers, "id", "most_likely_topic")
	for k := 0; k < numTopics; k++ {
		headers = append(headers, fmt.Sprintf("topic_%d", k+1))
	}

	docRows := make([][]string, len(docTopics))
	for d, dist := range docTopics {
		best := 0
		for k := range dist {
			if dist[k] > dist[best] {
				best = k
			}
		}

		row := make([]string, 0, numTopics+2)
		row = append(row, docIDs[d], fmt.Sprintf("topic_%d", best+1))
		for k := 0; k < numTopics; k++ {
			row = append(row, strconv.FormatFloat(dist[k], 'f', 4, 64))
		}
		docRows[d] = row
	}
	return r.files.WriteCSV(r.files.TopicsByDocFile(id), headers, docRows)
}
