// Package runner executes background jobs pulled from the queue: classifier
// training, test-set prediction and topic model fitting.
package runner

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"openframing-service/internal/core/domain"
	ports "openframing-service/internal/core/ports/output"
	"openframing-service/internal/datafiles"
	"openframing-service/internal/metrics"
)

type Runner struct {
	queue       ports.JobQueue
	progress    ports.ProgressStore
	classifiers ports.ClassifierRepository
	testSets    ports.TestSetRepository
	topicModels ports.TopicModelRepository
	files       *datafiles.Store
	mailer      ports.Mailer
	jobMetrics  *metrics.JobMetrics
	workers     int
}

func New(
	queue ports.JobQueue,
	progress ports.ProgressStore,
	classifiers ports.ClassifierRepository,
	testSets ports.TestSetRepository,
	topicModels ports.TopicModelRepository,
	files *datafiles.Store,
	mailer ports.Mailer,
	jobMetrics *metrics.JobMetrics,
	workers int,
) *Runner {
	return &Runner{
		queue:       queue,
		progress:    progress,
		classifiers: classifiers,
		testSets:    testSets,
		topicModels: topicModels,
		files:       files,
		mailer:      mailer,
		jobMetrics:  jobMetrics,
		workers:     workers,
	}
}

// Run starts the worker pool and blocks until the context is cancelled and
// all in-flight jobs have finished.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.workers; i++ {
		worker := i
		g.Go(func() error {
			return r.workLoop(ctx, worker)
		})
	}
	return g.Wait()
}

func (r *Runner) workLoop(ctx context.Context, worker int) error {
	logger := log.WithField("worker", worker)
	logger.Info("worker started")

	for {
		job, err := r.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.Info("worker stopped")
				return nil
			}
			logger.WithError(err).Error("dequeue failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		r.execute(ctx, job, logger)
	}
}

func (r *Runner) execute(ctx context.Context, job *domain.Job, logger *log.Entry) {
	logger = logger.WithFields(log.Fields{"job_id": job.ID, "job_type": job.Type})
	logger.Info("job started")

	r.jobMetrics.InFlight.Inc()
	defer r.jobMetrics.InFlight.Dec()
	start := time.Now()

	var err error
	switch job.Type {
	case domain.JobTypeClassifierTraining:
		err = r.runTraining(ctx, job)
	case domain.JobTypeClassifierPrediction:
		err = r.runPrediction(ctx, job)
	case domain.JobTypeTopicModelTraining:
		err = r.runTopicModel(ctx, job)
	default:
		logger.Error("unknown job type, dropping")
		r.jobMetrics.Processed.WithLabelValues(string(job.Type), "dropped").Inc()
		return
	}

	elapsed := time.Since(start)
	r.jobMetrics.Duration.WithLabelValues(string(job.Type)).Observe(elapsed.Seconds())

	if err != nil {
		r.jobMetrics.Processed.WithLabelValues(string(job.Type), "failure").Inc()
		logger.WithError(err).WithField("elapsed", elapsed).Error("job failed")
		return
	}
	r.jobMetrics.Processed.WithLabelValues(string(job.Type), "success").Inc()
	logger.WithField("elapsed", elapsed).Info("job completed")
}

// reportProgress writes a snapshot, mapping a phase's own done/total onto
// the job-wide percent range [from, to].
func (r *Runner) reportProgress(ctx context.Context, scope domain.ProgressScope, entityID int64, stage domain.ProgressStage, from, to float64, done, total int) {
	percent := from
	if total > 0 {
		percent = from + (to-from)*float64(done)/float64(total)
	}
	err := r.progress.Set(ctx, domain.Progress{
		Scope:    scope,
		EntityID: entityID,
		Percent:  percent,
		Stage:    stage,
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"scope": scope, "entity_id": entityID}).
			Warn("record progress failed")
	}
}

// clearProgress drops the live snapshot once the job has reached a terminal
// state; progress reads fall back to the durable record from then on.
func (r *Runner) clearProgress(ctx context.Context, scope domain.ProgressScope, entityID int64) {
	if err := r.progress.Clear(ctx, scope, entityID); err != nil {
		log.WithError(err).WithFields(log.Fields{"scope": scope, "entity_id": entityID}).
			Warn("clear progress failed")
	}
}

// progressThrottle invokes report only when the integer percent of a phase
// advances, so tight training loops do not hammer the store.
func progressThrottle(report func(done, total int)) func(done, total int) {
	last := -1
	return func(done, total int) {
		pct := 100
		if total > 0 {
			pct = done * 100 / total
		}
		if pct == last {
			return
		}
		last = pct
		report(done, total)
	}
}

func (r *Runner) notify(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	if err := r.mailer.Send(ctx, to, subject, body); err != nil {
		log.WithError(err).WithField("to", to).Warn("send notification failed")
	}
}
