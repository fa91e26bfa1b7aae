// Package redisq implements the job queue and live progress store on Redis.
// Jobs are JSON envelopes on a single list; workers block on BRPOP.
package redisq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"openframing-service/internal/core/domain"
	ports "openframing-service/internal/core/ports/output"
)

// dequeueTimeout bounds each BRPOP so workers notice context cancellation.
const dequeueTimeout = 5 * time.Second

type JobQueue struct {
	client *redis.Client
	key    string
}

func NewJobQueue(client *redis.Client, queueName string) ports.JobQueue {
	return &JobQueue{client: client, key: queueName}
}

func (q *JobQueue) Enqueue(ctx context.Context, job *domain.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

func (q *JobQueue) Dequeue(ctx context.Context) (*domain.Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := q.client.BRPop(ctx, dequeueTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("dequeue job: %w", err)
		}

		// BRPOP returns [key, value]
		job := &domain.Job{}
		if err := json.Unmarshal([]byte(res[1]), job); err != nil {
			return nil, fmt.Errorf("unmarshal job: %w", err)
		}
		return job, nil
	}
}
