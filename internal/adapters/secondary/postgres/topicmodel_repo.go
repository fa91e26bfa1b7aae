package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"openframing-service/internal/core/domain"
	ports "openframing-service/internal/core/ports/output"
)

type topicModelRepo struct {
	pool *pgxpool.Pool
}

func NewTopicModelRepository(pool *pgxpool.Pool) ports.TopicModelRepository {
	return &topicModelRepo{pool: pool}
}

const topicModelColumns = `
	id, created_at, updated_at, name, num_topics, iterations, notify_at_email,
	topic_names, topics, training_began, lda_completed, error_encountered, error_message
`

func (r *topicModelRepo) Create(ctx context.Context, tm *domain.TopicModel) error {
	query := `
		INSERT INTO topic_model (name, num_topics, iterations, notify_at_email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, tm.Name, tm.NumTopics, tm.Iterations, tm.NotifyAtEmail).
		Scan(&tm.ID, &tm.CreatedAt, &tm.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrTopicModelNameConflict
		}
		return fmt.Errorf("create topic model: %w", err)
	}
	return nil
}

func (r *topicModelRepo) GetByID(ctx context.Context, id int64) (*domain.TopicModel, error) {
	query := fmt.Sprintf(`SELECT %s FROM topic_model WHERE id = $1`, topicModelColumns)

	tm, err := scanTopicModel(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTopicModelNotFound
		}
		return nil, fmt.Errorf("get topic model by id: %w", err)
	}
	return tm, nil
}

func (r *topicModelRepo) List(ctx context.Context) ([]*domain.TopicModel, error) {
	query := fmt.Sprintf(`SELECT %s FROM topic_model ORDER BY id`, topicModelColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list topic models: %w", err)
	}
	defer rows.Close()

	var models []*domain.TopicModel
	for rows.Next() {
		tm, err := scanTopicModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic model row: %w", err)
		}
		models = append(models, tm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topic model rows: %w", err)
	}
	return models, nil
}

func (r *topicModelRepo) MarkTrainingBegan(ctx context.Context, id int64) error {
	return r.exec(ctx, `
		UPDATE topic_model SET training_began = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
}

func (r *topicModelRepo) MarkCompleted(ctx context.Context, id int64, topics []domain.Topic) error {
	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	return r.exec(ctx, `
		UPDATE topic_model
		SET lda_completed = TRUE, topics = $2, updated_at = NOW()
		WHERE id = $1
	`, id, topicsJSON)
}

func (r *topicModelRepo) MarkFailed(ctx context.Context, id int64, message string) error {
	return r.exec(ctx, `
		UPDATE topic_model SET error_encountered = TRUE, error_message = $2, updated_at = NOW()
		WHERE id = $1
	`, id, message)
}

func (r *topicModelRepo) SetTopicNames(ctx context.Context, id int64, names []string) error {
	namesJSON, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("marshal topic names: %w", err)
	}
	return r.exec(ctx, `
		UPDATE topic_model SET topic_names = $2, updated_at = NOW() WHERE id = $1
	`, id, namesJSON)
}

func (r *topicModelRepo) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update topic model: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTopicModelNotFound
	}
	return nil
}

func scanTopicModel(row pgx.Row) (*domain.TopicModel, error) {
	tm := &domain.TopicModel{}
	var namesJSON, topicsJSON []byte

	err := row.Scan(
		&tm.ID, &tm.CreatedAt, &tm.UpdatedAt, &tm.Name, &tm.NumTopics,
		&tm.Iterations, &tm.NotifyAtEmail, &namesJSON, &topicsJSON,
		&tm.TrainingBegan, &tm.LDACompleted, &tm.ErrorEncountered, &tm.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}

	if len(namesJSON) > 0 {
		if err := json.Unmarshal(namesJSON, &tm.TopicNames); err != nil {
			return nil, fmt.Errorf("unmarshal topic names: %w", err)
		}
	}
	if len(topicsJSON) > 0 {
		if err := json.Unmarshal(topicsJSON, &tm.Topics); err != nil {
			return nil, fmt.Errorf("unmarshal topics: %w", err)
		}
	}
	return tm, nil
}
