package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"openframing-service/internal/core/domain"
	ports "openframing-service/internal/core/ports/output"
)

type testSetRepo struct {
	pool *pgxpool.Pool
}

func NewTestSetRepository(pool *pgxpool.Pool) ports.TestSetRepository {
	return &testSetRepo{pool: pool}
}

func (r *testSetRepo) Create(ctx context.Context, ts *domain.TestSet) error {
	query := `
		INSERT INTO test_set (classifier_id, name, notify_at_email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, ts.ClassifierID, ts.Name, ts.NotifyAtEmail).
		Scan(&ts.ID, &ts.CreatedAt, &ts.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create test set: %w", err)
	}
	return nil
}

func (r *testSetRepo) GetByID(ctx context.Context, classifierID, id int64) (*domain.TestSet, error) {
	query := `
		SELECT id, classifier_id, created_at, updated_at, name, notify_at_email,
			   inference_began, inference_completed, error_encountered, error_message
		FROM test_set
		WHERE id = $1 AND classifier_id = $2
	`
	ts, err := scanTestSet(r.pool.QueryRow(ctx, query, id, classifierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTestSetNotFound
		}
		return nil, fmt.Errorf("get test set by id: %w", err)
	}
	return ts, nil
}

func (r *testSetRepo) ListByClassifier(ctx context.Context, classifierID int64) ([]*domain.TestSet, error) {
	query := `
		SELECT id, classifier_id, created_at, updated_at, name, notify_at_email,
			   inference_began, inference_completed, error_encountered, error_message
		FROM test_set
		WHERE classifier_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, classifierID)
	if err != nil {
		return nil, fmt.Errorf("list test sets: %w", err)
	}
	defer rows.Close()

	var sets []*domain.TestSet
	for rows.Next() {
		ts, err := scanTestSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan test set row: %w", err)
		}
		sets = append(sets, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test set rows: %w", err)
	}
	return sets, nil
}

func (r *testSetRepo) MarkInferenceBegan(ctx context.Context, id int64) error {
	return r.exec(ctx, `
		UPDATE test_set SET inference_began = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
}

func (r *testSetRepo) MarkInferenceCompleted(ctx context.Context, id int64) error {
	return r.exec(ctx, `
		UPDATE test_set SET inference_completed = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
}

func (r *testSetRepo) MarkInferenceFailed(ctx context.Context, id int64, message string) error {
	return r.exec(ctx, `
		UPDATE test_set SET error_encountered = TRUE, error_message = $2, updated_at = NOW()
		WHERE id = $1
	`, id, message)
}

func (r *testSetRepo) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update test set: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTestSetNotFound
	}
	return nil
}

func scanTestSet(row pgx.Row) (*domain.TestSet, error) {
	ts := &domain.TestSet{}
	err := row.Scan(
		&ts.ID, &ts.ClassifierID, &ts.CreatedAt, &ts.UpdatedAt, &ts.Name,
		&ts.NotifyAtEmail, &ts.InferenceBegan, &ts.InferenceCompleted,
		&ts.ErrorEncountered, &ts.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	return ts, nil
}
