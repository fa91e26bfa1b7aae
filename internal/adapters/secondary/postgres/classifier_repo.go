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

const classifierColumns = `
	c.id, c.created_at, c.updated_at, c.name, c.category_names,
	c.notify_at_email, c.trained_by_openframing,
	ts.id, ts.created_at, ts.updated_at, ts.training_or_inference_completed,
	ts.error_encountered, ts.error_message, ts.metrics,
	ds.id, ds.created_at, ds.updated_at, ds.training_or_inference_completed,
	ds.error_encountered, ds.error_message, ds.metrics
`

const classifierJoins = `
	LEFT JOIN labeled_set ts ON ts.id = c.train_set_id
	LEFT JOIN labeled_set ds ON ds.id = c.dev_set_id
`

type classifierRepo struct {
	pool *pgxpool.Pool
}

func NewClassifierRepository(pool *pgxpool.Pool) ports.ClassifierRepository {
	return &classifierRepo{pool: pool}
}

func (r *classifierRepo) Create(ctx context.Context, clsf *domain.Classifier) error {
	categoriesJSON, err := json.Marshal(clsf.CategoryNames)
	if err != nil {
		return fmt.Errorf("marshal category names: %w", err)
	}

	query := `
		INSERT INTO classifier (name, category_names, notify_at_email, trained_by_openframing)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		clsf.Name, categoriesJSON, clsf.NotifyAtEmail, clsf.TrainedByOpenFraming,
	).Scan(&clsf.ID, &clsf.CreatedAt, &clsf.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrClassifierNameConflict
		}
		return fmt.Errorf("create classifier: %w", err)
	}
	return nil
}

func (r *classifierRepo) GetByID(ctx context.Context, id int64) (*domain.Classifier, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM classifier c %s WHERE c.id = $1
	`, classifierColumns, classifierJoins)

	clsf, err := scanClassifier(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClassifierNotFound
		}
		return nil, fmt.Errorf("get classifier by id: %w", err)
	}
	return clsf, nil
}

func (r *classifierRepo) List(ctx context.Context) ([]*domain.Classifier, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM classifier c %s ORDER BY c.id
	`, classifierColumns, classifierJoins)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list classifiers: %w", err)
	}
	defer rows.Close()

	var classifiers []*domain.Classifier
	for rows.Next() {
		clsf, err := scanClassifier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan classifier row: %w", err)
		}
		classifiers = append(classifiers, clsf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classifier rows: %w", err)
	}
	return classifiers, nil
}

func (r *classifierRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM classifier WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete classifier: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrClassifierNotFound
	}
	return nil
}

func (r *classifierRepo) AttachSets(ctx context.Context, classifierID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin attach sets: %w", err)
	}
	defer tx.Rollback(ctx)

	var trainSetID *int64
	err = tx.QueryRow(ctx, `SELECT train_set_id FROM classifier WHERE id = $1 FOR UPDATE`, classifierID).
		Scan(&trainSetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrClassifierNotFound
		}
		return fmt.Errorf("lock classifier: %w", err)
	}
	if trainSetID != nil {
		return domain.ErrTrainingAlreadyBegun
	}

	var trainID, devID int64
	if err := tx.QueryRow(ctx, `INSERT INTO labeled_set DEFAULT VALUES RETURNING id`).Scan(&trainID); err != nil {
		return fmt.Errorf("create train set: %w", err)
	}
	if err := tx.QueryRow(ctx, `INSERT INTO labeled_set DEFAULT VALUES RETURNING id`).Scan(&devID); err != nil {
		return fmt.Errorf("create dev set: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE classifier SET train_set_id = $1, dev_set_id = $2, updated_at = NOW()
		WHERE id = $3
	`, trainID, devID, classifierID)
	if err != nil {
		return fmt.Errorf("attach sets: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *classifierRepo) MarkTrainingCompleted(ctx context.Context, classifierID int64, metrics domain.Metrics) error {
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE labeled_set
		SET training_or_inference_completed = TRUE,
			metrics = CASE WHEN id = (SELECT dev_set_id FROM classifier WHERE id = $1)
						   THEN $2::jsonb ELSE metrics END,
			updated_at = NOW()
		WHERE id IN (
			SELECT train_set_id FROM classifier WHERE id = $1
			UNION
			SELECT dev_set_id FROM classifier WHERE id = $1
		)
	`, classifierID, metricsJSON)
	if err != nil {
		return fmt.Errorf("mark training completed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrClassifierNotFound
	}
	return nil
}

func (r *classifierRepo) MarkTrainingFailed(ctx context.Context, classifierID int64, message string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE labeled_set
		SET error_encountered = TRUE, error_message = $2, updated_at = NOW()
		WHERE id IN (
			SELECT train_set_id FROM classifier WHERE id = $1
			UNION
			SELECT dev_set_id FROM classifier WHERE id = $1
		)
	`, classifierID, message)
	if err != nil {
		return fmt.Errorf("mark training failed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrClassifierNotFound
	}
	return nil
}

func scanClassifier(row pgx.Row) (*domain.Classifier, error) {
	clsf := &domain.Classifier{}
	var categoriesJSON []byte

	train := nullableLabeledSet{}
	dev := nullableLabeledSet{}

	err := row.Scan(
		&clsf.ID, &clsf.CreatedAt, &clsf.UpdatedAt, &clsf.Name, &categoriesJSON,
		&clsf.NotifyAtEmail, &clsf.TrainedByOpenFraming,
		&train.id, &train.createdAt, &train.updatedAt, &train.completed,
		&train.errorEncountered, &train.errorMessage, &train.metricsJSON,
		&dev.id, &dev.createdAt, &dev.updatedAt, &dev.completed,
		&dev.errorEncountered, &dev.errorMessage, &dev.metricsJSON,
	)
	if err != nil {
		return nil, err
	}

	if len(categoriesJSON) > 0 {
		if err := json.Unmarshal(categoriesJSON, &clsf.CategoryNames); err != nil {
			return nil, fmt.Errorf("unmarshal category names: %w", err)
		}
	}

	if clsf.TrainSet, err = train.toDomain(); err != nil {
		return nil, err
	}
	if clsf.DevSet, err = dev.toDomain(); err != nil {
		return nil, err
	}
	return clsf, nil
}
