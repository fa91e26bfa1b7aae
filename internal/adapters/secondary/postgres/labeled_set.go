package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"openframing-service/internal/core/domain"
)

// nullableLabeledSet scans the LEFT JOINed labeled_set columns, which are all
// NULL when the classifier has no sets yet.
type nullableLabeledSet struct {
	id               *int64
	createdAt        *time.Time
	updatedAt        *time.Time
	completed        *bool
	errorEncountered *bool
	errorMessage     *string
	metricsJSON      []byte
}

func (n *nullableLabeledSet) toDomain() (*domain.LabeledSet, error) {
	if n.id == nil {
		return nil, nil
	}

	set := &domain.LabeledSet{
		ID:                           *n.id,
		CreatedAt:                    *n.createdAt,
		UpdatedAt:                    *n.updatedAt,
		TrainingOrInferenceCompleted: *n.completed,
		ErrorEncountered:             *n.errorEncountered,
	}
	if n.errorMessage != nil {
		set.ErrorMessage = *n.errorMessage
	}
	if len(n.metricsJSON) > 0 {
		set.Metrics = &domain.Metrics{}
		if err := json.Unmarshal(n.metricsJSON, set.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
	}
	return set, nil
}
