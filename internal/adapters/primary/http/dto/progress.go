package dto

import "openframing-service/internal/core/domain"

// ProgressResponse reports how far along a background job is, 0-100.
type ProgressResponse struct {
	Progress float64 `json:"progress"`
	Stage    string  `json:"stage"`
	Message  string  `json:"message,omitempty"`
}

type ClassifierProgressResponse struct {
	ClassifierID   int64            `json:"classifier_id"`
	TrainingStatus string           `json:"training_status"`
	ProgressResponse
	Metrics *MetricsResponse `json:"metrics,omitempty"`
}

type TopicModelProgressResponse struct {
	TopicModelID int64  `json:"topic_model_id"`
	Status       string `json:"status"`
	ProgressResponse
}

type TestSetProgressResponse struct {
	TestSetID    int64  `json:"test_set_id"`
	ClassifierID int64  `json:"classifier_id"`
	Status       string `json:"status"`
	ProgressResponse
}

func toProgressResponse(p domain.Progress) ProgressResponse {
	return ProgressResponse{
		Progress: p.Percent,
		Stage:    string(p.Stage),
		Message:  p.Message,
	}
}

func ToClassifierProgressResponse(clsf *domain.Classifier, p domain.Progress) ClassifierProgressResponse {
	return ClassifierProgressResponse{
		ClassifierID:     clsf.ID,
		TrainingStatus:   string(clsf.TrainingStatus()),
		ProgressResponse: toProgressResponse(p),
		Metrics:          ToMetricsResponse(clsf.DevMetrics()),
	}
}

func ToTopicModelProgressResponse(tm *domain.TopicModel, p domain.Progress) TopicModelProgressResponse {
	return TopicModelProgressResponse{
		TopicModelID:     tm.ID,
		Status:           string(tm.Status()),
		ProgressResponse: toProgressResponse(p),
	}
}

func ToTestSetProgressResponse(ts *domain.TestSet, p domain.Progress) TestSetProgressResponse {
	return TestSetProgressResponse{
		TestSetID:        ts.ID,
		ClassifierID:     ts.ClassifierID,
		Status:           string(ts.Status()),
		ProgressResponse: toProgressResponse(p),
	}
}
