package dto

import "openframing-service/internal/core/domain"

type CreateClassifierRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	CategoryNames []string `json:"category_names" binding:"required"`
	NotifyAtEmail string   `json:"notify_at_email" binding:"omitempty,email"`
}

type MetricsResponse struct {
	Accuracy       float64 `json:"accuracy"`
	MacroPrecision float64 `json:"macro_precision"`
	MacroRecall    float64 `json:"macro_recall"`
	MacroF1Score   float64 `json:"macro_f1_score"`
}

// ClassifierStatusResponse is the status payload every classifier endpoint
// returns. The trained_by_openFraming key keeps its historical spelling.
type ClassifierStatusResponse struct {
	ClassifierID         int64            `json:"classifier_id"`
	Name                 string           `json:"name"`
	TrainedByOpenFraming bool             `json:"trained_by_openFraming"`
	CategoryNames        []string         `json:"category_names"`
	NotifyAtEmail        string           `json:"notify_at_email,omitempty"`
	TrainingStatus       string           `json:"training_status"`
	Metrics              *MetricsResponse `json:"metrics,omitempty"`
}

func ToMetricsResponse(m *domain.Metrics) *MetricsResponse {
	if m == nil {
		return nil
	}
	return &MetricsResponse{
		Accuracy:       m.Accuracy,
		MacroPrecision: m.MacroPrecision,
		MacroRecall:    m.MacroRecall,
		MacroF1Score:   m.MacroF1Score,
	}
}

func ToClassifierStatusResponse(clsf *domain.Classifier) ClassifierStatusResponse {
	categories := clsf.CategoryNames
	if categories == nil {
		categories = []string{}
	}
	return ClassifierStatusResponse{
		ClassifierID:         clsf.ID,
		Name:                 clsf.Name,
		TrainedByOpenFraming: clsf.TrainedByOpenFraming,
		CategoryNames:        categories,
		NotifyAtEmail:        clsf.NotifyAtEmail,
		TrainingStatus:       string(clsf.TrainingStatus()),
		Metrics:              ToMetricsResponse(clsf.DevMetrics()),
	}
}
