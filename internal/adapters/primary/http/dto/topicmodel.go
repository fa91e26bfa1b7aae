package dto

import "openframing-service/internal/core/domain"

type CreateTopicModelRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	NumTopics     int    `json:"num_topics" binding:"required"`
	Iterations    int    `json:"iterations"`
	NotifyAtEmail string `json:"notify_at_email" binding:"omitempty,email"`
}

type NameTopicsRequest struct {
	TopicNames []string `json:"topic_names" binding:"required"`
}

type TopicModelResponse struct {
	TopicModelID  int64    `json:"topic_model_id"`
	Name          string   `json:"name"`
	NumTopics     int      `json:"num_topics"`
	Iterations    int      `json:"iterations"`
	NotifyAtEmail string   `json:"notify_at_email,omitempty"`
	TopicNames    []string `json:"topic_names"`
	Status        string   `json:"status"`
}

type TopicPreviewResponse struct {
	TopicModelID int64           `json:"topic_model_id"`
	Name         string          `json:"name"`
	Topics       []TopicResponse `json:"topics"`
}

type TopicResponse struct {
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords"`
	Proportion float64  `json:"proportion"`
}

func ToTopicModelResponse(tm *domain.TopicModel) TopicModelResponse {
	names := tm.TopicNames
	if names == nil {
		names = []string{}
	}
	return TopicModelResponse{
		TopicModelID:  tm.ID,
		Name:          tm.Name,
		NumTopics:     tm.NumTopics,
		Iterations:    tm.Iterations,
		NotifyAtEmail: tm.NotifyAtEmail,
		TopicNames:    names,
		Status:        string(tm.Status()),
	}
}

func ToTopicPreviewResponse(tm *domain.TopicModel) TopicPreviewResponse {
	topics := make([]TopicResponse, 0, len(tm.Topics))
	for k, topic := range tm.Topics {
		name := ""
		if k < len(tm.TopicNames) {
			name = tm.TopicNames[k]
		}
		topics = append(topics, TopicResponse{
			Name:       name,
			Keywords:   topic.Keywords,
			Proportion: topic.Proportion,
		})
	}
	return TopicPreviewResponse{
		TopicModelID: tm.ID,
		Name:         tm.Name,
		Topics:       topics,
	}
}
