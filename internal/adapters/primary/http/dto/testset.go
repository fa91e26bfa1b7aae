package dto

import "openframing-service/internal/core/domain"

type CreateTestSetRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	NotifyAtEmail string `json:"notify_at_email" binding:"omitempty,email"`
}

type TestSetResponse struct {
	TestSetID     int64  `json:"test_set_id"`
	ClassifierID  int64  `json:"classifier_id"`
	Name          string `json:"name"`
	NotifyAtEmail string `json:"notify_at_email,omitempty"`
	Status        string `json:"status"`
}

func ToTestSetResponse(ts *domain.TestSet) TestSetResponse {
	return TestSetResponse{
		TestSetID:     ts.ID,
		ClassifierID:  ts.ClassifierID,
		Name:          ts.Name,
		NotifyAtEmail: ts.NotifyAtEmail,
		Status:        string(ts.Status()),
	}
}
