package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"openframing-service/internal/core/domain"
)

func TestCreateTopicModel(t *testing.T) {
	m, r := setupRouter(t)

	m.topicModels.On("Create", mock.Anything, mock.AnythingOfType("*domain.TopicModel")).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":       "frames",
		"num_topics": 5,
	})
	req, _ := http.NewRequest("POST", "/topic_models", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "frames", resp["name"])
	assert.Equal(t, float64(5), resp["num_topics"])
	assert.Equal(t, "not_begun", resp["status"])
}

func TestCreateTopicModel_TooFewTopics(t *testing.T) {
	_, r := setupRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"name":       "frames",
		"num_topics": 1,
	})
	req, _ := http.NewRequest("POST", "/topic_models", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadTopicModelFile(t *testing.T) {
	m, r := setupRouter(t)

	fresh := &domain.TopicModel{ID: 3, Name: "frames", NumTopics: 2, Iterations: 100}
	running := &domain.TopicModel{ID: 3, Name: "frames", NumTopics: 2, Iterations: 100, TrainingBegan: true}
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(fresh, nil).Once()
	m.topicModels.On("MarkTrainingBegan", mock.Anything, int64(3)).Return(nil)
	m.progress.On("Set", mock.Anything, mock.Anything).Return(nil)
	m.queue.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(running, nil).Once()

	body, contentType := multipartFile(t, "id,text\n1,taxes and the economy\n2,hospitals and doctors\n")
	req, _ := http.NewRequest("POST", "/topic_models/3/training/file", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "training", resp["status"])
}

func TestUploadTopicModelFile_AlreadyHasCorpus(t *testing.T) {
	m, r := setupRouter(t)

	began := &domain.TopicModel{ID: 3, NumTopics: 2, TrainingBegan: true}
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(began, nil)

	body, contentType := multipartFile(t, "id,text\n1,hello\n2,world\n")
	req, _ := http.NewRequest("POST", "/topic_models/3/training/file", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetTopicModelProgress(t *testing.T) {
	m, r := setupRouter(t)

	running := &domain.TopicModel{ID: 3, NumTopics: 2, TrainingBegan: true}
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(running, nil)
	m.progress.On("Get", mock.Anything, domain.ProgressScopeTopicModel, int64(3)).Return(&domain.Progress{
		Percent: 45, Stage: domain.StageSampling,
	}, nil)

	req, _ := http.NewRequest("GET", "/topic_models/3/progress", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 45.0, resp["progress"])
	assert.Equal(t, "sampling", resp["stage"])
	assert.Equal(t, "training", resp["status"])
}

func TestPreviewTopics(t *testing.T) {
	m, r := setupRouter(t)

	done := &domain.TopicModel{
		ID: 3, Name: "frames", NumTopics: 2, TrainingBegan: true, LDACompleted: true,
		Topics: []domain.Topic{
			{Keywords: []string{"taxes", "economy"}, Proportion: 0.6},
			{Keywords: []string{"health", "hospital"}, Proportion: 0.4},
		},
	}
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(done, nil)

	req, _ := http.NewRequest("GET", "/topic_models/3/topics/preview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	topics := resp["topics"].([]interface{})
	assert.Len(t, topics, 2)
}

func TestPreviewTopics_NotReady(t *testing.T) {
	m, r := setupRouter(t)

	running := &domain.TopicModel{ID: 3, NumTopics: 2, TrainingBegan: true}
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(running, nil)

	req, _ := http.NewRequest("GET", "/topic_models/3/topics/preview", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNameTopics(t *testing.T) {
	m, r := setupRouter(t)

	done := &domain.TopicModel{ID: 3, NumTopics: 2, TrainingBegan: true, LDACompleted: true}
	named := &domain.TopicModel{ID: 3, NumTopics: 2, TrainingBegan: true, LDACompleted: true, TopicNames: []string{"economy", "health"}}
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(done, nil).Once()
	m.topicModels.On("SetTopicNames", mock.Anything, int64(3), []string{"economy", "health"}).Return(nil)
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(named, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"topic_names": []string{"economy", "health"}})
	req, _ := http.NewRequest("POST", "/topic_models/3/topics/names", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []interface{}{"economy", "health"}, resp["topic_names"])
}

func TestNameTopics_WrongCount(t *testing.T) {
	m, r := setupRouter(t)

	done := &domain.TopicModel{ID: 3, NumTopics: 2, TrainingBegan: true, LDACompleted: true}
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(done, nil)

	body, _ := json.Marshal(map[string]interface{}{"topic_names": []string{"only"}})
	req, _ := http.NewRequest("POST", "/topic_models/3/topics/names", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadKeywords(t *testing.T) {
	m, r := setupRouter(t)

	done := &domain.TopicModel{ID: 3, NumTopics: 2, TrainingBegan: true, LDACompleted: true}
	m.topicModels.On("GetByID", mock.Anything, int64(3)).Return(done, nil)

	path := m.files.KeywordsFile(3)
	assert.NoError(t, m.files.WriteCSV(path, []string{"topic", "proportion", "keywords"}, [][]string{{"topic_1", "0.6", "taxes economy"}}))

	req, _ := http.NewRequest("GET", "/topic_models/3/keywords", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "keywords.csv")
}
