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

func trainedClassifier(id int64) *domain.Classifier {
	return &domain.Classifier{
		ID:            id,
		CategoryNames: []string{"economic", "health"},
		TrainSet:      &domain.LabeledSet{TrainingOrInferenceCompleted: true},
		DevSet:        &domain.LabeledSet{TrainingOrInferenceCompleted: true},
	}
}

func TestCreateTestSet(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(trainedClassifier(1), nil)
	m.testSets.On("Create", mock.Anything, mock.AnythingOfType("*domain.TestSet")).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{"name": "tweets"})
	req, _ := http.NewRequest("POST", "/classifiers/1/test_sets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tweets", resp["name"])
	assert.Equal(t, "not_begun", resp["status"])
}

func TestCreateTestSet_ClassifierNotFound(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("GetByID", mock.Anything, int64(9)).Return(nil, domain.ErrClassifierNotFound)

	body, _ := json.Marshal(map[string]interface{}{"name": "tweets"})
	req, _ := http.NewRequest("POST", "/classifiers/9/test_sets", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTestSets(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(trainedClassifier(1), nil)
	sets := []*domain.TestSet{
		{ID: 1, ClassifierID: 1, Name: "a"},
		{ID: 2, ClassifierID: 1, Name: "b", InferenceBegan: true},
	}
	m.testSets.On("ListByClassifier", mock.Anything, int64(1)).Return(sets, nil)

	req, _ := http.NewRequest("GET", "/classifiers/1/test_sets", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestUploadTestSetFile(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(trainedClassifier(1), nil)
	fresh := &domain.TestSet{ID: 2, ClassifierID: 1, Name: "tweets"}
	running := &domain.TestSet{ID: 2, ClassifierID: 1, Name: "tweets", InferenceBegan: true}
	m.testSets.On("GetByID", mock.Anything, int64(1), int64(2)).Return(fresh, nil).Once()
	m.testSets.On("MarkInferenceBegan", mock.Anything, int64(2)).Return(nil)
	m.progress.On("Set", mock.Anything, mock.Anything).Return(nil)
	m.queue.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
	m.testSets.On("GetByID", mock.Anything, int64(1), int64(2)).Return(running, nil).Once()

	body, contentType := multipartFile(t, "id,example\n1,taxes are rising\n2,hospitals are full\n")
	req, _ := http.NewRequest("POST", "/classifiers/1/test_sets/2/file", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "predicting", resp["status"])
}

func TestUploadTestSetFile_NotTrained(t *testing.T) {
	m, r := setupRouter(t)

	untrained := &domain.Classifier{ID: 1, CategoryNames: []string{"a", "b"}}
	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(untrained, nil)

	body, contentType := multipartFile(t, "id,example\n1,hello\n")
	req, _ := http.NewRequest("POST", "/classifiers/1/test_sets/2/file", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTestSetProgress(t *testing.T) {
	m, r := setupRouter(t)

	running := &domain.TestSet{ID: 2, ClassifierID: 1, InferenceBegan: true}
	m.testSets.On("GetByID", mock.Anything, int64(1), int64(2)).Return(running, nil)
	m.progress.On("Get", mock.Anything, domain.ProgressScopeTestSet, int64(2)).Return(&domain.Progress{
		Percent: 60, Stage: domain.StagePredicting,
	}, nil)

	req, _ := http.NewRequest("GET", "/classifiers/1/test_sets/2/progress", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 60.0, resp["progress"])
	assert.Equal(t, "predicting", resp["stage"])
}

func TestDownloadPredictions(t *testing.T) {
	m, r := setupRouter(t)

	done := &domain.TestSet{ID: 2, ClassifierID: 1, InferenceBegan: true, InferenceCompleted: true}
	m.testSets.On("GetByID", mock.Anything, int64(1), int64(2)).Return(done, nil)

	path := m.files.PredictionsFile(1, 2)
	assert.NoError(t, m.files.WriteCSV(path, []string{"id", "example", "predicted_category"}, [][]string{{"1", "taxes", "economic"}}))

	req, _ := http.NewRequest("GET", "/classifiers/1/test_sets/2/predictions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "predictions.csv")
	assert.Contains(t, w.Body.String(), "predicted_category")
}

func TestDownloadPredictions_NotReady(t *testing.T) {
	m, r := setupRouter(t)

	pending := &domain.TestSet{ID: 2, ClassifierID: 1, InferenceBegan: true}
	m.testSets.On("GetByID", mock.Anything, int64(1), int64(2)).Return(pending, nil)

	req, _ := http.NewRequest("GET", "/classifiers/1/test_sets/2/predictions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
