package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"openframing-service/internal/core/domain"
	"openframing-service/internal/core/services"
	"openframing-service/internal/datafiles"
	"openframing-service/internal/testutil"
)

type testMocks struct {
	classifiers *testutil.MockClassifierRepo
	testSets    *testutil.MockTestSetRepo
	topicModels *testutil.MockTopicModelRepo
	queue       *testutil.MockJobQueue
	progress    *testutil.MockProgressStore
	files       *datafiles.Store
}

func setupRouter(t *testing.T) (*testMocks, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := &testMocks{
		classifiers: new(testutil.MockClassifierRepo),
		testSets:    new(testutil.MockTestSetRepo),
		topicModels: new(testutil.MockTopicModelRepo),
		queue:       new(testutil.MockJobQueue),
		progress:    new(testutil.MockProgressStore),
		files:       datafiles.NewStore(t.TempDir()),
	}

	classifierSvc := services.NewClassifierService(m.classifiers, m.queue, m.progress, m.files)
	testSetSvc := services.NewTestSetService(m.testSets, m.classifiers, m.queue, m.progress, m.files)
	topicModelSvc := services.NewTopicModelService(m.topicModels, m.queue, m.progress, m.files)
	progressSvc := services.NewProgressService(m.classifiers, m.testSets, m.topicModels, m.progress)

	h := New(classifierSvc, testSetSvc, topicModelSvc, progressSvc)
	r := gin.New()
	h.RegisterRoutes(&r.RouterGroup)

	return m, r
}

// multipartFile builds a multipart body with a single "file" field.
func multipartFile(t *testing.T, contents string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "upload.csv")
	assert.NoError(t, err)
	_, err = fw.Write([]byte(contents))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCreateClassifier(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("Create", mock.Anything, mock.AnythingOfType("*domain.Classifier")).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":           "framing",
		"category_names": []string{"economic", "health"},
	})
	req, _ := http.NewRequest("POST", "/classifiers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "framing", resp["name"])
	assert.Equal(t, "not_begun", resp["training_status"])
	assert.Equal(t, true, resp["trained_by_openFraming"])
}

func TestCreateClassifier_MissingName(t *testing.T) {
	_, r := setupRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"category_names": []string{"economic", "health"},
	})
	req, _ := http.NewRequest("POST", "/classifiers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateClassifier_TooFewCategories(t *testing.T) {
	_, r := setupRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"name":           "framing",
		"category_names": []string{"only"},
	})
	req, _ := http.NewRequest("POST", "/classifiers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateClassifier_NameConflict(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("Create", mock.Anything, mock.AnythingOfType("*domain.Classifier")).
		Return(domain.ErrClassifierNameConflict)

	body, _ := json.Marshal(map[string]interface{}{
		"name":           "dup",
		"category_names": []string{"a", "b"},
	})
	req, _ := http.NewRequest("POST", "/classifiers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListClassifiers(t *testing.T) {
	m, r := setupRouter(t)

	classifiers := []*domain.Classifier{
		{ID: 0, Name: "c0", CategoryNames: []string{"a", "b"}},
		{ID: 1, Name: "c1", CategoryNames: []string{"a", "b"}},
	}
	m.classifiers.On("List", mock.Anything).Return(classifiers, nil)

	req, _ := http.NewRequest("GET", "/classifiers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestGetClassifier(t *testing.T) {
	m, r := setupRouter(t)

	clsf := &domain.Classifier{ID: 1, Name: "framing", CategoryNames: []string{"a", "b"}}
	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(clsf, nil)

	req, _ := http.NewRequest("GET", "/classifiers/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetClassifier_NotFound(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrClassifierNotFound)

	req, _ := http.NewRequest("GET", "/classifiers/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetClassifier_InvalidID(t *testing.T) {
	_, r := setupRouter(t)

	req, _ := http.NewRequest("GET", "/classifiers/not-a-number", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteClassifier(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(&domain.Classifier{ID: 1}, nil)
	m.classifiers.On("Delete", mock.Anything, int64(1)).Return(nil)

	req, _ := http.NewRequest("DELETE", "/classifiers/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteClassifier_WhileTraining(t *testing.T) {
	m, r := setupRouter(t)

	training := &domain.Classifier{ID: 1, TrainSet: &domain.LabeledSet{}}
	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(training, nil)

	req, _ := http.NewRequest("DELETE", "/classifiers/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

const uploadCSV = "example,category\n" +
	"taxes up,economic\ntrade deal,economic\nbudget cut,economic\njobs report,economic\nwage growth,economic\n" +
	"flu season,health\nhospital beds,health\nvaccine drive,health\ndoctor visit,health\nclinic opens,health\n"

func TestUploadTrainingFile(t *testing.T) {
	m, r := setupRouter(t)

	fresh := &domain.Classifier{ID: 1, CategoryNames: []string{"economic", "health"}}
	training := &domain.Classifier{ID: 1, CategoryNames: []string{"economic", "health"}, TrainSet: &domain.LabeledSet{}}
	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(fresh, nil).Once()
	m.classifiers.On("AttachSets", mock.Anything, int64(1)).Return(nil)
	m.progress.On("Set", mock.Anything, mock.Anything).Return(nil)
	m.queue.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(training, nil).Once()

	body, contentType := multipartFile(t, uploadCSV)
	req, _ := http.NewRequest("POST", "/classifiers/1/training/file", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "training", resp["training_status"])
}

func TestUploadTrainingFile_MissingFile(t *testing.T) {
	_, r := setupRouter(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	assert.NoError(t, w.Close())

	req, _ := http.NewRequest("POST", "/classifiers/1/training/file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadTrainingFile_WrongHeaders(t *testing.T) {
	m, r := setupRouter(t)

	fresh := &domain.Classifier{ID: 1, CategoryNames: []string{"economic", "health"}}
	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(fresh, nil)

	body, contentType := multipartFile(t, "text,label\nx,economic\n")
	req, _ := http.NewRequest("POST", "/classifiers/1/training/file", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUploadTrainingFile_AlreadyBegun(t *testing.T) {
	m, r := setupRouter(t)

	training := &domain.Classifier{ID: 1, CategoryNames: []string{"economic", "health"}, TrainSet: &domain.LabeledSet{}}
	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(training, nil)

	body, contentType := multipartFile(t, uploadCSV)
	req, _ := http.NewRequest("POST", "/classifiers/1/training/file", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// Every registered classifier answers its progress route with 200 and a
// well-formed JSON body, whatever state its training is in.
func TestGetClassifierProgress_AllStates(t *testing.T) {
	m, r := setupRouter(t)

	states := map[int64]*domain.Classifier{
		0: {ID: 0, Name: "c0", CategoryNames: []string{"a", "b"}},
		1: {ID: 1, Name: "c1", CategoryNames: []string{"a", "b"}, TrainSet: &domain.LabeledSet{}},
		2: {ID: 2, Name: "c2", CategoryNames: []string{"a", "b"},
			TrainSet: &domain.LabeledSet{TrainingOrInferenceCompleted: true},
			DevSet:   &domain.LabeledSet{TrainingOrInferenceCompleted: true, Metrics: &domain.Metrics{Accuracy: 0.9}}},
	}
	for id, clsf := range states {
		m.classifiers.On("GetByID", mock.Anything, id).Return(clsf, nil)
		m.progress.On("Get", mock.Anything, domain.ProgressScopeClassifier, id).Return(nil, nil)
	}

	for id := int64(0); id <= 2; id++ {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/classifiers/%d/progress", id), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "classifier %d", id)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "classifier %d", id)
		assert.Equal(t, float64(id), resp["classifier_id"])
		assert.Contains(t, resp, "progress")
		assert.Contains(t, resp, "stage")
		assert.Contains(t, resp, "training_status")
	}
}

func TestGetClassifierProgress_Training(t *testing.T) {
	m, r := setupRouter(t)

	training := &domain.Classifier{ID: 1, CategoryNames: []string{"a", "b"}, TrainSet: &domain.LabeledSet{}}
	m.classifiers.On("GetByID", mock.Anything, int64(1)).Return(training, nil)
	m.progress.On("Get", mock.Anything, domain.ProgressScopeClassifier, int64(1)).Return(&domain.Progress{
		Scope: domain.ProgressScopeClassifier, EntityID: 1, Percent: 37.0, Stage: domain.StageTraining,
	}, nil)

	req, _ := http.NewRequest("GET", "/classifiers/1/progress", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 37.0, resp["progress"])
	assert.Equal(t, "training", resp["stage"])
	assert.Equal(t, "training", resp["training_status"])
}

func TestGetClassifierProgress_NotFound(t *testing.T) {
	m, r := setupRouter(t)

	m.classifiers.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrClassifierNotFound)

	req, _ := http.NewRequest("GET", "/classifiers/42/progress", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
}
