package handlers

import (
	"openframing-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	classifierSvc *services.ClassifierService
	testSetSvc    *services.TestSetService
	topicModelSvc *services.TopicModelService
	progressSvc   *services.ProgressService
}

func New(
	classifierSvc *services.ClassifierService,
	testSetSvc *services.TestSetService,
	topicModelSvc *services.TopicModelService,
	progressSvc *services.ProgressService,
) *Handler {
	return &Handler{
		classifierSvc: classifierSvc,
		testSetSvc:    testSetSvc,
		topicModelSvc: topicModelSvc,
		progressSvc:   progressSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Classifiers
	r.POST("/classifiers", h.CreateClassifier)
	r.GET("/classifiers", h.ListClassifiers)
	r.GET("/classifiers/:id", h.GetClassifier)
	r.DELETE("/classifiers/:id", h.DeleteClassifier)
	r.POST("/classifiers/:id/training/file", h.UploadTrainingFile)
	r.GET("/classifiers/:id/progress", h.GetClassifierProgress)

	// Test sets (nested under classifier)
	r.POST("/classifiers/:id/test_sets", h.CreateTestSet)
	r.GET("/classifiers/:id/test_sets", h.ListTestSets)
	r.GET("/classifiers/:id/test_sets/:test_set_id", h.GetTestSet)
	r.POST("/classifiers/:id/test_sets/:test_set_id/file", h.UploadTestSetFile)
	r.GET("/classifiers/:id/test_sets/:test_set_id/progress", h.GetTestSetProgress)
	r.GET("/classifiers/:id/test_sets/:test_set_id/predictions", h.DownloadPredictions)

	// Topic models
	r.POST("/topic_models", h.CreateTopicModel)
	r.GET("/topic_models", h.ListTopicModels)
	r.GET("/topic_models/:id", h.GetTopicModel)
	r.POST("/topic_models/:id/training/file", h.UploadTopicModelFile)
	r.GET("/topic_models/:id/progress", h.GetTopicModelProgress)
	r.GET("/topic_models/:id/topics/preview", h.PreviewTopics)
	r.POST("/topic_models/:id/topics/names", h.NameTopics)
	r.GET("/topic_models/:id/keywords", h.DownloadKeywords)
}
