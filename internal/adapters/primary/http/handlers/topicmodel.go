package handlers

import (
	"net/http"

	"openframing-service/internal/adapters/primary/http/dto"
	"openframing-service/internal/datafiles"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CreateTopicModel(c *gin.Context) {
	var req dto.CreateTopicModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tm, err := h.topicModelSvc.Create(c.Request.Context(), req.Name, req.NumTopics, req.Iterations, req.NotifyAtEmail)
	if err != nil {
		log.WithError(err).Error("create topic model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTopicModelResponse(tm))
}

func (h *Handler) ListTopicModels(c *gin.Context) {
	models, err := h.topicModelSvc.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list topic models failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.TopicModelResponse, 0, len(models))
	for _, tm := range models {
		items = append(items, dto.ToTopicModelResponse(tm))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetTopicModel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic model id"})
		return
	}

	tm, err := h.topicModelSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicModelResponse(tm))
}

// UploadTopicModelFile accepts a multipart "file" form field holding the
// [id, text] corpus CSV and kicks off topic modeling.
func (h *Handler) UploadTopicModelFile(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic model id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a \"file\" form field is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	tm, err := h.topicModelSvc.UploadCorpus(c.Request.Context(), id, file)
	if err != nil {
		log.WithError(err).WithField("topic_model_id", id).Error("upload corpus failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicModelResponse(tm))
}

func (h *Handler) GetTopicModelProgress(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic model id"})
		return
	}

	tp, err := h.progressSvc.ForTopicModel(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicModelProgressResponse(tp.TopicModel, tp.Progress))
}

func (h *Handler) PreviewTopics(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic model id"})
		return
	}

	tm, err := h.topicModelSvc.Preview(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicPreviewResponse(tm))
}

func (h *Handler) NameTopics(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic model id"})
		return
	}

	var req dto.NameTopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tm, err := h.topicModelSvc.SetTopicNames(c.Request.Context(), id, req.TopicNames)
	if err != nil {
		log.WithError(err).Error("name topics failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTopicModelResponse(tm))
}

func (h *Handler) DownloadKeywords(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic model id"})
		return
	}

	path, err := h.topicModelSvc.KeywordsFile(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.FileAttachment(path, datafiles.KeywordsFileName)
}
