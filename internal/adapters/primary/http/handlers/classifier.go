package handlers

import (
	"net/http"
	"strconv"

	"openframing-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CreateClassifier(c *gin.Context) {
	var req dto.CreateClassifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clsf, err := h.classifierSvc.Create(c.Request.Context(), req.Name, req.NotifyAtEmail, req.CategoryNames)
	if err != nil {
		log.WithError(err).Error("create classifier failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToClassifierStatusResponse(clsf))
}

func (h *Handler) ListClassifiers(c *gin.Context) {
	classifiers, err := h.classifierSvc.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list classifiers failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ClassifierStatusResponse, 0, len(classifiers))
	for _, clsf := range classifiers {
		items = append(items, dto.ToClassifierStatusResponse(clsf))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetClassifier(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classifier id"})
		return
	}

	clsf, err := h.classifierSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToClassifierStatusResponse(clsf))
}

func (h *Handler) DeleteClassifier(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classifier id"})
		return
	}

	if err := h.classifierSvc.Delete(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("delete classifier failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// UploadTrainingFile accepts a multipart "file" form field holding the
// [example, category] CSV and kicks off training.
func (h *Handler) UploadTrainingFile(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classifier id"})
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

	clsf, err := h.classifierSvc.UploadTrainingData(c.Request.Context(), id, file)
	if err != nil {
		log.WithError(err).WithField("classifier_id", id).Error("upload training file failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToClassifierStatusResponse(clsf))
}

func (h *Handler) GetClassifierProgress(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classifier id"})
		return
	}

	cp, err := h.progressSvc.ForClassifier(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToClassifierProgressResponse(cp.Classifier, cp.Progress))
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
