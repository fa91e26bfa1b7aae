package handlers

import (
	"net/http"
	"strconv"

	"openframing-service/internal/adapters/primary/http/dto"
	"openframing-service/internal/datafiles"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CreateTestSet(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classifier id"})
		return
	}

	var req dto.CreateTestSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts, err := h.testSetSvc.Create(c.Request.Context(), id, req.Name, req.NotifyAtEmail)
	if err != nil {
		log.WithError(err).Error("create test set failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTestSetResponse(ts))
}

func (h *Handler) ListTestSets(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid classifier id"})
		return
	}

	sets, err := h.testSetSvc.List(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.TestSetResponse, 0, len(sets))
	for _, ts := range sets {
		items = append(items, dto.ToTestSetResponse(ts))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetTestSet(c *gin.Context) {
	id, tsID, err := testSetIDs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ts, err := h.testSetSvc.Get(c.Request.Context(), id, tsID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTestSetResponse(ts))
}

// UploadTestSetFile accepts a multipart "file" form field holding the
// [id, example] CSV and kicks off prediction.
func (h *Handler) UploadTestSetFile(c *gin.Context) {
	id, tsID, err := testSetIDs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
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

	ts, err := h.testSetSvc.UploadTestFile(c.Request.Context(), id, tsID, file)
	if err != nil {
		log.WithError(err).WithField("test_set_id", tsID).Error("upload test set file failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTestSetResponse(ts))
}

func (h *Handler) GetTestSetProgress(c *gin.Context) {
	id, tsID, err := testSetIDs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	tp, err := h.progressSvc.ForTestSet(c.Request.Context(), id, tsID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTestSetProgressResponse(tp.TestSet, tp.Progress))
}

func (h *Handler) DownloadPredictions(c *gin.Context) {
	id, tsID, err := testSetIDs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	path, err := h.testSetSvc.PredictionsFile(c.Request.Context(), id, tsID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.FileAttachment(path, datafiles.PredictionsFileName)
}

func testSetIDs(c *gin.Context) (classifierID, testSetID int64, err error) {
	classifierID, err = strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	testSetID, err = strconv.ParseInt(c.Param("test_set_id"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return classifierID, testSetID, nil
}
