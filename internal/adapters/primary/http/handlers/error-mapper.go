package handlers

import (
	"errors"
	"net/http"

	"openframing-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrClassifierNotFound),
		errors.Is(err, domain.ErrTestSetNotFound),
		errors.Is(err, domain.ErrTopicModelNotFound),
		errors.Is(err, domain.ErrPredictionsNotReady),
		errors.Is(err, domain.ErrTopicPreviewNotReady),
		errors.Is(err, domain.ErrTrainingFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrClassifierNameConflict),
		errors.Is(err, domain.ErrTopicModelNameConflict),
		errors.Is(err, domain.ErrTrainingAlreadyBegun),
		errors.Is(err, domain.ErrInferenceAlreadyBegun),
		errors.Is(err, domain.ErrTopicModelHasCorpus):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Unprocessable uploads
	case errors.Is(err, domain.ErrWrongHeaders),
		errors.Is(err, domain.ErrCategoryMismatch),
		errors.Is(err, domain.ErrCategoryTooFewExamples):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidClassifierName),
		errors.Is(err, domain.ErrTooFewCategories),
		errors.Is(err, domain.ErrInvalidCategoryName),
		errors.Is(err, domain.ErrDuplicateCategoryName),
		errors.Is(err, domain.ErrInvalidTestSetName),
		errors.Is(err, domain.ErrInvalidTopicModelName),
		errors.Is(err, domain.ErrInvalidNumTopics),
		errors.Is(err, domain.ErrInvalidTopicNames),
		errors.Is(err, domain.ErrNotValidCSV),
		errors.Is(err, domain.ErrWrongNumColumns),
		errors.Is(err, domain.ErrTooFewExamples),
		errors.Is(err, domain.ErrTooFewDocuments),
		errors.Is(err, domain.ErrClassifierNotTrained),
		errors.Is(err, domain.ErrCannotDeleteTraining):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
