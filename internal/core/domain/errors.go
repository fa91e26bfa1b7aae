package domain

import "errors"

// Not found errors
var (
	ErrClassifierNotFound   = errors.New("classifier not found")
	ErrTestSetNotFound      = errors.New("test set not found")
	ErrTopicModelNotFound   = errors.New("topic model not found")
	ErrPredictionsNotReady  = errors.New("predictions are not ready yet")
	ErrTopicPreviewNotReady = errors.New("topic model has not finished training")
	ErrTrainingFileNotFound = errors.New("no training file has been uploaded")
)

// Conflict errors
var (
	ErrClassifierNameConflict = errors.New("classifier with this name already exists")
	ErrTopicModelNameConflict = errors.New("topic model with this name already exists")
	ErrTrainingAlreadyBegun   = errors.New("this classifier already has a training set")
	ErrInferenceAlreadyBegun  = errors.New("this test set already has an uploaded file")
	ErrTopicModelHasCorpus    = errors.New("this topic model already has a training file")
)

// Validation errors
var (
	ErrInvalidClassifierName = errors.New("classifier name is required")
	ErrTooFewCategories      = errors.New("at least two category names are required")
	ErrInvalidCategoryName   = errors.New("category names must be non-empty and may not contain commas")
	ErrDuplicateCategoryName = errors.New("category names must be unique")
	ErrInvalidTestSetName    = errors.New("test set name is required")
	ErrInvalidTopicModelName = errors.New("topic model name is required")
	ErrInvalidNumTopics      = errors.New("number of topics must be at least two")
	ErrInvalidTopicNames     = errors.New("one name per topic is required")
)

// Uploaded file errors
var (
	ErrNotValidCSV            = errors.New("the uploaded file could not be parsed as CSV")
	ErrWrongNumColumns        = errors.New("the uploaded file must have exactly the expected columns")
	ErrWrongHeaders           = errors.New("the uploaded file has unexpected column headers")
	ErrTooFewExamples         = errors.New("not enough labelled examples were provided")
	ErrCategoryMismatch       = errors.New("the categories in the file do not match the classifier's categories")
	ErrCategoryTooFewExamples = errors.New("every category needs at least two examples")
	ErrClassifierNotTrained   = errors.New("classifier training has not completed")
	ErrTooFewDocuments        = errors.New("the corpus must contain at least as many documents as topics")
)

// Business rule errors
var (
	ErrCannotDeleteTraining = errors.New("cannot delete a classifier while it is training")
)
