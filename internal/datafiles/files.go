// Package datafiles lays out the on-disk project data directory: uploaded
// training files, train/dev splits and job outputs, grouped per entity.
package datafiles

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

const (
	TrainFileName       = "train.csv"
	DevFileName         = "dev.csv"
	TestFileName        = "test.csv"
	PredictionsFileName = "predictions.csv"
	CorpusFileName      = "corpus.csv"
	KeywordsFileName    = "keywords.csv"
	TopicsByDocFileName = "topics_by_doc.csv"
)

type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// Init creates the top-level directories. Called once at startup.
func (s *Store) Init() error {
	for _, dir := range []string{s.supervisedDir(), s.unsupervisedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	return nil
}

func (s *Store) supervisedDir() string {
	return filepath.Join(s.root, "supervised")
}

func (s *Store) unsupervisedDir() string {
	return filepath.Join(s.root, "unsupervised")
}

func (s *Store) ClassifierDir(classifierID int64) string {
	return filepath.Join(s.supervisedDir(), fmt.Sprintf("classifier_%d", classifierID))
}

func (s *Store) TrainFile(classifierID int64) string {
	return filepath.Join(s.ClassifierDir(classifierID), TrainFileName)
}

func (s *Store) DevFile(classifierID int64) string {
	return filepath.Join(s.ClassifierDir(classifierID), DevFileName)
}

func (s *Store) TestSetDir(classifierID, testSetID int64) string {
	return filepath.Join(s.ClassifierDir(classifierID), fmt.Sprintf("test_set_%d", testSetID))
}

func (s *Store) TestFile(classifierID, testSetID int64) string {
	return filepath.Join(s.TestSetDir(classifierID, testSetID), TestFileName)
}

func (s *Store) PredictionsFile(classifierID, testSetID int64) string {
	return filepath.Join(s.TestSetDir(classifierID, testSetID), PredictionsFileName)
}

func (s *Store) TopicModelDir(topicModelID int64) string {
	return filepath.Join(s.unsupervisedDir(), fmt.Sprintf("topic_model_%d", topicModelID))
}

func (s *Store) CorpusFile(topicModelID int64) string {
	return filepath.Join(s.TopicModelDir(topicModelID), CorpusFileName)
}

func (s *Store) KeywordsFile(topicModelID int64) string {
	return filepath.Join(s.TopicModelDir(topicModelID), KeywordsFileName)
}

func (s *Store) TopicsByDocFile(topicModelID int64) string {
	return filepath.Join(s.TopicModelDir(topicModelID), TopicsByDocFileName)
}

func (s *Store) RemoveClassifierDir(classifierID int64) error {
	return os.RemoveAll(s.ClassifierDir(classifierID))
}

// WriteCSV writes headers plus rows to path, creating parent directories.
func (s *Store) WriteCSV(path string, headers []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		f.Close()
		return fmt.Errorf("write headers to %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// ReadCSV reads a CSV written by WriteCSV, returning headers and rows.
func (s *Store) ReadCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("read %s: empty file", path)
	}
	return records[0], records[1:], nil
}
