package services

import (
	"encoding/csv"
	"io"
	"math/rand"
	"strings"

	"openframing-service/internal/core/domain"
)

const (
	exampleHeader  = "example"
	categoryHeader = "category"
	idHeader       = "id"
	textHeader     = "text"

	// minTrainingExamples is the floor on total labelled rows. The per
	// category minimum of two is checked separately.
	minTrainingExamples = 10

	// devSplit is the fraction of each category held out for evaluation.
	devSplit = 0.2
)

// readCSVTable parses an uploaded file and checks its header row.
func readCSVTable(r io.Reader, headers []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, domain.ErrNotValidCSV
	}
	if len(records) == 0 {
		return nil, domain.ErrNotValidCSV
	}

	got := records[0]
	if len(got) != len(headers) {
		return nil, domain.ErrWrongNumColumns
	}
	for i, h := range headers {
		if !strings.EqualFold(strings.TrimSpace(got[i]), h) {
			return nil, domain.ErrWrongHeaders
		}
	}

	rows := records[1:]
	for _, row := range rows {
		if len(row) != len(headers) {
			return nil, domain.ErrWrongNumColumns
		}
	}
	return rows, nil
}

// validateTrainingRows checks an [example, category] table against the
// classifier's category set.
func validateTrainingRows(rows [][]string, categoryNames []string) error {
	if len(rows) < minTrainingExamples {
		return domain.ErrTooFewExamples
	}

	counts := make(map[string]int)
	for _, row := range rows {
		counts[row[1]]++
	}

	expected := make(map[string]bool, len(categoryNames))
	for _, name := range categoryNames {
		expected[name] = true
	}

	if len(counts) != len(expected) {
		return domain.ErrCategoryMismatch
	}
	for category, count := range counts {
		if !expected[category] {
			return domain.ErrCategoryMismatch
		}
		if count < 2 {
			return domain.ErrCategoryTooFewExamples
		}
	}
	return nil
}

// stratifiedSplit shuffles rows within each category and holds out devSplit
// of each for the dev set, always at least one row per category.
func stratifiedSplit(rows [][]string, rng *rand.Rand) (train, dev [][]string) {
	byCategory := make(map[string][][]string)
	var order []string
	for _, row := range rows {
		category := row[1]
		if _, ok := byCategory[category]; !ok {
			order = append(order, category)
		}
		byCategory[category] = append(byCategory[category], row)
	}

	for _, category := range order {
		group := byCategory[category]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		nDev := int(float64(len(group)) * devSplit)
		if nDev < 1 {
			nDev = 1
		}
		if nDev >= len(group) {
			nDev = len(group) - 1
		}

		dev = append(dev, group[:nDev]...)
		train = append(train, group[nDev:]...)
	}
	return train, dev
}
