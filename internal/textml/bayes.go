package textml

import (
	"math"

	"openframing-service/internal/core/domain"
)

// LabeledExample is one row of a labeled data set.
type LabeledExample struct {
	Text     string
	Category string
}

// ProgressFunc reports how many items of a phase have been processed.
type ProgressFunc func(done, total int)

// BayesClassifier is a multinomial naive Bayes text classifier with Laplace
// smoothing. Token counts are accumulated per category during training.
type BayesClassifier struct {
	categories  []string
	docCounts   map[string]int
	tokenCounts map[string]map[string]int
	totalTokens map[string]int
	vocab       map[string]bool
	totalDocs   int
}

func NewBayesClassifier(categories []string) *BayesClassifier {
	c := &BayesClassifier{
		categories:  append([]string(nil), categories...),
		docCounts:   make(map[string]int),
		tokenCounts: make(map[string]map[string]int),
		totalTokens: make(map[string]int),
		vocab:       make(map[string]bool),
	}
	for _, cat := range categories {
		c.tokenCounts[cat] = make(map[string]int)
	}
	return c
}

// Train fits the classifier on the given examples, invoking onProgress as
// documents are consumed.
func (c *BayesClassifier) Train(examples []LabeledExample, onProgress ProgressFunc) {
	total := len(examples)
	for i, ex := range examples {
		counts, ok := c.tokenCounts[ex.Category]
		if !ok {
			counts = make(map[string]int)
			c.tokenCounts[ex.Category] = counts
			c.categories = append(c.categories, ex.Category)
		}
		c.docCounts[ex.Category]++
		c.totalDocs++

		for _, tok := range Tokenize(ex.Text) {
			counts[tok]++
			c.totalTokens[ex.Category]++
			c.vocab[tok] = true
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}
}

// Predict returns the most likely category for text. Ties and empty input
// fall back to the category with the highest prior.
func (c *BayesClassifier) Predict(text string) string {
	tokens := Tokenize(text)
	vocabSize := float64(len(c.vocab))

	best := ""
	bestScore := math.Inf(-1)
	for _, cat := range c.categories {
		prior := float64(c.docCounts[cat]+1) / float64(c.totalDocs+len(c.categories))
		score := math.Log(prior)

		denom := float64(c.totalTokens[cat]) + vocabSize
		for _, tok := range tokens {
			score += math.Log((float64(c.tokenCounts[cat][tok]) + 1) / denom)
		}

		if score > bestScore {
			bestScore = score
			best = cat
		}
	}
	return best
}

// Evaluate scores the classifier against a labeled dev set, returning
// accuracy and macro-averaged precision, recall and F1.
func (c *BayesClassifier) Evaluate(dev []LabeledExample, onProgress ProgressFunc) domain.Metrics {
	type confusion struct {
		tp, fp, fn int
	}
	byCat := make(map[string]*confusion)
	for _, cat := range c.categories {
		byCat[cat] = &confusion{}
	}

	correct := 0
	total := len(dev)
	for i, ex := range dev {
		predicted := c.Predict(ex.Text)
		if predicted == ex.Category {
			correct++
			byCat[ex.Category].tp++
		} else {
			if cf, ok := byCat[predicted]; ok {
				cf.fp++
			}
			if cf, ok := byCat[ex.Category]; ok {
				cf.fn++
			}
		}
		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	var precisionSum, recallSum, f1Sum float64
	for _, cat := range c.categories {
		cf := byCat[cat]
		var precision, recall, f1 float64
		if cf.tp+cf.fp > 0 {
			precision = float64(cf.tp) / float64(cf.tp+cf.fp)
		}
		if cf.tp+cf.fn > 0 {
			recall = float64(cf.tp) / float64(cf.tp+cf.fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		precisionSum += precision
		recallSum += recall
		f1Sum += f1
	}

	n := float64(len(c.categories))
	m := domain.Metrics{
		MacroPrecision: precisionSum / n,
		MacroRecall:    recallSum / n,
		MacroF1Score:   f1Sum / n,
	}
	if total > 0 {
		m.Accuracy = float64(correct) / float64(total)
	}
	return m
}
