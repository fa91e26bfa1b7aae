package textml

import (
	"math/rand"
	"sort"

	"openframing-service/internal/core/domain"
)

// DefaultLDAIterations is used when a topic model does not request a
// specific Gibbs sampling iteration count.
const DefaultLDAIterations = 1000

// LDA fits a latent Dirichlet allocation model with collapsed Gibbs
// sampling. Documents shorter than one token after tokenization are kept but
// contribute nothing to the sampler.
type LDA struct {
	numTopics  int
	iterations int
	alpha      float64
	beta       float64
	rng        *rand.Rand

	vocab   []string
	vocabID map[string]int
	docs    [][]int

	topicAssignments [][]int
	docTopicCounts   [][]int
	topicWordCounts  [][]int
	topicTotals      []int
}

func NewLDA(numTopics, iterations int, seed int64) *LDA {
	if iterations <= 0 {
		iterations = DefaultLDAIterations
	}
	return &LDA{
		numTopics:  numTopics,
		iterations: iterations,
		alpha:      50.0 / float64(numTopics),
		beta:       0.01,
		rng:        rand.New(rand.NewSource(seed)),
		vocabID:    make(map[string]int),
	}
}

// Fit tokenizes the corpus and runs the sampler, invoking onProgress once
// per completed iteration.
func (l *LDA) Fit(corpus []string, onProgress ProgressFunc) {
	l.docs = make([][]int, len(corpus))
	for d, text := range corpus {
		tokens := Tokenize(text)
		ids := make([]int, 0, len(tokens))
		for _, tok := range tokens {
			id, ok := l.vocabID[tok]
			if !ok {
				id = len(l.vocab)
				l.vocabID[tok] = id
				l.vocab = append(l.vocab, tok)
			}
			ids = append(ids, id)
		}
		l.docs[d] = ids
	}

	l.topicAssignments = make([][]int, len(l.docs))
	l.docTopicCounts = make([][]int, len(l.docs))
	l.topicWordCounts = make([][]int, l.numTopics)
	l.topicTotals = make([]int, l.numTopics)
	for k := range l.topicWordCounts {
		l.topicWordCounts[k] = make([]int, len(l.vocab))
	}

	// Random initialization
	for d, doc := range l.docs {
		l.topicAssignments[d] = make([]int, len(doc))
		l.docTopicCounts[d] = make([]int, l.numTopics)
		for i, w := range doc {
			k := l.rng.Intn(l.numTopics)
			l.topicAssignments[d][i] = k
			l.docTopicCounts[d][k]++
			l.topicWordCounts[k][w]++
			l.topicTotals[k]++
		}
	}

	probs := make([]float64, l.numTopics)
	vocabSize := float64(len(l.vocab))

	for it := 0; it < l.iterations; it++ {
		for d, doc := range l.docs {
			for i, w := range doc {
				k := l.topicAssignments[d][i]
				l.docTopicCounts[d][k]--
				l.topicWordCounts[k][w]--
				l.topicTotals[k]--

				var sum float64
				for t := 0; t < l.numTopics; t++ {
					p := (float64(l.docTopicCounts[d][t]) + l.alpha) *
						(float64(l.topicWordCounts[t][w]) + l.beta) /
						(float64(l.topicTotals[t]) + l.beta*vocabSize)
					sum += p
					probs[t] = sum
				}

				target := l.rng.Float64() * sum
				k = sort.SearchFloat64s(probs, target)
				if k >= l.numTopics {
					k = l.numTopics - 1
				}

				l.topicAssignments[d][i] = k
				l.docTopicCounts[d][k]++
				l.topicWordCounts[k][w]++
				l.topicTotals[k]++
			}
		}
		if onProgress != nil {
			onProgress(it+1, l.iterations)
		}
	}
}

// Topics returns the fitted topics with their top keywords and corpus-wide
// proportions, in topic index order.
func (l *LDA) Topics(numKeywords int) []domain.Topic {
	var totalTokens int
	for _, n := range l.topicTotals {
		totalTokens += n
	}

	topics := make([]domain.Topic, l.numTopics)
	for k := 0; k < l.numTopics; k++ {
		type wordCount struct {
			word  string
			count int
		}
		counts := make([]wordCount, 0, len(l.vocab))
		for w, n := range l.topicWordCounts[k] {
			if n > 0 {
				counts = append(counts, wordCount{word: l.vocab[w], count: n})
			}
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].word < counts[j].word
		})

		top := numKeywords
		if top > len(counts) {
			top = len(counts)
		}
		keywords := make([]string, top)
		for i := 0; i < top; i++ {
			keywords[i] = counts[i].word
		}

		var proportion float64
		if totalTokens > 0 {
			proportion = float64(l.topicTotals[k]) / float64(totalTokens)
		}
		topics[k] = domain.Topic{Keywords: keywords, Proportion: proportion}
	}
	return topics
}

// DocTopics returns the per-document topic distribution, indexed the same
// way as Topics.
func (l *LDA) DocTopics() [][]float64 {
	dist := make([][]float64, len(l.docs))
	for d := range l.docs {
		dist[d] = make([]float64, l.numTopics)
		total := float64(len(l.docs[d])) + l.alpha*float64(l.numTopics)
		for k := 0; k < l.numTopics; k++ {
			dist[d][k] = (float64(l.docTopicCounts[d][k]) + l.alpha) / total
		}
	}
	return dist
}
