package textml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ldaCorpus() []string {
	return []string{
		"climate change and carbon emissions warming",
		"carbon emissions cause climate warming",
		"renewable energy cuts carbon emissions",
		"election voters ballots and campaign",
		"campaign spending shapes election voters",
		"voters cast ballots in every election",
	}
}

func TestLDA_Fit(t *testing.T) {
	corpus := ldaCorpus()
	lda := NewLDA(2, 50, 42)
	lda.Fit(corpus, nil)

	topics := lda.Topics(5)
	assert.Len(t, topics, 2)

	var proportionSum float64
	for _, topic := range topics {
		assert.NotEmpty(t, topic.Keywords)
		assert.LessOrEqual(t, len(topic.Keywords), 5)
		proportionSum += topic.Proportion
	}
	assert.InDelta(t, 1.0, proportionSum, 1e-9)
}

func TestLDA_DocTopics(t *testing.T) {
	corpus := ldaCorpus()
	lda := NewLDA(2, 50, 42)
	lda.Fit(corpus, nil)

	dist := lda.DocTopics()
	assert.Len(t, dist, len(corpus))
	for _, d := range dist {
		assert.Len(t, d, 2)
		assert.InDelta(t, 1.0, d[0]+d[1], 1e-9)
	}
}

func TestLDA_Deterministic(t *testing.T) {
	corpus := ldaCorpus()

	a := NewLDA(2, 30, 7)
	a.Fit(corpus, nil)
	b := NewLDA(2, 30, 7)
	b.Fit(corpus, nil)

	assert.Equal(t, a.Topics(5), b.Topics(5))
	assert.Equal(t, a.DocTopics(), b.DocTopics())
}

func TestLDA_FitProgress(t *testing.T) {
	var calls, lastDone int
	lda := NewLDA(2, 25, 1)
	lda.Fit(ldaCorpus(), func(done, total int) {
		calls++
		lastDone = done
		assert.Equal(t, 25, total)
	})
	assert.Equal(t, 25, calls)
	assert.Equal(t, 25, lastDone)
}

func TestLDA_DefaultIterations(t *testing.T) {
	lda := NewLDA(3, 0, 1)
	assert.Equal(t, DefaultLDAIterations, lda.iterations)
}
