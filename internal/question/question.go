// Package question builds multiple-choice questions from vocabulary rows.
package question

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// MaxDistractors is the number of wrong options drawn for each question.
const MaxDistractors = 3

// Builder produces shuffled row sequences and questions from an injectable random source.
type Builder struct {
	rnd *rand.Rand
}

// New returns a Builder seeded with seed, or with the current time when seed is 0.
func New(seed int64) *Builder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewWithRand(rand.New(rand.NewSource(seed)))
}

// NewWithRand returns a Builder drawing from rnd.
func NewWithRand(rnd *rand.Rand) *Builder {
	return &Builder{rnd: rnd}
}

// Shuffle returns a uniformly permuted copy of rows.
func (b *Builder) Shuffle(rows []model.VocabRow) []model.VocabRow {
	out := make([]model.VocabRow, len(rows))
	copy(out, rows)
	for i := len(out) - 1; i > 0; i-- {
		j := b.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Build materializes a question for target using rows as the distractor pool.
// Meanings equal to the key are never used as distractors and duplicate meanings
// count once, so the returned options are always distinct. An empty pool yields
// a question without options.
func (b *Builder) Build(rows []model.VocabRow, target model.VocabRow) model.Question {
	q := model.Question{Content: target.Vocab, Key: target.Meaning}
	if len(rows) == 0 {
		return q
	}
	distractors := b.sampleMeanings(candidateMeanings(rows, target.Meaning), MaxDistractors)
	idx := b.rnd.Intn(len(distractors) + 1)
	options := make([]string, 0, len(distractors)+1)
	options = append(options, distractors[:idx]...)
	options = append(options, target.Meaning)
	options = append(options, distractors[idx:]...)
	q.Options = options
	return q
}

func candidateMeanings(rows []model.VocabRow, key string) []string {
	seen := map[string]struct{}{key: {}}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Meaning]; ok {
			continue
		}
		seen[row.Meaning] = struct{}{}
		out = append(out, row.Meaning)
	}
	return out
}

// sampleMeanings draws n values uniformly without replacement (partial Fisher-Yates).
func (b *Builder) sampleMeanings(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + b.rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
