package question

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/verte-zerg/tuivoc/internal/model"
)

var animals = []model.VocabRow{
	{Vocab: "cat", Meaning: "con mèo"},
	{Vocab: "dog", Meaning: "con chó"},
	{Vocab: "fish", Meaning: "con cá"},
	{Vocab: "bird", Meaning: "con chim"},
}

func TestBuildKeyInOptions(t *testing.T) {
	b := New(1)
	for i := 0; i < 200; i++ {
		target := animals[i%len(animals)]
		q := b.Build(animals, target)
		if q.Content != target.Vocab {
			t.Fatalf("expected content %q, got %q", target.Vocab, q.Content)
		}
		if q.Key != target.Meaning {
			t.Fatalf("expected key %q, got %q", target.Meaning, q.Key)
		}
		if !contains(q.Options, q.Key) {
			t.Fatalf("key %q missing from options %v", q.Key, q.Options)
		}
	}
}

func TestBuildFourDistinctOptions(t *testing.T) {
	b := New(7)
	for i := 0; i < 200; i++ {
		q := b.Build(animals, animals[i%len(animals)])
		if len(q.Options) != 4 {
			t.Fatalf("expected 4 options, got %d: %v", len(q.Options), q.Options)
		}
		seen := map[string]struct{}{}
		for _, opt := range q.Options {
			if _, ok := seen[opt]; ok {
				t.Fatalf("duplicate option %q in %v", opt, q.Options)
			}
			seen[opt] = struct{}{}
		}
	}
}

func TestBuildSkipsDuplicateMeanings(t *testing.T) {
	rows := []model.VocabRow{
		{Vocab: "big", Meaning: "lớn"},
		{Vocab: "large", Meaning: "lớn"},
		{Vocab: "huge", Meaning: "lớn"},
		{Vocab: "small", Meaning: "nhỏ"},
	}
	b := New(3)
	for i := 0; i < 50; i++ {
		q := b.Build(rows, rows[0])
		if len(q.Options) != 2 {
			t.Fatalf("expected 2 options, got %v", q.Options)
		}
		if !contains(q.Options, "lớn") || !contains(q.Options, "nhỏ") {
			t.Fatalf("unexpected options %v", q.Options)
		}
	}
}

func TestBuildDegenerateRows(t *testing.T) {
	b := New(5)
	q := b.Build(nil, animals[0])
	if q.HasOptions() {
		t.Fatalf("expected no options for empty pool, got %v", q.Options)
	}
	q = b.Build(animals[:1], animals[0])
	if len(q.Options) != 1 || q.Options[0] != animals[0].Meaning {
		t.Fatalf("expected only the key, got %v", q.Options)
	}
}

func TestBuildKeyPositionVaries(t *testing.T) {
	b := New(11)
	positions := map[int]int{}
	for i := 0; i < 400; i++ {
		q := b.Build(animals, animals[0])
		for idx, opt := range q.Options {
			if opt == q.Key {
				positions[idx]++
			}
		}
	}
	for idx := 0; idx < 4; idx++ {
		if positions[idx] == 0 {
			t.Fatalf("key never placed at index %d: %v", idx, positions)
		}
	}
}

func TestBuildDeterministicForSeed(t *testing.T) {
	a := NewWithRand(rand.New(rand.NewSource(42)))
	b := NewWithRand(rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		qa := a.Build(animals, animals[i%4])
		qb := b.Build(animals, animals[i%4])
		if len(qa.Options) != len(qb.Options) {
			t.Fatalf("option count differs for same seed")
		}
		for j := range qa.Options {
			if qa.Options[j] != qb.Options[j] {
				t.Fatalf("options differ for same seed: %v vs %v", qa.Options, qb.Options)
			}
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	b := New(9)
	rows := append([]model.VocabRow{}, animals...)
	rows = append(rows, model.VocabRow{Vocab: "cat", Meaning: "con mèo"})
	current := rows
	for i := 0; i < 10; i++ {
		current = b.Shuffle(current)
		if got, want := sortedKeys(current), sortedKeys(rows); !equal(got, want) {
			t.Fatalf("shuffle changed elements: %v vs %v", got, want)
		}
	}
	if rows[0] != animals[0] {
		t.Fatalf("shuffle mutated input")
	}
}

func TestShuffleProducesDifferentOrders(t *testing.T) {
	b := New(13)
	orders := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		out := b.Shuffle(animals)
		key := ""
		for _, row := range out {
			key += row.Vocab + ","
		}
		orders[key] = struct{}{}
	}
	if len(orders) < 2 {
		t.Fatalf("expected shuffle to produce more than one order")
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func sortedKeys(rows []model.VocabRow) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Vocab + "=" + row.Meaning
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
