package selection

import (
	"math/rand"

	"CryptoScanner/internal/domain"
)

// Selector picks which flagged items actually get delivered. A random count
// bounded by configuration keeps a single run from flooding the channel.
type Selector struct {
	minSample int
	maxSample int
	rng       *rand.Rand
}

// NewSelector bounds the per-run sample; rng may be nil for default
// randomness and is injectable for deterministic tests.
func NewSelector(minSample, maxSample int, rng *rand.Rand) *Selector {
	if minSample < 1 {
		minSample = 1
	}
	if maxSample < minSample {
		maxSample = minSample
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Selector{minSample: minSample, maxSample: maxSample, rng: rng}
}

// Opportunities returns the items the classifier flagged.
func Opportunities(items []domain.Item) []domain.Item {
	opportunities := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.IsOpportunity {
			opportunities = append(opportunities, item)
		}
	}
	return opportunities
}

// Sample draws k items uniformly without replacement, with k random in
// [min, max] and capped by the number available. Empty in, empty out.
func (s *Selector) Sample(opportunities []domain.Item) []domain.Item {
	if len(opportunities) == 0 {
		return nil
	}

	k := s.minSample + s.rng.Intn(s.maxSample-s.minSample+1)
	if k > len(opportunities) {
		k = len(opportunities)
	}

	picked := make([]domain.Item, len(opportunities))
	copy(picked, opportunities)
	s.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	return picked[:k]
}
