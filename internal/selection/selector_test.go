package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"CryptoScanner/internal/domain"
)

func flagged(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Item{Title: fmt.Sprintf("opp %d", i), IsOpportunity: true}
	}
	return items
}

func TestOpportunities(t *testing.T) {
	t.Parallel()

	items := []domain.Item{
		{Title: "yes", IsOpportunity: true},
		{Title: "no"},
		{Title: "also yes", IsOpportunity: true},
	}

	opportunities := Opportunities(items)
	if len(opportunities) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(opportunities))
	}
	for _, item := range opportunities {
		if !item.IsOpportunity {
			t.Fatal("unflagged item selected")
		}
	}
}

func TestSampleEmpty(t *testing.T) {
	t.Parallel()

	selector := NewSelector(1, 3, rand.New(rand.NewSource(1)))
	if got := selector.Sample(nil); len(got) != 0 {
		t.Fatalf("empty input must yield empty output, got %d", len(got))
	}
}

func TestSampleBounds(t *testing.T) {
	t.Parallel()

	selector := NewSelector(1, 3, rand.New(rand.NewSource(42)))

	for i := 0; i < 200; i++ {
		got := selector.Sample(flagged(10))
		if len(got) < 1 || len(got) > 3 {
			t.Fatalf("sample size %d outside [1,3]", len(got))
		}
	}
}

func TestSampleCappedByAvailable(t *testing.T) {
	t.Parallel()

	selector := NewSelector(3, 3, rand.New(rand.NewSource(7)))

	got := selector.Sample(flagged(2))
	if len(got) != 2 {
		t.Fatalf("sample must be capped at available items, got %d", len(got))
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	t.Parallel()

	selector := NewSelector(3, 3, rand.New(rand.NewSource(11)))

	for i := 0; i < 100; i++ {
		got := selector.Sample(flagged(5))
		seen := map[string]bool{}
		for _, item := range got {
			if seen[item.Title] {
				t.Fatalf("item %q sampled twice", item.Title)
			}
			seen[item.Title] = true
		}
	}
}

func TestSampleDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	selector := NewSelector(1, 3, rand.New(rand.NewSource(3)))
	input := flagged(5)
	selector.Sample(input)

	for i, item := range input {
		if item.Title != fmt.Sprintf("opp %d", i) {
			t.Fatal("sampling must not reorder the caller's slice")
		}
	}
}
