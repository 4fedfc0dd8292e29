package fingerprint

import (
	"testing"

	"CryptoScanner/internal/domain"
)

func TestContentDeterminism(t *testing.T) {
	t.Parallel()

	item := domain.Item{Title: "A", Link: "B"}

	first := Content(item)
	second := Content(item)
	if first != second {
		t.Fatalf("same item produced different fingerprints: %s vs %s", first, second)
	}
	if len(first) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(first))
	}

	if Content(domain.Item{Title: "A2", Link: "B"}) == first {
		t.Fatal("changing title must change the fingerprint")
	}
	if Content(domain.Item{Title: "A", Link: "B2"}) == first {
		t.Fatal("changing link must change the fingerprint")
	}
}

func TestContentEmptyFields(t *testing.T) {
	t.Parallel()

	first := Content(domain.Item{})
	second := Content(domain.Item{})
	if first != second {
		t.Fatal("empty items must produce a stable fingerprint")
	}
}

func TestURLNormalization(t *testing.T) {
	t.Parallel()

	withQuery, ok := URL(domain.Item{Link: "https://x.com/a?x=1#y"})
	if !ok {
		t.Fatal("expected a url fingerprint")
	}

	withSlash, ok := URL(domain.Item{Link: "https://x.com/a/"})
	if !ok {
		t.Fatal("expected a url fingerprint")
	}

	if withQuery != withSlash {
		t.Fatalf("query/fragment/trailing-slash variants must collapse: %s vs %s", withQuery, withSlash)
	}

	other, _ := URL(domain.Item{Link: "https://x.com/b"})
	if other == withQuery {
		t.Fatal("different paths must produce different fingerprints")
	}
}

func TestURLAbsentLink(t *testing.T) {
	t.Parallel()

	if _, ok := URL(domain.Item{Title: "no link"}); ok {
		t.Fatal("items without a link must not get a url fingerprint")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := Normalize("https://x.com/a/b/?utm=1#frag")
	want := "https://x.com/a/b"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
