package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CryptoScanner/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2026, time.August, 24, 12, 0, 0, 0, time.UTC)
}

func testNotifier(serverURL string, client *http.Client) *Notifier {
	n := NewNotifier("bot-token", "chat-1")
	n.apiBase = serverURL
	n.client = client
	n.now = fixedNow
	return n
}

func TestDeliverTextMessage(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseForm()
		gotText = r.FormValue("text")
		if r.FormValue("chat_id") != "chat-1" {
			t.Errorf("unexpected chat_id %s", r.FormValue("chat_id"))
		}
		if r.FormValue("parse_mode") != "Markdown" {
			t.Errorf("unexpected parse_mode %s", r.FormValue("parse_mode"))
		}
	}))
	defer server.Close()

	notifier := testNotifier(server.URL, server.Client())

	item := domain.Item{
		Source: "CoinDesk",
		Title:  "Big move",
		Link:   "https://x.com/a",
		Verdict: &domain.Verdict{
			OpportunityType: "price movement",
			RiskLevel:       domain.RiskMedium,
			Explanation:     "momentum building",
		},
	}

	if err := notifier.Deliver(context.Background(), item); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Fatalf("unexpected endpoint: %s", gotPath)
	}
	for _, want := range []string{"CoinDesk", "Big move", "price movement", "MEDIUM", "momentum building", "https://x.com/a"} {
		if !strings.Contains(gotText, want) {
			t.Fatalf("message missing %q:\n%s", want, gotText)
		}
	}
}

func TestDeliverPhotoWithFallback(t *testing.T) {
	t.Parallel()

	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "sendPhoto") {
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	notifier := testNotifier(server.URL, server.Client())

	item := domain.Item{Source: "NewsBTC", Title: "With image", ImageURL: "https://cdn/img.png"}

	if err := notifier.Deliver(context.Background(), item); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if len(paths) != 2 || !strings.HasSuffix(paths[0], "sendPhoto") || !strings.HasSuffix(paths[1], "sendMessage") {
		t.Fatalf("expected photo attempt then text fallback, got %v", paths)
	}
}

func TestDeliverPhotoSuccessSkipsText(t *testing.T) {
	t.Parallel()

	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	}))
	defer server.Close()

	notifier := testNotifier(server.URL, server.Client())

	item := domain.Item{Source: "NewsBTC", Title: "With image", ImageURL: "https://cdn/img.png"}
	if err := notifier.Deliver(context.Background(), item); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	if len(paths) != 1 || !strings.HasSuffix(paths[0], "sendPhoto") {
		t.Fatalf("expected a single photo call, got %v", paths)
	}
}

func TestDeliverMisconfigured(t *testing.T) {
	t.Parallel()

	notifier := NewNotifier("", "")
	if err := notifier.Deliver(context.Background(), domain.Item{Title: "x"}); err == nil {
		t.Fatal("missing credentials must be an error")
	}
}

func TestFormatMessageWithoutVerdict(t *testing.T) {
	t.Parallel()

	message := formatMessage(domain.Item{Source: "CoinGecko", Title: "Trending: X"}, fixedNow())

	for _, want := range []string{"N/A", "No analysis available", "2026-08-24 12:00:00"} {
		if !strings.Contains(message, want) {
			t.Fatalf("message missing %q:\n%s", want, message)
		}
	}
}
