package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CryptoScanner/internal/domain"
	"CryptoScanner/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends opportunity alerts to a Telegram chat via the bot API.
type Notifier struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
	now      func() time.Time
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		apiBase:  defaultAPIBase,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// Deliver formats and posts one opportunity. Items with an image go out as a
// photo with caption first; if that fails, the text-only message is sent
// instead so the alert is never lost to a bad image URL.
func (n *Notifier) Deliver(ctx context.Context, item domain.Item) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	message := formatMessage(item, n.now())

	if item.ImageURL != "" {
		if err := n.sendPhoto(ctx, item.ImageURL, message); err == nil {
			return nil
		}
	}

	return n.sendMessage(ctx, message)
}

func (n *Notifier) sendMessage(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")
	form.Set("disable_web_page_preview", "true")

	return n.post(ctx, "sendMessage", form)
}

func (n *Notifier) sendPhoto(ctx context.Context, photoURL, caption string) error {
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("photo", photoURL)
	form.Set("caption", caption)
	form.Set("parse_mode", "Markdown")

	return n.post(ctx, "sendPhoto", form)
}

func (n *Notifier) post(ctx context.Context, method string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", n.apiBase, n.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram %s error: %s", method, resp.Status)
	}

	return nil
}

func formatMessage(item domain.Item, now time.Time) string {
	opportunityType := "N/A"
	riskLevel := "N/A"
	explanation := "No analysis available"
	if item.Verdict != nil {
		if item.Verdict.OpportunityType != "" {
			opportunityType = item.Verdict.OpportunityType
		}
		if item.Verdict.RiskLevel != "" {
			riskLevel = string(item.Verdict.RiskLevel)
		}
		if item.Verdict.Explanation != "" {
			explanation = item.Verdict.Explanation
		}
	}

	link := item.Link
	if link == "" {
		link = "N/A"
	}

	return fmt.Sprintf(`🚀 *Crypto Opportunity Detected*

*Source:* %s
*Title:* %s

*Type:* %s
*Risk Level:* %s

*Analysis:*
%s

*Link:* %s

_Analyzed at %s_`,
		item.Source,
		item.Title,
		opportunityType,
		riskLevel,
		explanation,
		link,
		now.Format("2006-01-02 15:04:05"))
}
