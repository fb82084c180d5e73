package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	sendTimeout    = 5 * time.Second

	// Telegram allows roughly one message per second per chat.
	sendRate  = 1
	sendBurst = 5
)

// Telegram delivers alerts to a Telegram chat via the bot sendMessage API.
// Delivery is best-effort: every failure is logged and swallowed, nothing is
// retried, and the pipeline never sees an error. A pacing limiter keeps
// bursts of qualifying trades under the Telegram per-chat rate limit without
// dropping any attempt.
type Telegram struct {
	apiBase string
	token   string
	chatID  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// sendMessageRequest is the Telegram bot API sendMessage body.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// NewTelegram creates a Telegram notification sink.
func NewTelegram(token, chatID string, logger *slog.Logger) *Telegram {
	return &Telegram{
		apiBase: defaultAPIBase,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: sendTimeout},
		limiter: rate.NewLimiter(rate.Limit(sendRate), sendBurst),
		logger:  logger,
	}
}

// NewTelegramWithBase is NewTelegram with a custom API base URL.
// Used by tests to point the sink at a local server.
func NewTelegramWithBase(apiBase, token, chatID string, logger *slog.Logger) *Telegram {
	tg := NewTelegram(token, chatID, logger)
	tg.apiBase = apiBase
	return tg
}

// Send posts one alert message, fire-and-forget. Network errors, timeouts
// and non-2xx responses are logged, never returned.
func (tg *Telegram) Send(ctx context.Context, text string) {
	if err := tg.limiter.Wait(ctx); err != nil {
		return
	}

	if err := tg.post(ctx, text); err != nil {
		tg.logger.Error("Failed to send alert", "error", err)
	}
}

func (tg *Telegram) post(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    tg.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage body: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", tg.apiBase, tg.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tg.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendMessage returned status %d", resp.StatusCode)
	}

	return nil
}
