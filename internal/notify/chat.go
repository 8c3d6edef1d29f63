package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clarityforge/site-backend/pkg/logging"
)

const defaultChatTimeout = 10 * time.Second

// ChatSender posts a structured message to a team chat channel.
type ChatSender interface {
	Post(ctx context.Context, msg ChatMessage) error
}

// ChatMessage is the payload posted to the chat webhook. The shape is
// Slack-compatible; Discord and Mattermost accept the text field as well.
type ChatMessage struct {
	Text   string      `json:"text"`
	Fields []ChatField `json:"fields,omitempty"`
}

// ChatField is a labelled value rendered under the message text.
type ChatField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// WebhookChatSender posts messages to a configured incoming-webhook URL.
type WebhookChatSender struct {
	webhookURL string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewWebhookChatSender creates a chat sender for the given webhook URL.
// Returns nil when the URL is empty so callers treat the channel as absent.
func NewWebhookChatSender(webhookURL string, httpClient *http.Client, logger *logging.Logger) *WebhookChatSender {
	if strings.TrimSpace(webhookURL) == "" {
		return nil
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultChatTimeout}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookChatSender{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Post sends the message to the webhook.
func (s *WebhookChatSender) Post(ctx context.Context, msg ChatMessage) error {
	if s == nil {
		return fmt.Errorf("notify: chat webhook not configured")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify: marshal chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("chat webhook post failed", "error", err)
		return fmt.Errorf("notify: chat webhook post: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		s.logger.Error("chat webhook returned error status", "status", resp.StatusCode)
		return fmt.Errorf("notify: chat webhook returned status %d", resp.StatusCode)
	}

	s.logger.Info("chat notification posted", "status", resp.StatusCode)
	return nil
}

var _ ChatSender = (*WebhookChatSender)(nil)
