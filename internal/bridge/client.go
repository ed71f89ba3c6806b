// Package bridge is the HTTP client for the whatsapp-bridge local API, the
// process that owns the live connection and the store's write path.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds one bridge call when the config gives none.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a non-200 response body goes into the reason
// string.
const maxErrorBody = 2048

// Client calls the bridge's send/download endpoints. Outbound actions are
// best-effort: every failure — bridge-reported, transport, or parse — is
// returned as an (ok=false, reason) value, never as an error.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the bridge API at baseURL (e.g.
// "http://localhost:8080/api").
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type sendRequest struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message,omitempty"`
	MediaPath string `json:"media_path,omitempty"`
}

type downloadRequest struct {
	MessageID string `json:"message_id"`
	ChatJID   string `json:"chat_jid"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Error   string `json:"error"`
}

func (r *apiResponse) detail() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Error != "" {
		return r.Error
	}
	return "unknown response"
}

// SendMessage sends a text message to a recipient JID or phone number.
func (c *Client) SendMessage(ctx context.Context, recipient, message string) (bool, string) {
	if recipient == "" {
		return false, "recipient must be provided"
	}
	return c.send(ctx, sendRequest{Recipient: recipient, Message: message})
}

// SendFile sends a local media file to a recipient.
func (c *Client) SendFile(ctx context.Context, recipient, mediaPath string) (bool, string) {
	if ok, reason := checkMedia(recipient, mediaPath); !ok {
		return false, reason
	}
	return c.send(ctx, sendRequest{Recipient: recipient, MediaPath: mediaPath})
}

// SendVoiceNote sends an audio file as a playable voice note. The bridge
// requires opus audio in an .ogg container; transcoding is the caller's job.
func (c *Client) SendVoiceNote(ctx context.Context, recipient, mediaPath string) (bool, string) {
	if ok, reason := checkMedia(recipient, mediaPath); !ok {
		return false, reason
	}
	if !strings.HasSuffix(mediaPath, ".ogg") {
		return false, fmt.Sprintf("voice notes must be an opus-encoded .ogg file, got %s", mediaPath)
	}
	return c.send(ctx, sendRequest{Recipient: recipient, MediaPath: mediaPath})
}

// DownloadMedia asks the bridge to fetch the media attached to a message.
// On success the second value is the local path the bridge stored it at;
// otherwise it is the failure reason.
func (c *Client) DownloadMedia(ctx context.Context, messageID, chatJID string) (bool, string) {
	if messageID == "" || chatJID == "" {
		return false, "message_id and chat_jid must be provided"
	}
	resp, err := c.post(ctx, "/download", downloadRequest{MessageID: messageID, ChatJID: chatJID})
	if err != nil {
		c.logger.Warn("media download failed", zap.String("message_id", messageID), zap.Error(err))
		return false, err.Error()
	}
	if !resp.Success {
		return false, resp.detail()
	}
	if resp.Path == "" {
		return false, "bridge did not return a media path"
	}
	return true, resp.Path
}

func checkMedia(recipient, mediaPath string) (bool, string) {
	if recipient == "" {
		return false, "recipient must be provided"
	}
	if mediaPath == "" {
		return false, "media path must be provided"
	}
	if info, err := os.Stat(mediaPath); err != nil || info.IsDir() {
		return false, fmt.Sprintf("media file not found: %s", mediaPath)
	}
	return true, ""
}

func (c *Client) send(ctx context.Context, payload sendRequest) (bool, string) {
	resp, err := c.post(ctx, "/send", payload)
	if err != nil {
		c.logger.Warn("bridge send failed", zap.String("recipient", payload.Recipient), zap.Error(err))
		return false, err.Error()
	}
	return resp.Success, resp.detail()
}

func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("bridge returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var r apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("parse bridge response: %w", err)
	}
	return &r, nil
}
