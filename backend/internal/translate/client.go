package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"samvad-relay/backend/pkg/logger"
)

const defaultClientTimeout = 30 * time.Second

// Client talks to a LibreTranslate-protocol translation server
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a translation client for the given server base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultClientTimeout,
		},
		logger: logger.Get(),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type detectResponse struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Translate translates text between ISO 639-1 language codes. An empty source
// asks the server to auto-detect.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}

	payload := translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
	}

	var resp translateResponse
	if err := c.post(ctx, "/translate", payload, &resp); err != nil {
		return "", err
	}

	c.logger.Debug("Translation completed",
		zap.String("source", source),
		zap.String("target", target),
		zap.Int("text_length", len(text)),
	)
	return resp.TranslatedText, nil
}

// Detect returns the detected language code for text
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	payload := map[string]string{"q": text}

	var detections []detectResponse
	if err := c.post(ctx, "/detect", payload, &detections); err != nil {
		return "", err
	}
	if len(detections) == 0 {
		return "", fmt.Errorf("no detections returned")
	}

	c.logger.Debug("Language detected", zap.String("language", detections[0].Language))
	return detections[0].Language, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
