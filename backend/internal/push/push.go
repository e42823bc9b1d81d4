package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"samvad-relay/backend/internal/workflow"
)

// DefaultGraphBaseURL is the Meta Graph API endpoint shared by all three transports
const DefaultGraphBaseURL = "https://graph.facebook.com/v19.0"

const sendTimeout = 15 * time.Second

// Sender delivers one outbound response descriptor to a platform user.
// Deliveries are fire-and-forget: callers log failures and move on.
type Sender interface {
	Send(ctx context.Context, recipientID string, resp *workflow.Response) error
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: sendTimeout}
}

func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload interface{}) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
