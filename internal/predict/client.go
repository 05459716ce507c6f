package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/AngelCh415/CampaignKPI_GO/internal/utils"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

type generateRequest struct {
	Description string `json:"description"`
	MaxTokens   int    `json:"max_tokens"`
}

type generateResponse struct {
	Prediction string `json:"prediction"`
}

// HTTPPredictor calls an inference server hosting the fine-tuned model.
// Transport errors and 5xx responses are retried; 4xx are not.
type HTTPPredictor struct {
	c         HTTPClient
	url       string
	maxTokens int
	backoff   utils.Backoff
	log       *slog.Logger
}

func NewHTTPPredictor(c HTTPClient, url string, maxTokens int, log *slog.Logger) *HTTPPredictor {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if log == nil {
		log = slog.Default()
	}
	return &HTTPPredictor{
		c:         c,
		url:       url,
		maxTokens: maxTokens,
		backoff:   utils.NewBackoff(100*time.Millisecond, 2),
		log:       log,
	}
}

func (p *HTTPPredictor) Predict(ctx context.Context, description string) (string, error) {
	if err := checkDescription(description); err != nil {
		return "", err
	}
	body, err := json.Marshal(generateRequest{Description: description, MaxTokens: p.maxTokens})
	if err != nil {
		return "", err
	}
	var out generateResponse
	err = p.backoff.Do(ctx, func(i int) error {
		if i > 0 {
			p.log.WarnContext(ctx, "retrying prediction", slog.Int("attempt", i+1))
		}
		return postJSON(ctx, p.c, p.url, body, &out)
	})
	if err != nil {
		return "", fmt.Errorf("predict: %w", err)
	}
	return out.Prediction, nil
}

func postJSON(ctx context.Context, c HTTPClient, url string, body []byte, v any) error {
	if url == "" {
		return fmt.Errorf("empty url: %w", utils.ErrPermanent)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Join(err, utils.ErrPermanent)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
		if resp.StatusCode < 500 { // 4xx no se reintenta
			return errors.Join(err, utils.ErrPermanent)
		}
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Join(fmt.Errorf("decode response: %w", err), utils.ErrPermanent)
	}
	return nil
}
