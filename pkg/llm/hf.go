package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultHFBaseURL = "https://api-inference.huggingface.co/models"

	// maxAttempts bounds transport-error and retryable-status retries;
	// maxLoadingPolls additionally bounds waiting for a cold model.
	maxAttempts     = 3
	maxLoadingPolls = 3

	loadingIndicator = "is currently loading"
)

// HFConfig configures the Hugging Face inference client. Leaving APIKey or
// Model empty disables the client entirely.
type HFConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// BackoffUnit scales every retry sleep. Defaults to one second; tests
	// shrink it so the bounded-retry behavior can be verified quickly.
	BackoffUnit time.Duration
}

// HFClient calls the Hugging Face text-generation inference API. It
// implements types.GenerativeBackend: Complete returns ("", nil) when the
// model produced no usable answer, and retries are strictly bounded.
type HFClient struct {
	config HFConfig
	client *http.Client
	logger *zap.Logger
}

func NewHFClient(config HFConfig, log *zap.Logger) *HFClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultHFBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.BackoffUnit == 0 {
		config.BackoffUnit = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &HFClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log,
	}
}

// Enabled reports whether credentials and a model are configured.
func (c *HFClient) Enabled() bool {
	return c.config.APIKey != "" && c.config.Model != ""
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

// Complete sends the prompt with deterministic sampling. Retry policy:
// transport errors back off linearly (2 x attempt), retryable statuses
// (429/502/503/504) back off exponentially (factor 2), and a 503 carrying
// the model-loading indicator polls linearly (5 x poll) without consuming a
// regular attempt. Any other non-success status yields no answer at once.
func (c *HFClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   maxTokens,
			Temperature:    0,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.config.BaseURL + "/" + c.config.Model

	attempts := 0
	loadingPolls := 0
	for attempts < maxAttempts {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			attempts++
			c.logger.Warn("inference request failed",
				zap.Int("attempt", attempts), zap.Error(err))
			if !c.sleep(ctx, time.Duration(2*attempts)*c.config.BackoffUnit) {
				return "", ctx.Err()
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			attempts++
			c.logger.Warn("failed to read inference response",
				zap.Int("attempt", attempts), zap.Error(err))
			if !c.sleep(ctx, time.Duration(2*attempts)*c.config.BackoffUnit) {
				return "", ctx.Err()
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return parseGenerated(respBody), nil

		case resp.StatusCode == http.StatusServiceUnavailable &&
			strings.Contains(string(respBody), loadingIndicator):
			if loadingPolls >= maxLoadingPolls {
				c.logger.Warn("model still loading, giving up",
					zap.String("model", c.config.Model))
				return "", nil
			}
			loadingPolls++
			c.logger.Warn("model is loading, polling",
				zap.String("model", c.config.Model), zap.Int("poll", loadingPolls))
			if !c.sleep(ctx, time.Duration(5*loadingPolls)*c.config.BackoffUnit) {
				return "", ctx.Err()
			}

		case retryableStatus(resp.StatusCode):
			attempts++
			c.logger.Warn("retryable inference API status",
				zap.Int("status", resp.StatusCode), zap.Int("attempt", attempts))
			// Exponential backoff with base factor 2: 2, 4, 8 units.
			if !c.sleep(ctx, time.Duration(2<<(attempts-1))*c.config.BackoffUnit) {
				return "", ctx.Err()
			}

		default:
			c.logger.Error("inference API error",
				zap.Int("status", resp.StatusCode),
				zap.String("body", truncateForLog(string(respBody))))
			return "", nil
		}
	}

	return "", nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *HFClient) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

// parseGenerated handles both response shapes the inference API produces:
// a list of generations or a single object.
func parseGenerated(body []byte) string {
	var list []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		return list[0].GeneratedText
	}

	var single struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &single); err == nil {
		return single.GeneratedText
	}

	return ""
}

func truncateForLog(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
