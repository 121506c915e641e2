package replicate

import (
	"ai-carousel-bot/pkg/llm"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.replicate.com"
	defaultModel   = "google/gemini-3-pro"

	// Responses shorter than this are treated as a transient failure.
	minResponseLen = 10
)

// TimeoutError is returned when a prediction does not settle within the
// configured maximum wait. It carries the prediction id for log correlation.
type TimeoutError struct {
	PredictionID string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("replicate: prediction %s timed out", e.PredictionID)
}

// Config tunes polling and retry behavior. Zero values fall back to defaults.
type Config struct {
	Model        string
	PollInterval time.Duration
	MaxWait      time.Duration
	RetryBackoff time.Duration
	MaxRetries   int
}

type Provider struct {
	BaseURL string
	Model   string
	Client  *http.Client

	apiKey       string
	pollInterval time.Duration
	maxWait      time.Duration
	retryBackoff time.Duration
	maxRetries   int
}

// Ensure Provider implements TextProvider
var _ llm.TextProvider = &Provider{}

func NewProvider(apiKey string, cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 4 * time.Minute
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 2 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Provider{
		BaseURL: defaultBaseURL,
		Model:   cfg.Model,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:       apiKey,
		pollInterval: cfg.PollInterval,
		maxWait:      cfg.MaxWait,
		retryBackoff: cfg.RetryBackoff,
		maxRetries:   cfg.MaxRetries,
	}
}

// --- Request/Response structs (Internal to this package) ---

type predictionInput struct {
	Prompt            string  `json:"prompt"`
	SystemInstruction string  `json:"system_instruction,omitempty"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	MaxOutputTokens   int     `json:"max_output_tokens"`
}

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

// --- Interface Implementation ---

func (p *Provider) GenerateText(ctx context.Context, prompt, systemInstruction string, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature:     1.0,
		TopP:            0.95,
		MaxOutputTokens: 65535,
	}
	for _, opt := range opts {
		opt(options)
	}

	retries := p.maxRetries
	if options.MaxRetries > 0 {
		retries = options.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.retryBackoff):
			}
		}

		text, err := p.generate(ctx, prompt, systemInstruction, options)
		if err != nil {
			lastErr = err
			continue
		}
		if len(strings.TrimSpace(text)) < minResponseLen {
			lastErr = fmt.Errorf("replicate: empty or truncated response")
			continue
		}
		return strings.TrimSpace(text), nil
	}
	return "", fmt.Errorf("replicate: generation failed after %d attempts: %w", retries, lastErr)
}

func (p *Provider) GenerateDocument(ctx context.Context, prompt, systemInstruction string, out interface{}, opts ...llm.Option) error {
	text, err := p.GenerateText(ctx, prompt, systemInstruction, opts...)
	if err != nil {
		return err
	}
	if err := llm.UnmarshalFlex(text, out); err != nil {
		return fmt.Errorf("replicate: parse document: %w", err)
	}
	return nil
}

// generate runs one create-then-poll cycle.
func (p *Provider) generate(ctx context.Context, prompt, systemInstruction string, options *llm.Options) (string, error) {
	reqPayload := predictionRequest{
		Input: predictionInput{
			Prompt:            prompt,
			SystemInstruction: systemInstruction,
			Temperature:       options.Temperature,
			TopP:              options.TopP,
			MaxOutputTokens:   options.MaxOutputTokens,
		},
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s/predictions", p.BaseURL, p.Model)
	created, err := p.doRequest(ctx, http.MethodPost, url, payloadBytes)
	if err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("replicate: no prediction id in response")
	}

	return p.awaitPrediction(ctx, created.ID)
}

func (p *Provider) awaitPrediction(ctx context.Context, predictionID string) (string, error) {
	deadline := time.Now().Add(p.maxWait)
	url := fmt.Sprintf("%s/v1/predictions/%s", p.BaseURL, predictionID)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.pollInterval):
		}
		if time.Now().After(deadline) {
			return "", &TimeoutError{PredictionID: predictionID}
		}

		resp, err := p.doRequest(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}

		switch resp.Status {
		case "succeeded":
			if len(resp.Output) == 0 {
				return "", fmt.Errorf("replicate: succeeded without output")
			}
			return joinOutput(resp.Output)
		case "failed":
			return "", fmt.Errorf("replicate: prediction failed: %s", resp.Error)
		case "canceled":
			return "", fmt.Errorf("replicate: prediction canceled")
		case "starting", "processing":
			continue
		default:
			// Unknown status, keep polling until the deadline.
			continue
		}
	}
}

func (p *Provider) doRequest(ctx context.Context, method, url string, body []byte) (*predictionResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("replicate error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed predictionResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &parsed, nil
}

// joinOutput concatenates the output token list; some models return a single
// string instead.
func joinOutput(raw json.RawMessage) (string, error) {
	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil {
		return strings.Join(parts, ""), nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, nil
	}
	return "", fmt.Errorf("replicate: unexpected output shape: %s", truncate(string(raw), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
