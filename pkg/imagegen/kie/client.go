package kie

import (
	"ai-carousel-bot/pkg/imagegen"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultBaseURL = "https://api.kie.ai"
	defaultModel   = "nano-banana-pro"

	maxPromptLen   = 5000
	maxImageInputs = 8
	createTaskPath = "/api/v1/jobs/createTask"
	recordInfoPath = "/api/v1/jobs/recordInfo"
	successCode    = 200
	stateSuccess   = "success"
	stateFail      = "fail"
)

// TimeoutError is returned when a task does not settle within the configured
// maximum wait.
type TimeoutError struct {
	TaskID string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("kie: task %s timed out", e.TaskID)
}

// Config tunes polling behavior. Zero values fall back to defaults.
type Config struct {
	Model        string
	PollInterval time.Duration
	MaxWait      time.Duration
}

type Client struct {
	BaseURL string
	Model   string
	Client  *http.Client

	apiKey       string
	pollInterval time.Duration
	maxWait      time.Duration
}

// Ensure Client implements Provider
var _ imagegen.Provider = &Client{}

func NewClient(apiKey string, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 5 * time.Minute
	}
	return &Client{
		BaseURL: defaultBaseURL,
		Model:   cfg.Model,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:       apiKey,
		pollInterval: cfg.PollInterval,
		maxWait:      cfg.MaxWait,
	}
}

// --- Wire structs ---

type taskInput struct {
	Prompt       string   `json:"prompt"`
	ImageInput   []string `json:"image_input"`
	AspectRatio  string   `json:"aspect_ratio"`
	Resolution   string   `json:"resolution"`
	OutputFormat string   `json:"output_format"`
}

type createTaskRequest struct {
	Model string    `json:"model"`
	Input taskInput `json:"input"`
}

type createTaskResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

type queryTaskResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		State      string `json:"state"`
		ResultJSON string `json:"resultJson"`
		FailCode   string `json:"failCode"`
		FailMsg    string `json:"failMsg"`
	} `json:"data"`
}

type taskResult struct {
	ResultURLs []string `json:"resultUrls"`
}

// Submit creates a generation task and returns its id. Reference URLs that
// are empty or not http(s) are dropped before sending.
func (c *Client) Submit(ctx context.Context, in imagegen.Input) (string, error) {
	// The limit is characters, not bytes: Cyrillic prompts are two bytes
	// per rune.
	if utf8.RuneCountInString(in.Prompt) > maxPromptLen {
		return "", fmt.Errorf("kie: prompt exceeds %d characters", maxPromptLen)
	}
	if len(in.ImageInputs) > maxImageInputs {
		return "", fmt.Errorf("kie: at most %d reference images allowed", maxImageInputs)
	}

	refs := make([]string, 0, len(in.ImageInputs))
	for _, url := range in.ImageInputs {
		url = strings.TrimSpace(url)
		if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
			refs = append(refs, url)
		}
	}

	if in.AspectRatio == "" {
		in.AspectRatio = "4:5"
	}
	if in.Resolution == "" {
		in.Resolution = "2K"
	}
	if in.OutputFormat == "" {
		in.OutputFormat = "png"
	}

	reqPayload := createTaskRequest{
		Model: c.Model,
		Input: taskInput{
			Prompt:       in.Prompt,
			ImageInput:   refs,
			AspectRatio:  in.AspectRatio,
			Resolution:   in.Resolution,
			OutputFormat: in.OutputFormat,
		},
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var parsed createTaskResponse
	if err := c.doRequest(ctx, http.MethodPost, c.BaseURL+createTaskPath, payloadBytes, &parsed); err != nil {
		return "", err
	}
	if parsed.Code != successCode {
		return "", fmt.Errorf("kie: create task rejected: %d - %s", parsed.Code, parsed.Msg)
	}
	if parsed.Data.TaskID == "" {
		return "", fmt.Errorf("kie: create task returned no task id")
	}
	return parsed.Data.TaskID, nil
}

// Await polls the task until it succeeds, fails, or the maximum wait elapses.
func (c *Client) Await(ctx context.Context, taskID string) ([]string, error) {
	deadline := time.Now().Add(c.maxWait)
	url := fmt.Sprintf("%s%s?taskId=%s", c.BaseURL, recordInfoPath, taskID)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		if time.Now().After(deadline) {
			return nil, &TimeoutError{TaskID: taskID}
		}

		var parsed queryTaskResponse
		if err := c.doRequest(ctx, http.MethodGet, url, nil, &parsed); err != nil {
			return nil, err
		}
		if parsed.Code != successCode {
			return nil, fmt.Errorf("kie: status query rejected: %d - %s", parsed.Code, parsed.Msg)
		}

		switch parsed.Data.State {
		case stateSuccess:
			if parsed.Data.ResultJSON == "" {
				return nil, fmt.Errorf("kie: task %s succeeded with empty result", taskID)
			}
			var result taskResult
			if err := json.Unmarshal([]byte(parsed.Data.ResultJSON), &result); err != nil {
				return nil, fmt.Errorf("kie: parse result: %w", err)
			}
			if len(result.ResultURLs) == 0 {
				return nil, fmt.Errorf("kie: task %s returned no image URLs", taskID)
			}
			return result.ResultURLs, nil
		case stateFail:
			return nil, fmt.Errorf("kie: task %s failed: %s - %s", taskID, parsed.Data.FailCode, parsed.Data.FailMsg)
		default:
			// pending/queuing/generating, keep polling
			continue
		}
	}
}

func (c *Client) doRequest(ctx context.Context, method, url string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("kie request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("kie error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
