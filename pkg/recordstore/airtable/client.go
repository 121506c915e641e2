// Package airtable implements recordstore.Store against the Airtable REST API.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ai-carousel-bot/pkg/recordstore"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// Client talks to a single Airtable table.
type Client struct {
	baseURL    string
	token      string
	baseID     string
	table      string
	httpClient *http.Client
}

var _ recordstore.Store = &Client{}

// NewClient creates a client for one base/table pair.
func NewClient(token, baseID, table string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		baseID:     baseID,
		table:      table,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type recordPayload struct {
	Fields recordstore.Fields `json:"fields"`
	// Airtable rejects unknown column names unless typecast is set.
	Typecast bool `json:"typecast"`
}

type recordResponse struct {
	ID     string             `json:"id"`
	Fields recordstore.Fields `json:"fields"`
}

func (c *Client) Create(ctx context.Context, fields recordstore.Fields) (string, error) {
	var out recordResponse
	if err := c.do(ctx, http.MethodPost, c.tableURL(""), recordPayload{Fields: fields, Typecast: true}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) Get(ctx context.Context, recordID string) (recordstore.Fields, error) {
	var out recordResponse
	if err := c.do(ctx, http.MethodGet, c.tableURL(recordID), nil, &out); err != nil {
		return nil, err
	}
	return out.Fields, nil
}

func (c *Client) Update(ctx context.Context, recordID string, fields recordstore.Fields) error {
	var out recordResponse
	return c.do(ctx, http.MethodPatch, c.tableURL(recordID), recordPayload{Fields: fields, Typecast: true}, &out)
}

func (c *Client) tableURL(recordID string) string {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.table))
	if recordID != "" {
		u += "/" + recordID
	}
	return u
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("airtable: marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("airtable: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("airtable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("airtable: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("airtable: status %d: %s", resp.StatusCode, truncate(string(data), 300))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("airtable: decode response: %w", err)
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
