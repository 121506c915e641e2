// Package telegram is a minimal Bot API client covering long polling and the
// send/receive surface the assistant needs.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const apiBase = "https://api.telegram.org"

// Upload ceilings enforced before a file is pushed to a chat. Photos above
// the photo ceiling but under the document ceiling go out as documents.
const (
	MaxPhotoBytes    = 10 * 1024 * 1024
	MaxDocumentBytes = 50 * 1024 * 1024
)

// Client calls the Bot API for a single bot token.
type Client struct {
	token       string
	pollTimeout int
	httpClient  *http.Client
}

// NewClient builds a client. pollTimeout is the getUpdates long-poll window
// in seconds.
func NewClient(token string, pollTimeout int) *Client {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Client{
		token:       token,
		pollTimeout: pollTimeout,
		// Must outlive the long-poll window.
		httpClient: &http.Client{Timeout: time.Duration(pollTimeout+15) * time.Second},
	}
}

// GetUpdates long-polls for new updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(c.pollTimeout))
	params.Set("allowed_updates", `["message"]`)

	raw, err := c.call(ctx, "getUpdates", params)
	if err != nil {
		return nil, err
	}
	var updates []Update
	if err := json.Unmarshal(raw, &updates); err != nil {
		return nil, fmt.Errorf("telegram: decode updates: %w", err)
	}
	return updates, nil
}

// SendText sends a plain-text message.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.sendMessage(ctx, chatID, text, "", nil)
}

// SendHTML sends a message with HTML parse mode.
func (c *Client) SendHTML(ctx context.Context, chatID int64, text string) error {
	return c.sendMessage(ctx, chatID, text, "HTML", nil)
}

// SendTextWithKeyboard sends a message with a reply markup attached. markup
// is a ReplyKeyboardMarkup or ReplyKeyboardRemove.
func (c *Client) SendTextWithKeyboard(ctx context.Context, chatID int64, text string, markup interface{}) error {
	return c.sendMessage(ctx, chatID, text, "", markup)
}

func (c *Client) sendMessage(ctx context.Context, chatID int64, text, parseMode string, markup interface{}) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	if parseMode != "" {
		params.Set("parse_mode", parseMode)
	}
	if markup != nil {
		encoded, err := json.Marshal(markup)
		if err != nil {
			return fmt.Errorf("telegram: marshal reply markup: %w", err)
		}
		params.Set("reply_markup", string(encoded))
	}
	_, err := c.call(ctx, "sendMessage", params)
	return err
}

// SendImage uploads image bytes as a photo with an optional caption. Images
// over the photo ceiling are sent as documents instead so quality survives.
func (c *Client) SendImage(ctx context.Context, chatID int64, caption, filename string, data []byte) error {
	if len(data) > MaxPhotoBytes {
		return c.SendFile(ctx, chatID, caption, filename, data)
	}
	_, err := c.upload(ctx, "sendPhoto", chatID, caption, "photo", filename, data)
	return err
}

// SendFile uploads bytes as a document.
func (c *Client) SendFile(ctx context.Context, chatID int64, caption, filename string, data []byte) error {
	if len(data) > MaxDocumentBytes {
		return fmt.Errorf("telegram: document %q is %d bytes, over the %d limit", filename, len(data), MaxDocumentBytes)
	}
	_, err := c.upload(ctx, "sendDocument", chatID, caption, "document", filename, data)
	return err
}

// UploadPhoto sends a photo and returns the file_id of the largest rendition
// Telegram stored, which then serves as a reusable reference.
func (c *Client) UploadPhoto(ctx context.Context, chatID int64, caption, filename string, data []byte) (string, error) {
	raw, err := c.upload(ctx, "sendPhoto", chatID, caption, "photo", filename, data)
	if err != nil {
		return "", err
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return "", fmt.Errorf("telegram: decode sent photo: %w", err)
	}
	if len(msg.Photo) == 0 {
		return "", fmt.Errorf("telegram: sendPhoto returned no photo sizes")
	}
	return msg.Photo[len(msg.Photo)-1].FileID, nil
}

// GetFileURL resolves a file_id into a direct download URL.
func (c *Client) GetFileURL(ctx context.Context, fileID string) (string, error) {
	params := url.Values{}
	params.Set("file_id", fileID)
	raw, err := c.call(ctx, "getFile", params)
	if err != nil {
		return "", err
	}
	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return "", fmt.Errorf("telegram: decode file: %w", err)
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("telegram: getFile returned empty path for %s", fileID)
	}
	return fmt.Sprintf("%s/file/bot%s/%s", apiBase, c.token, file.FilePath), nil
}

// SetMyCommands registers the slash-command menu.
func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	encoded, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("telegram: marshal commands: %w", err)
	}
	params := url.Values{}
	params.Set("commands", string(encoded))
	_, err = c.call(ctx, "setMyCommands", params)
	return err
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(method, resp.Body)
}

func (c *Client) upload(ctx context.Context, method string, chatID int64, caption, field, filename string, data []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return nil, fmt.Errorf("telegram: write form field: %w", err)
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return nil, fmt.Errorf("telegram: write form field: %w", err)
		}
	}
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("telegram: create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("telegram: write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("telegram: close form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", apiBase, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(method, resp.Body)
}

func decodeAPIResponse(method string, body io.Reader) (json.RawMessage, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("telegram: %s: read response: %w", method, err)
	}
	var api apiResponse
	if err := json.Unmarshal(data, &api); err != nil {
		return nil, fmt.Errorf("telegram: %s: decode response: %w", method, err)
	}
	if !api.OK {
		return nil, fmt.Errorf("telegram: %s failed with code %d: %s", method, api.ErrorCode, api.Description)
	}
	return api.Result, nil
}
