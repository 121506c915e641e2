package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"ai-carousel-bot/pkg/imagegen"
	"ai-carousel-bot/pkg/llm"
	"ai-carousel-bot/pkg/recordstore"
)

// Test doubles shared by the conversation and generation tests.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type sentImage struct {
	ChatID   int64
	Caption  string
	Filename string
	Data     []byte
}

type fakeTransport struct {
	mu sync.Mutex

	Texts     []string
	HTML      []string
	Keyboards int
	Images    []sentImage

	// Delay widens the window between a state check and the following
	// state write, standing in for real network latency.
	Delay time.Duration

	FileURL string
	FileErr error

	UploadedFileID string
	UploadErr      error
}

func (f *fakeTransport) SendText(_ context.Context, _ int64, text string) error {
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Texts = append(f.Texts, text)
	return nil
}

func (f *fakeTransport) SendHTML(_ context.Context, _ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.HTML = append(f.HTML, text)
	return nil
}

func (f *fakeTransport) SendTextWithKeyboard(_ context.Context, _ int64, text string, _ interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Texts = append(f.Texts, text)
	f.Keyboards++
	return nil
}

func (f *fakeTransport) SendImage(_ context.Context, chatID int64, caption, filename string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Images = append(f.Images, sentImage{ChatID: chatID, Caption: caption, Filename: filename, Data: data})
	return nil
}

func (f *fakeTransport) SendFile(_ context.Context, chatID int64, caption, filename string, data []byte) error {
	return f.SendImage(context.Background(), chatID, caption, filename, data)
}

func (f *fakeTransport) GetFileURL(_ context.Context, _ string) (string, error) {
	if f.FileErr != nil {
		return "", f.FileErr
	}
	if f.FileURL != "" {
		return f.FileURL, nil
	}
	return "https://files.example.com/photo.jpg", nil
}

func (f *fakeTransport) UploadPhoto(_ context.Context, _ int64, _, _ string, _ []byte) (string, error) {
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	return f.UploadedFileID, nil
}

func (f *fakeTransport) LastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Texts) == 0 {
		return ""
	}
	return f.Texts[len(f.Texts)-1]
}

type fakePublisher struct {
	mu       sync.Mutex
	Payloads [][]byte
	Err      error
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Payloads = append(f.Payloads, payload)
	return nil
}

type fakeTextProvider struct {
	Text string
	Err  error

	Prompts  []string
	Systems  []string
	LastOpts llm.Options
}

func (f *fakeTextProvider) GenerateText(_ context.Context, prompt, system string, options ...llm.Option) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	f.Systems = append(f.Systems, system)
	f.LastOpts = llm.Options{}
	for _, opt := range options {
		opt(&f.LastOpts)
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}

func (f *fakeTextProvider) GenerateDocument(ctx context.Context, prompt, system string, out interface{}, opts ...llm.Option) error {
	text, err := f.GenerateText(ctx, prompt, system, opts...)
	if err != nil {
		return err
	}
	return llm.UnmarshalFlex(text, out)
}

// fakeImageProvider returns one canned URL per render and can fail specific
// submissions by index.
type fakeImageProvider struct {
	mu      sync.Mutex
	calls   int
	FailOn  map[int]bool // 1-based submit index
	Inputs  []imagegen.Input
	BaseURL string
}

func (f *fakeImageProvider) Submit(_ context.Context, in imagegen.Input) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.Inputs = append(f.Inputs, in)
	if f.FailOn[f.calls] {
		return "", errors.New("backend unavailable")
	}
	return strconv.Itoa(f.calls), nil
}

func (f *fakeImageProvider) Await(_ context.Context, taskID string) ([]string, error) {
	return []string{f.BaseURL + "/out_" + taskID + ".png"}, nil
}

type fakeRecordStore struct {
	mu      sync.Mutex
	Records map[string]recordstore.Fields
	NextID  string

	CreateErr error
	UpdateErr error
	GetErr    error

	Creates int
	Updates int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		Records: make(map[string]recordstore.Fields),
		NextID:  "rec1",
	}
}

func (f *fakeRecordStore) Create(_ context.Context, fields recordstore.Fields) (string, error) {
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Creates++
	f.Records[f.NextID] = fields
	return f.NextID, nil
}

func (f *fakeRecordStore) Get(_ context.Context, recordID string) (recordstore.Fields, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fields, ok := f.Records[recordID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return fields, nil
}

func (f *fakeRecordStore) Update(_ context.Context, recordID string, fields recordstore.Fields) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updates++
	existing, ok := f.Records[recordID]
	if !ok {
		existing = recordstore.Fields{}
	}
	for k, v := range fields {
		existing[k] = v
	}
	f.Records[recordID] = existing
	return nil
}
