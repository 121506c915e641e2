package llm

import (
	"context"
)

// Option allows for optional sampling parameters like Temperature, TopP, etc.
type Option func(*Options)

type Options struct {
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
	MaxRetries      int // Override provider default retry bound
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithTopP(topP float64) Option {
	return func(o *Options) {
		o.TopP = topP
	}
}

func WithMaxOutputTokens(n int) Option {
	return func(o *Options) {
		o.MaxOutputTokens = n
	}
}

func WithMaxRetries(n int) Option {
	return func(o *Options) {
		o.MaxRetries = n
	}
}

// TextProvider defines the contract for the structure/text generation backend
type TextProvider interface {
	// GenerateText sends a prompt with an optional system instruction and
	// returns the raw response text.
	GenerateText(ctx context.Context, prompt, systemInstruction string, options ...Option) (string, error)

	// GenerateDocument generates text and parses it as JSON into out,
	// tolerating markdown fences and trailing chatter around the document.
	GenerateDocument(ctx context.Context, prompt, systemInstruction string, out interface{}, options ...Option) error
}
