package imagegen

import (
	"context"
)

// Input describes one image generation request.
type Input struct {
	Prompt       string
	ImageInputs  []string // reference image URLs, at most 8
	AspectRatio  string   // e.g. "4:5"
	Resolution   string   // e.g. "2K"
	OutputFormat string   // e.g. "png"
}

// Provider defines the contract for the asynchronous image backend: submit a
// task, then poll it to completion.
type Provider interface {
	Submit(ctx context.Context, in Input) (taskID string, err error)
	Await(ctx context.Context, taskID string) (urls []string, err error)
}
