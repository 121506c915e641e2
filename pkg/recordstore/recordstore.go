// Package recordstore abstracts the external tabular store that keeps one
// row per generation job: prompts, image attachments, and post text.
package recordstore

import (
	"context"
)

// Fields is a flat field map keyed by the table's column names.
type Fields map[string]interface{}

// Attachment wraps a URL in the attachment-cell shape the store expects.
func Attachment(url string) []map[string]string {
	return []map[string]string{{"url": url}}
}

// Store is the raw record interface.
type Store interface {
	Create(ctx context.Context, fields Fields) (recordID string, err error)
	Get(ctx context.Context, recordID string) (Fields, error)
	Update(ctx context.Context, recordID string, fields Fields) error
}
