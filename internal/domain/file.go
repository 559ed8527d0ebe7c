package domain

import "context"

// FileRepository defines operations for storing uploaded files (product images)
type FileRepository interface {
	Upload(ctx context.Context, file []byte, filename string, contentType string) (string, error)
}
