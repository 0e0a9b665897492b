package storage

import (
	"context"
)

type FileStore interface {
	UploadFile(ctx context.Context, file []byte, filename string, folder string) (string, error)
}
