package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gosimple/slug"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	GetPublicURL(key string) string
}

// SnapshotKey is the object key of a fixture's bracket export, for example
// "fixtures/12-spring-open/bracket.json".
func SnapshotKey(fixtureID int, fixtureName string) string {
	name := slug.Make(fixtureName)
	if name == "" {
		return fmt.Sprintf("fixtures/%d/bracket.json", fixtureID)
	}
	return fmt.Sprintf("fixtures/%d-%s/bracket.json", fixtureID, name)
}

// UploadJSON encodes v and stores it under key.
func UploadJSON(ctx context.Context, uploader FileUploader, key string, v interface{}) (*UploadResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}
	return uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
}
