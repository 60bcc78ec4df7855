package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the service needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// NoopStorage discards uploads; used when object storage is disabled.
type NoopStorage struct{}

func (NoopStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return nil, nil
}

func (NoopStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	return fmt.Errorf("object storage disabled: cannot download %s", key)
}

func (NoopStorage) UploadObject(ctx context.Context, key string, data []byte) error {
	return nil
}

var _ ObjectStorage = NoopStorage{}

const stampLayout = "20060102_150405"

// InformesKey names the archived copy of an Informes upload.
func InformesKey(sessionID, fileName string, at time.Time) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "informes.xlsx"
	}
	return InformesPrefix(sessionID) + at.UTC().Format(stampLayout) + "_" + base
}

// InformesPrefix is the key prefix shared by every archived upload of a session.
func InformesPrefix(sessionID string) string {
	session := strings.ReplaceAll(strings.TrimSpace(sessionID), "/", "_")
	if session == "" {
		session = "default"
	}
	return fmt.Sprintf("informes/%s/", session)
}

// LatestObject returns the object with the greatest key. Archive keys carry a
// fixed-width UTC stamp, so that is the most recent upload.
func LatestObject(objects []ObjectInfo) (ObjectInfo, bool) {
	if len(objects) == 0 {
		return ObjectInfo{}, false
	}
	latest := objects[0]
	for _, o := range objects[1:] {
		if o.Key > latest.Key {
			latest = o
		}
	}
	return latest, true
}

// UploadedName recovers the original file name from an archive key.
func UploadedName(key string) string {
	base := path.Base(key)
	if len(base) > len(stampLayout)+1 && base[len(stampLayout)] == '_' {
		if _, err := time.Parse(stampLayout, base[:len(stampLayout)]); err == nil {
			return base[len(stampLayout)+1:]
		}
	}
	return base
}
