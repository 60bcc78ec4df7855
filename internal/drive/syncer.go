package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileSource is the part of the Drive API the syncer needs.
type FileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// SyncResult reports which export files were refreshed.
type SyncResult struct {
	Downloaded []string `json:"downloaded"`
	Missing    []string `json:"missing"`
}

// Syncer copies the Infoserve exports from a Drive folder into the local data directory.
type Syncer struct {
	source FileSource
}

func NewSyncer(source FileSource) *Syncer {
	return &Syncer{source: source}
}

// Sync downloads every file of names found in folderID into destDir. Names are
// matched case-insensitively. Each file is written to a temporary name first so
// a failed download never leaves a truncated export behind. Files absent from
// the folder are listed in Missing and keep their previous local copy.
func (s *Syncer) Sync(ctx context.Context, folderID, destDir string, names []string) (*SyncResult, error) {
	if destDir == "" {
		return nil, fmt.Errorf("destination dir is required")
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination dir: %w", err)
	}

	files, err := s.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*File, len(files))
	for _, f := range files {
		key := strings.ToLower(f.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = f
		}
	}

	result := &SyncResult{Downloaded: []string{}, Missing: []string{}}
	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		f, ok := byName[strings.ToLower(name)]
		if !ok {
			log.Warn().Str("file", name).Str("folder", folderID).Msg("export not found in drive folder")
			result.Missing = append(result.Missing, name)
			continue
		}

		if err := s.download(ctx, f, filepath.Join(destDir, name)); err != nil {
			return nil, err
		}
		log.Info().Str("file", name).Int64("size", f.Size).Msg("export synced from drive")
		result.Downloaded = append(result.Downloaded, name)
	}
	return result, nil
}

func (s *Syncer) download(ctx context.Context, f *File, dest string) error {
	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", tmp, err)
	}
	if err := s.source.DownloadFile(ctx, f.ID, out); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	return nil
}
