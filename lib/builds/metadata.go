package builds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/detmach/snapsmith/lib/paths"
)

// snapshotMetadata is stored next to the snapshot artifact on success.
type snapshotMetadata struct {
	BuildID       string    `json:"build_id"`
	Reference     string    `json:"reference"`
	Digest        string    `json:"digest"`
	Entrypoint    []string  `json:"entrypoint,omitempty"`
	Cmd           []string  `json:"cmd,omitempty"`
	Env           []string  `json:"env,omitempty"`
	WorkingDir    string    `json:"working_dir,omitempty"`
	RAMSize       string    `json:"ram_size"`
	DataSize      string    `json:"data_size"`
	SnapshotBytes int64     `json:"snapshot_bytes"`
	DurationMS    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// writeMetadata writes metadata atomically using temp file + rename
func writeMetadata(workDir string, meta *snapshotMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	finalPath := paths.MetadataFile(workDir)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("write temp metadata: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath) // cleanup
		return fmt.Errorf("rename metadata: %w", err)
	}

	return nil
}

// dirSize calculates the total size of a directory
func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
