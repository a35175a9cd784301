package dxt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/woozymasta/gputex/internal/fsutil"
)

// SidecarSuffix replaces the blob extension to name its metadata file.
const SidecarSuffix = ".json"

// Metadata is the JSON sidecar written next to each blob.
type Metadata struct {
	Extension        string `json:"extension"`
	Container        string `json:"container,omitempty"`
	Supercompression string `json:"supercompression,omitempty"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
}

// SidecarPath returns the metadata path for blobPath: a.dxt4 maps to a.json.
func SidecarPath(blobPath string) string {
	return strings.TrimSuffix(blobPath, filepath.Ext(blobPath)) + SidecarSuffix
}

// WriteMetadata writes m as the sidecar of blobPath.
func WriteMetadata(blobPath string, m Metadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteMetadata, err)
	}
	data = append(data, '\n')

	if err := fsutil.WriteFile(SidecarPath(blobPath), data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteMetadata, err)
	}
	return nil
}

// ReadMetadata reads the sidecar of blobPath.
func ReadMetadata(blobPath string) (Metadata, error) {
	path := SidecarPath(blobPath)
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("%w: %q: %v", ErrMetadata, path, err)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return Metadata{}, fmt.Errorf("%w: %q: dimensions %dx%d", ErrMetadata, path, m.Width, m.Height)
	}
	if _, _, err := CodecForExtension(m.Extension); err != nil {
		return Metadata{}, fmt.Errorf("%w: %q: %v", ErrMetadata, path, err)
	}
	return m, nil
}
