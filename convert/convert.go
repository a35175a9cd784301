// Package convert turns one source image into a GPU texture asset, either a
// KTX2 container or a BC1/BC3 blob with a JSON sidecar.
package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/gputex/compression"
	"github.com/woozymasta/gputex/dxt"
)

// ContainerExtension is the extension of container pipeline outputs.
const ContainerExtension = ".ktx"

// ErrOutsideSource indicates an input that does not live under FromDir.
var ErrOutsideSource = errors.New("input is outside the source directory")

// ErrOutputCollision indicates an input whose output path is already claimed
// by another input with the same stem, such as a.png and a.jpg.
var ErrOutputCollision = errors.New("output path collides with another input")

// Options are shared by both pipelines.
type Options struct {
	// FromDir is the source root; outputs mirror paths relative to it.
	FromDir string
	// ToDir is the destination root. Empty writes outputs next to inputs.
	ToDir string
	// Compression drives the container pipeline and the premultiply flag
	// of both pipelines.
	Compression compression.Config
	// BlockContainer selects the on-disk layout of block pipeline blobs.
	BlockContainer dxt.Container
	// DeleteOriginal removes the source after every output is written.
	DeleteOriginal bool
}

// Converter converts a single file.
type Converter interface {
	Convert(path string) error
}

// ConversionError carries the path of the file whose conversion failed.
type ConversionError struct {
	Err  error
	Path string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func fail(path string, err error) error {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return err
	}
	return &ConversionError{Path: path, Err: err}
}

// OutputPath maps input to its output with extension ext (leading dot
// included). With toDir set, the path relative to fromDir is mirrored under
// toDir and missing parent directories are created.
func OutputPath(input, fromDir, toDir, ext string) (string, error) {
	out := input
	if toDir != "" {
		rel, err := filepath.Rel(fromDir, input)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrOutsideSource, err)
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
			return "", fmt.Errorf("%w: %s", ErrOutsideSource, input)
		}
		out = filepath.Join(toDir, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return "", err
		}
	}
	return strings.TrimSuffix(out, filepath.Ext(out)) + ext, nil
}

func removeOriginal(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting original: %w", err)
	}
	return nil
}
