//go:build !ktx_native

package native

import (
	"errors"

	"github.com/woozymasta/gputex/compression"
	"github.com/woozymasta/gputex/ktx"
)

var errDisabled = errors.New("ktx/native: disabled (build with -tags ktx_native and CGO_ENABLED=1)")

// Enabled reports whether libktx is linked into this build.
func Enabled() bool { return false }

// Engine is the libktx engine. In this build it creates nothing.
type Engine struct{}

// New returns an error in this build.
func New() (*Engine, error) { return nil, errDisabled }

// CreateTexture implements ktx.Engine.
func (*Engine) CreateTexture(ktx.CreateInfo) (ktx.NativeTexture, ktx.ErrorCode) {
	return nil, ktx.LibraryNotLinked
}

// Supports implements ktx.Capabilities.
func (*Engine) Supports(compression.Algorithm) bool { return false }
