package convert

import (
	"os"

	"github.com/woozymasta/gputex/imageio"
	"github.com/woozymasta/gputex/internal/fsutil"
	"github.com/woozymasta/gputex/internal/logging"
	"github.com/woozymasta/gputex/ktx"
)

// ContainerPipeline writes KTX2 containers through a ktx.Engine.
type ContainerPipeline struct {
	engine ktx.Engine
	opts   Options
}

// NewContainerPipeline returns a pipeline using engine. opts.Compression is
// used as given; clamping belongs to compression.Decode and config.Validate.
func NewContainerPipeline(engine ktx.Engine, opts Options) *ContainerPipeline {
	return &ContainerPipeline{engine: engine, opts: opts}
}

// Convert decodes path, compresses it as configured and writes the container.
func (p *ContainerPipeline) Convert(path string) error {
	log := logging.Logger()
	log.Debug("begin converting", "path", path, "container", "ktx")

	if err := p.convert(path); err != nil {
		return fail(path, err)
	}

	log.Debug("finish converting", "path", path)
	return nil
}

func (p *ContainerPipeline) convert(path string) error {
	img, err := imageio.DecodeFile(path)
	if err != nil {
		return err
	}
	if p.opts.Compression.Premultiplied() {
		if err := imageio.Premultiply(img.Pix); err != nil {
			return err
		}
	}

	out, err := OutputPath(path, p.opts.FromDir, p.opts.ToDir, ContainerExtension)
	if err != nil {
		return err
	}

	tex, err := ktx.Create(p.engine, img.Width, img.Height, ktx.FormatR8G8B8A8UNorm)
	if err != nil {
		return err
	}
	defer func() { _ = tex.Close() }()

	bound, err := tex.BindImage(img.Pix)
	if err != nil {
		return err
	}
	if err := bound.Compress(p.opts.Compression); err != nil {
		return err
	}

	tmp, err := fsutil.TempSibling(out)
	if err != nil {
		return err
	}
	if err := bound.Write(tmp); err != nil {
		fsutil.Discard(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		fsutil.Discard(tmp)
		return err
	}
	if err := fsutil.Commit(tmp, out); err != nil {
		return err
	}

	if p.opts.DeleteOriginal {
		return removeOriginal(path)
	}
	return nil
}
