package convert

import (
	"github.com/woozymasta/gputex/dxt"
	"github.com/woozymasta/gputex/imageio"
	"github.com/woozymasta/gputex/internal/logging"
)

// BlockPipeline writes BC1/BC3 blobs with a JSON sidecar.
type BlockPipeline struct {
	opts Options
}

// NewBlockPipeline returns a block pipeline.
func NewBlockPipeline(opts Options) *BlockPipeline {
	return &BlockPipeline{opts: opts}
}

// Convert decodes path, picks BC1 or BC3 from its alpha and writes the blob
// followed by its sidecar.
func (p *BlockPipeline) Convert(path string) error {
	log := logging.Logger()
	log.Debug("begin converting", "path", path, "container", "dxt")

	if err := p.convert(path); err != nil {
		return fail(path, err)
	}

	log.Debug("finish converting", "path", path)
	return nil
}

func (p *BlockPipeline) convert(path string) error {
	img, err := imageio.DecodeFile(path)
	if err != nil {
		return err
	}

	alpha, err := imageio.HasAlphaMask(img.Pix)
	if err != nil {
		return err
	}
	premultiplied := p.opts.Compression.Premultiplied()
	if premultiplied {
		if err := imageio.Premultiply(img.Pix); err != nil {
			return err
		}
	}

	codec := dxt.SelectCodec(alpha)
	data := make([]byte, dxt.CompressedSize(codec, img.Width, img.Height))
	if err := dxt.Compress(codec, img.Pix, img.Width, img.Height, data, nil); err != nil {
		return err
	}

	out, err := OutputPath(path, p.opts.FromDir, p.opts.ToDir, "."+codec.Extension(premultiplied))
	if err != nil {
		return err
	}

	blob := dxt.Blob{
		Codec:         codec,
		Width:         img.Width,
		Height:        img.Height,
		Premultiplied: premultiplied,
		Data:          data,
	}
	meta, err := dxt.WriteBlob(out, blob, p.opts.BlockContainer)
	if err != nil {
		return err
	}
	if err := dxt.WriteMetadata(out, meta); err != nil {
		return err
	}

	if p.opts.DeleteOriginal {
		return removeOriginal(path)
	}
	return nil
}
