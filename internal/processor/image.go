package processor

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// imageProcessor implements the `image` processor: decode, conditionally
// resize, and re-encode raster images (spec §4.2).
type imageProcessor struct {
	maxWidth  int
	maxHeight int
}

// NewImage constructs the image processor from its `max_width`/`max_height`
// options (both default to 0, meaning no cap — the asset passes through
// untouched).
func NewImage(opts map[string]interface{}, _ Deps) (Processor, error) {
	return &imageProcessor{
		maxWidth:  optInt(opts, "max_width", 0),
		maxHeight: optInt(opts, "max_height", 0),
	}, nil
}

func (p *imageProcessor) Name() string { return "image" }

func (p *imageProcessor) MediaTypes() []string {
	return []string{asset.JPEG, asset.PNG, asset.GIF}
}

func (p *imageProcessor) Process(a *asset.Asset, _ *ctxval.Context) Result {
	img, format, err := image.Decode(bytes.NewReader(a.Content.Bytes()))
	if err != nil {
		return RecoverableError("image: decoding " + a.SourcePath + ": " + err.Error())
	}

	bounds := img.Bounds()
	withinLimits := (p.maxWidth == 0 || bounds.Dx() <= p.maxWidth) &&
		(p.maxHeight == 0 || bounds.Dy() <= p.maxHeight)
	if withinLimits {
		return Skipped()
	}

	fitW, fitH := p.maxWidth, p.maxHeight
	if fitW == 0 {
		fitW = bounds.Dx()
	}
	if fitH == 0 {
		fitH = bounds.Dy()
	}
	resized := imaging.Fit(img, fitW, fitH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imagingFormat(format)); err != nil {
		return RecoverableError("image: encoding " + a.SourcePath + ": " + err.Error())
	}

	next := *a
	next.Content = asset.BytesContent(buf.Bytes())
	return Success(&next)
}

// imagingFormat maps the format name image.Decode reports back to the
// imaging.Format constant needed to re-encode it.
func imagingFormat(name string) imaging.Format {
	switch name {
	case "png":
		return imaging.PNG
	case "gif":
		return imaging.GIF
	default:
		return imaging.JPEG
	}
}
