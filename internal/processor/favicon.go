package processor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/png"
	"path"

	ico "github.com/biessek/golang-ico"
	"github.com/disintegration/imaging"

	"github.com/aerstatic/aer/internal/asset"
	"github.com/aerstatic/aer/internal/ctxval"
)

// faviconSizes are the square dimensions bundled into favicon.ico, the
// conventional small/medium/large triple every browser that reads
// favicon.ico picks from (spec §4.2: "multi-size image/x-icon").
var faviconSizes = []int{16, 32, 48}

// faviconProcessor implements the `favicon` processor: the root
// favicon.png source asset becomes a multi-size favicon.ico (spec §4.2).
type faviconProcessor struct{}

// NewFavicon constructs the favicon processor. It takes no options.
func NewFavicon(_ map[string]interface{}, _ Deps) (Processor, error) {
	return &faviconProcessor{}, nil
}

func (p *faviconProcessor) Name() string { return "favicon" }

func (p *faviconProcessor) MediaTypes() []string { return []string{asset.PNG} }

func (p *faviconProcessor) Process(a *asset.Asset, _ *ctxval.Context) Result {
	if path.Dir(a.SourcePath) != "." || path.Base(a.SourcePath) != "favicon.png" {
		return Skipped()
	}

	src, _, err := image.Decode(bytes.NewReader(a.Content.Bytes()))
	if err != nil {
		return RecoverableError("favicon: decoding " + a.SourcePath + ": " + err.Error())
	}

	images := make([]image.Image, len(faviconSizes))
	for i, size := range faviconSizes {
		images[i] = imaging.Resize(src, size, size, imaging.Lanczos)
	}

	encoded, err := encodeMultiSizeICO(images)
	if err != nil {
		return RecoverableError("favicon: encoding: " + err.Error())
	}

	next := *a
	next.Content = asset.BytesContent(encoded)
	next.MediaType = "image/x-icon"
	next.TargetPath = asset.ReplaceExt(a.TargetPath, ".ico")
	return Success(&next)
}

// encodeMultiSizeICO assembles a single multi-entry ICO file from several
// same-format images. golang-ico's Encode only ever writes a complete
// one-entry ICO (a 6-byte ICONDIR, one 16-byte ICONDIRENTRY, then that
// entry's image data); this calls it once per size to get a correctly
// encoded entry and data block, then re-packs the entries behind a single
// ICONDIR with recomputed imageOffset fields, per the ICO container
// format (no third-party encoder in the pack exposes a multi-image API).
func encodeMultiSizeICO(images []image.Image) ([]byte, error) {
	const iconDirLen = 6
	const iconDirEntryLen = 16

	type entry struct {
		header [iconDirEntryLen]byte
		data   []byte
	}

	entries := make([]entry, len(images))
	for i, img := range images {
		var buf bytes.Buffer
		if err := ico.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding %dx%d entry: %w", img.Bounds().Dx(), img.Bounds().Dy(), err)
		}
		raw := buf.Bytes()
		if len(raw) < iconDirLen+iconDirEntryLen {
			return nil, fmt.Errorf("unexpected ico encoding for %dx%d entry", img.Bounds().Dx(), img.Bounds().Dy())
		}
		var e entry
		copy(e.header[:], raw[iconDirLen:iconDirLen+iconDirEntryLen])
		e.data = raw[iconDirLen+iconDirEntryLen:]
		entries[i] = e
	}

	var out bytes.Buffer
	out.Write([]byte{0, 0, 1, 0}) // ICONDIR: reserved=0, type=1 (icon)
	binary.Write(&out, binary.LittleEndian, uint16(len(entries)))

	offset := uint32(iconDirLen + iconDirEntryLen*len(entries))
	for _, e := range entries {
		out.Write(e.header[:12]) // width, height, colorCount, reserved, planes, bitCount, bytesInRes
		var offBuf [4]byte
		binary.LittleEndian.PutUint32(offBuf[:], offset)
		out.Write(offBuf[:])
		offset += uint32(len(e.data))
	}
	for _, e := range entries {
		out.Write(e.data)
	}
	return out.Bytes(), nil
}
