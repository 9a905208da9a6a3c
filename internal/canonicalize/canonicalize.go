package canonicalize

import (
	"fmt"

	"github.com/aerstatic/aer/internal/asset"
)

// Apply rewrites content according to its media type: HTML rewrites
// attributes (plus inline style url()s and meta content url=), CSS
// rewrites url() references directly. Any other media type is an error —
// callers are expected to only invoke this for text/html and text/css
// (spec §4.4).
func Apply(mediaType, content, root, targetPath string) (string, error) {
	switch mediaType {
	case asset.HTML:
		return HTML(content, root, targetPath)
	case asset.CSS:
		return CSS(content, root, targetPath)
	default:
		return "", fmt.Errorf("canonicalize: unsupported media type %q", mediaType)
	}
}
