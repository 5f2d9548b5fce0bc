package storage

import (
	"fmt"

	"github.com/h2non/filetype"
)

// Format is the codec handle returned by a successful sniff.
type Format struct {
	// Ext is the canonical extension of the detected codec.
	Ext string
	// MIME is the detected media type, e.g. "image/jpeg".
	MIME string
}

// canonicalExt collapses extension aliases to the form the magic-byte
// detector reports.
var canonicalExt = map[string]string{
	"jpg":  "jpg",
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
	"tif":  "tif",
	"tiff": "tif",
	"bmp":  "bmp",
}

var supportedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/tiff": true,
	"image/bmp":  true,
}

// Sniff cross-checks the buffered content's magic bytes against the
// claimed extension and the codec allow-list. A mismatch, an unsupported
// MIME or undetectable magic numbers all fail with ErrUnrecognizedFormat.
func Sniff(name SafeName, data []byte) (Format, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return Format{}, fmt.Errorf("%w: undetectable magic numbers in %q", ErrUnrecognizedFormat, name.String())
	}

	if !supportedMIME[kind.MIME.Value] {
		return Format{}, fmt.Errorf("%w: unsupported media type %q", ErrUnrecognizedFormat, kind.MIME.Value)
	}

	claimed, ok := canonicalExt[name.Ext]
	if !ok || claimed != kind.Extension {
		return Format{}, fmt.Errorf("%w: extension %q does not match content %q", ErrUnrecognizedFormat, name.Ext, kind.Extension)
	}

	return Format{Ext: kind.Extension, MIME: kind.MIME.Value}, nil
}
