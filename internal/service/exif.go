package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// exifDateLayouts are tried in order against DateTimeOriginal: a generic
// timestamp first, then the canonical colon-separated EXIF form.
var exifDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006:01:02 15:04:05",
}

// extractCaptureMetadata reads the capture time and DPI string out of the
// embedded EXIF block. Missing or unparsable metadata is not an error:
// the capture time falls back to the upload time and the resolution
// string comes back empty.
func extractCaptureMetadata(data []byte, uploadedAt time.Time) (time.Time, string) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return uploadedAt, ""
	}

	createdAt := uploadedAt
	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		if raw, err := tag.StringVal(); err == nil {
			raw = strings.TrimSpace(raw)
			for _, layout := range exifDateLayouts {
				if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
					createdAt = parsed
					break
				}
			}
		}
	}

	return createdAt, resolutionString(x)
}

// resolutionString renders the X/Y DPI pair, e.g. "72x72 dpi"; it is used
// only for descriptive text.
func resolutionString(x *exif.Exif) string {
	xRes := rationalValue(x, exif.XResolution)
	yRes := rationalValue(x, exif.YResolution)
	if xRes == 0 || yRes == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d dpi", xRes, yRes)
}

func rationalValue(x *exif.Exif, field exif.FieldName) int64 {
	tag, err := x.Get(field)
	if err != nil {
		return 0
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
