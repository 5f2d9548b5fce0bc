package service

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exifTIFF assembles a minimal little-endian TIFF whose Exif sub-IFD
// carries a single DateTimeOriginal value.
func exifTIFF(t *testing.T, datetime string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	write := func(v any) {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
	}

	buf.WriteString("II")
	write(uint16(0x2a))
	write(uint32(8)) // IFD0 offset

	// IFD0: one entry pointing at the Exif sub-IFD at offset 26.
	write(uint16(1))
	write(uint16(0x8769)) // Exif IFD pointer
	write(uint16(4))      // LONG
	write(uint32(1))
	write(uint32(26))
	write(uint32(0))

	// Exif sub-IFD: DateTimeOriginal, ASCII, value stored at offset 44.
	write(uint16(1))
	write(uint16(0x9003))
	write(uint16(2)) // ASCII
	write(uint32(len(datetime) + 1))
	write(uint32(44))
	write(uint32(0))

	buf.WriteString(datetime)
	buf.WriteByte(0)
	return buf.Bytes()
}

func TestExtractCaptureMetadata(t *testing.T) {
	uploadedAt := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Reads DateTimeOriginal", func(t *testing.T) {
		createdAt, resolution := extractCaptureMetadata(exifTIFF(t, "2024:07:20 15:12:48"), uploadedAt)
		assert.Equal(t, time.Date(2024, time.July, 20, 15, 12, 48, 0, time.UTC), createdAt)
		assert.Empty(t, resolution)
	})

	t.Run("Unparsable Date Falls Back", func(t *testing.T) {
		createdAt, _ := extractCaptureMetadata(exifTIFF(t, "not a timestamp!"), uploadedAt)
		assert.Equal(t, uploadedAt, createdAt)
	})

	t.Run("No Exif Block Falls Back", func(t *testing.T) {
		createdAt, resolution := extractCaptureMetadata([]byte("\x89PNG\r\n\x1a\nnot exif"), uploadedAt)
		assert.Equal(t, uploadedAt, createdAt)
		assert.Empty(t, resolution)

		createdAt, resolution = extractCaptureMetadata(nil, uploadedAt)
		assert.Equal(t, uploadedAt, createdAt)
		assert.Empty(t, resolution)
	})
}

func TestExifDateLayouts(t *testing.T) {
	// Both accepted layouts parse to the same instant in UTC.
	for _, raw := range []string{"2020:01:03 08:30:00", "2020-01-03 08:30:00"} {
		var parsed time.Time
		var err error
		for _, layout := range exifDateLayouts {
			if parsed, err = time.ParseInLocation(layout, raw, time.UTC); err == nil {
				break
			}
		}
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2020, time.January, 3, 8, 30, 0, 0, time.UTC), parsed)
	}
}
