package imaging

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// MaxWidth is the largest width an attachment keeps; wider images are
	// scaled down preserving aspect ratio, narrower ones are never enlarged.
	MaxWidth = 1024

	// JPEGQuality is the fixed re-encode quality.
	JPEGQuality = 90

	// MaxFileSize caps a single upload at 10 MB.
	MaxFileSize = 10 << 20

	// MaxFiles caps attachments per request.
	MaxFiles = 5
)

// ErrNotImage marks uploads whose content type is not an image.
var ErrNotImage = fmt.Errorf("not an image upload")

// Processed is a re-encoded attachment ready for storage.
type Processed struct {
	Name string
	Data []byte
}

// AllowedContentType reports whether the multipart content type is accepted.
func AllowedContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Process decodes an uploaded image, scales it down to MaxWidth when wider,
// and re-encodes it as JPEG under a collision-resistant generated name. The
// output name always carries the .jpg extension regardless of the upload's
// original format.
func Process(data []byte) (*Processed, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return &Processed{
		Name: uuid.NewString() + ".jpg",
		Data: buf.Bytes(),
	}, nil
}

// Decode is a convenience wrapper for tests and callers that only need the
// pixel data.
func Decode(data []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data))
}
