// Package images normalizes uploaded pictures into fixed-size PNG blobs.
package images

import (
	"bytes"

	"github.com/disintegration/imaging"
)

// Size is the edge length of stored avatars and task images.
const Size = 350

// Normalize decodes an uploaded image, crops and scales it to Size×Size and
// re-encodes it as PNG. The input format may be PNG or JPEG.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	img = imaging.Fill(img, Size, Size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
