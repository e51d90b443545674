package transform

import (
	"bytes"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"imgproc-server-go/internal/platform/errors"
)

// Decode turns compressed image bytes into an RGBA pixel buffer. Palette,
// grayscale and alpha-less source formats are normalised to RGBA so every
// filter operates on the same representation.
func Decode(raw []byte) (*image.RGBA, string, error) {
	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", errors.Wrap(errors.KindDecode, "transform:decode",
			"payload is not a decodable image", err)
	}

	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, format, nil
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	return rgba, format, nil
}

// EncodeJPEG re-encodes a pixel buffer to JPEG at the given quality. The
// alpha channel is dropped, matching the response content type image/jpeg.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.Wrap(errors.KindInternal, "transform:encode",
			"failed to encode result image", err)
	}
	return buf.Bytes(), nil
}
