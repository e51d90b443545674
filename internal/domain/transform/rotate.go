package transform

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// rotateTransform mirrors the original service's memory-intensive variant:
// rotate +45 degrees with an expanded canvas, rotate back -45 degrees with a
// second expansion, then flip horizontally. The double expansion grows the
// canvas substantially, which is the point.
func rotateTransform(src *image.RGBA) *image.RGBA {
	out := rotateExpand(src, 45)
	out = rotateExpand(out, -45)
	return flipHorizontal(out)
}

// rotateExpand rotates counter-clockwise by the given angle in degrees,
// growing the canvas so no pixels are clipped. Uncovered regions stay black.
func rotateExpand(src *image.RGBA, degrees float64) *image.RGBA {
	bounds := src.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	theta := degrees * math.Pi / 180
	sin, cos := math.Sincos(theta)

	newW := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin)))
	newH := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos)))
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))

	cx, cy := w/2, h/2
	ncx, ncy := float64(newW)/2, float64(newH)/2

	// Affine map from source to destination: rotate about the source center,
	// then recenter on the expanded canvas.
	m := f64.Aff3{
		cos, -sin, ncx - cos*cx + sin*cy,
		sin, cos, ncy - sin*cx - cos*cy,
	}

	xdraw.BiLinear.Transform(dst, m, src, bounds, xdraw.Src, nil)
	return dst
}

func flipHorizontal(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			o := dst.PixOffset(w-1-x, y)
			copy(dst.Pix[o:o+4], src.Pix[i:i+4])
		}
	}

	return dst
}
