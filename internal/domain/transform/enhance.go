package transform

import "image"

// Enhancement factors matching the original service: saturation 1.5,
// contrast 1.3, sharpness 1.2, applied in that order.
const (
	enhanceColorFactor     = 1.5
	enhanceContrastFactor  = 1.3
	enhanceSharpnessFactor = 1.2
)

// enhance boosts color saturation, contrast and sharpness. Each step blends
// the image against a degenerate reference (its grayscale, its mean
// luminance, a smoothed copy) by the corresponding factor; factor 1.0 is the
// identity, factors above 1.0 amplify.
func enhance(src *image.RGBA) *image.RGBA {
	out := enhanceColor(src, enhanceColorFactor)
	out = enhanceContrast(out, enhanceContrastFactor)
	return enhanceSharpness(out, enhanceSharpnessFactor)
}

// blendChannel interpolates between a reference value and the original.
func blendChannel(ref, orig, factor float64) uint8 {
	return clampU8(ref + factor*(orig-ref))
}

// enhanceColor interpolates each pixel between its grayscale value and the
// original color.
func enhanceColor(src *image.RGBA, factor float64) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			l := luma(src.Pix, i)
			o := dst.PixOffset(x, y)
			dst.Pix[o] = blendChannel(l, float64(src.Pix[i]), factor)
			dst.Pix[o+1] = blendChannel(l, float64(src.Pix[i+1]), factor)
			dst.Pix[o+2] = blendChannel(l, float64(src.Pix[i+2]), factor)
			dst.Pix[o+3] = src.Pix[i+3]
		}
	}

	return dst
}

// enhanceContrast interpolates each pixel against the image-wide mean
// luminance.
func enhanceContrast(src *image.RGBA, factor float64) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum += luma(src.Pix, src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	mean := sum / float64(w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			o := dst.PixOffset(x, y)
			dst.Pix[o] = blendChannel(mean, float64(src.Pix[i]), factor)
			dst.Pix[o+1] = blendChannel(mean, float64(src.Pix[i+1]), factor)
			dst.Pix[o+2] = blendChannel(mean, float64(src.Pix[i+2]), factor)
			dst.Pix[o+3] = src.Pix[i+3]
		}
	}

	return dst
}

// enhanceSharpness interpolates between a smoothed copy and the original.
func enhanceSharpness(src *image.RGBA, factor float64) *image.RGBA {
	// 3x3 smoothing kernel, center-weighted, sum 13.
	smoothKernel := [9]float64{
		1, 1, 1,
		1, 5, 1,
		1, 1, 1,
	}
	smoothed := convolve3x3(src, smoothKernel, 13, 0)

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			s := smoothed.PixOffset(x, y)
			o := dst.PixOffset(x, y)
			dst.Pix[o] = blendChannel(float64(smoothed.Pix[s]), float64(src.Pix[i]), factor)
			dst.Pix[o+1] = blendChannel(float64(smoothed.Pix[s+1]), float64(src.Pix[i+1]), factor)
			dst.Pix[o+2] = blendChannel(float64(smoothed.Pix[s+2]), float64(src.Pix[i+2]), factor)
			dst.Pix[o+3] = src.Pix[i+3]
		}
	}

	return dst
}
