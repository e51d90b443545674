package transform

import (
	"image"
	"math"
)

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampCoord(v, max int) int {
	if v < 0 {
		return 0
	}
	if v >= max {
		return max - 1
	}
	return v
}

// convolve3x3 applies a 3x3 kernel over the RGB channels with edge-clamped
// sampling. The result of each tap sum is divided by scale and shifted by
// offset. Alpha is copied through unchanged.
func convolve3x3(src *image.RGBA, kernel [9]float64, scale, offset float64) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if scale == 0 {
		scale = 1
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			k := 0
			for ky := -1; ky <= 1; ky++ {
				sy := clampCoord(y+ky, h)
				for kx := -1; kx <= 1; kx++ {
					sx := clampCoord(x+kx, w)
					i := src.PixOffset(bounds.Min.X+sx, bounds.Min.Y+sy)
					weight := kernel[k]
					r += float64(src.Pix[i]) * weight
					g += float64(src.Pix[i+1]) * weight
					b += float64(src.Pix[i+2]) * weight
					k++
				}
			}

			o := dst.PixOffset(x, y)
			dst.Pix[o] = clampU8(r/scale + offset)
			dst.Pix[o+1] = clampU8(g/scale + offset)
			dst.Pix[o+2] = clampU8(b/scale + offset)
			dst.Pix[o+3] = src.Pix[src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)+3]
		}
	}

	return dst
}

// gaussianKernel builds a normalised 1D Gaussian kernel for the given radius.
func gaussianKernel(radius int) []float64 {
	if radius < 1 {
		radius = 1
	}
	sigma := float64(radius)
	size := 2*radius + 1
	kernel := make([]float64, size)

	var sum float64
	for i := 0; i < size; i++ {
		d := float64(i - radius)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// blur applies a separable Gaussian blur with the given radius.
func blur(src *image.RGBA, radius int) *image.RGBA {
	kernel := gaussianKernel(radius)
	horizontal := convolve1D(src, kernel, true)
	return convolve1D(horizontal, kernel, false)
}

func convolve1D(src *image.RGBA, kernel []float64, horizontal bool) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	radius := len(kernel) / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float64
			for k, weight := range kernel {
				sx, sy := x, y
				if horizontal {
					sx = clampCoord(x+k-radius, w)
				} else {
					sy = clampCoord(y+k-radius, h)
				}
				i := src.PixOffset(bounds.Min.X+sx, bounds.Min.Y+sy)
				r += float64(src.Pix[i]) * weight
				g += float64(src.Pix[i+1]) * weight
				b += float64(src.Pix[i+2]) * weight
				a += float64(src.Pix[i+3]) * weight
			}

			o := dst.PixOffset(x, y)
			dst.Pix[o] = clampU8(r)
			dst.Pix[o+1] = clampU8(g)
			dst.Pix[o+2] = clampU8(b)
			dst.Pix[o+3] = clampU8(a)
		}
	}

	return dst
}

// sharpen applies the classic 3x3 sharpening kernel (center-weighted with
// negative neighbours, sum 16).
func sharpen(src *image.RGBA) *image.RGBA {
	kernel := [9]float64{
		-2, -2, -2,
		-2, 32, -2,
		-2, -2, -2,
	}
	return convolve3x3(src, kernel, 16, 0)
}

// edgeDetect produces a Laplacian-style edge map.
func edgeDetect(src *image.RGBA) *image.RGBA {
	kernel := [9]float64{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	}
	return convolve3x3(src, kernel, 1, 0)
}

// luma computes the ITU-R 601 luminance of a pixel at offset i.
func luma(pix []uint8, i int) float64 {
	return 0.299*float64(pix[i]) + 0.587*float64(pix[i+1]) + 0.114*float64(pix[i+2])
}

// grayscale converts to luminance, keeping the RGBA representation so the
// shared JPEG encode path applies.
func grayscale(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			l := clampU8(luma(src.Pix, i))
			o := dst.PixOffset(x, y)
			dst.Pix[o] = l
			dst.Pix[o+1] = l
			dst.Pix[o+2] = l
			dst.Pix[o+3] = src.Pix[i+3]
		}
	}

	return dst
}
