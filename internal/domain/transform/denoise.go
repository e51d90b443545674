package transform

import "image"

// denoise runs repeated box-filter smoothing passes over the full pixel
// buffer in float32, with edge-replicated sampling. This is deliberately the
// CPU-heavy operation: the per-pixel window walk is kept naive so the hot
// loop shows up clearly under a profiler.
func denoise(src *image.RGBA, passes, window int) *image.RGBA {
	if passes < 1 {
		passes = 1
	}
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	radius := window / 2

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	// Work on float32 planes so repeated averaging does not accumulate
	// quantisation error between passes.
	current := make([]float32, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			o := (y*w + x) * 3
			current[o] = float32(src.Pix[i])
			current[o+1] = float32(src.Pix[i+1])
			current[o+2] = float32(src.Pix[i+2])
		}
	}

	next := make([]float32, w*h*3)
	area := float32(window * window)

	for pass := 0; pass < passes; pass++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var r, g, b float32
				for ky := -radius; ky <= radius; ky++ {
					sy := clampCoord(y+ky, h)
					for kx := -radius; kx <= radius; kx++ {
						sx := clampCoord(x+kx, w)
						i := (sy*w + sx) * 3
						r += current[i]
						g += current[i+1]
						b += current[i+2]
					}
				}
				o := (y*w + x) * 3
				next[o] = r / area
				next[o+1] = g / area
				next[o+2] = b / area
			}
		}
		current, next = next, current
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			o := dst.PixOffset(x, y)
			dst.Pix[o] = clampU8(float64(current[i]))
			dst.Pix[o+1] = clampU8(float64(current[i+1]))
			dst.Pix[o+2] = clampU8(float64(current[i+2]))
			dst.Pix[o+3] = src.Pix[src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)+3]
		}
	}

	return dst
}
