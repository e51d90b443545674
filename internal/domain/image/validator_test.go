package image

import (
	"bytes"
	goimage "image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgproc-server-go/internal/platform/errors"
	platformtesting "imgproc-server-go/internal/platform/testing"
)

func testLimits() Limits {
	return Limits{
		MaxFileSize:    1024 * 1024,
		MaxWidth:       1024,
		MaxHeight:      1024,
		MaxPixels:      1024 * 1024,
		AllowedFormats: []string{"jpeg", "jpg", "png", "gif", "webp", "bmp"},
	}
}

func encodePNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := goimage.NewRGBA(goimage.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := goimage.NewRGBA(goimage.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	return buf.Bytes()
}

func TestValidator_ValidImage(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	v := NewValidator(testLimits(), logger)

	raw := encodePNG(t, 64, 48, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	result := v.ValidateBytes(raw, "png")

	require.NoError(t, result.Error)
	assert.True(t, result.IsValid)
	assert.Equal(t, "png", result.Format)
	assert.Equal(t, 64, result.Width)
	assert.Equal(t, 48, result.Height)
	assert.Equal(t, int64(len(raw)), result.FileSize)
}

func TestValidator_EmptyPayload(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	v := NewValidator(testLimits(), logger)

	result := v.ValidateBytes(nil, "")

	assert.False(t, result.IsValid)
	assert.True(t, errors.IsKind(result.Error, errors.KindInvalidInput))
}

func TestValidator_NonImageBytes(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	v := NewValidator(testLimits(), logger)

	result := v.ValidateBytes([]byte("hello text"), "jpeg")

	assert.False(t, result.IsValid)
	assert.True(t, errors.IsKind(result.Error, errors.KindDecode))
}

func TestValidator_OversizedPayload(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	limits := testLimits()
	limits.MaxFileSize = 10
	v := NewValidator(limits, logger)

	result := v.ValidateBytes(make([]byte, 11), "png")

	assert.False(t, result.IsValid)
	assert.True(t, errors.IsKind(result.Error, errors.KindPayloadTooLarge))
}

func TestValidator_DimensionsOverLimit(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	limits := testLimits()
	limits.MaxWidth = 32
	limits.MaxHeight = 32
	v := NewValidator(limits, logger)

	raw := encodePNG(t, 64, 64, color.White)
	result := v.ValidateBytes(raw, "png")

	assert.False(t, result.IsValid)
	assert.True(t, errors.IsKind(result.Error, errors.KindPayloadTooLarge))
}

func TestValidator_DisallowedFormat(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	limits := testLimits()
	limits.AllowedFormats = []string{"png"}
	v := NewValidator(limits, logger)

	raw := encodeJPEG(t, 8, 8, color.White)
	result := v.ValidateBytes(raw, "jpeg")

	assert.False(t, result.IsValid)
	assert.True(t, errors.IsKind(result.Error, errors.KindDecode))
}

func TestValidator_JPEGDetected(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	v := NewValidator(testLimits(), logger)

	raw := encodeJPEG(t, 16, 16, color.Black)
	result := v.ValidateBytes(raw, "")

	require.NoError(t, result.Error)
	assert.Equal(t, "jpeg", result.Format)
}
