package image

import (
	"bytes"
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgproc-server-go/internal/platform/errors"
	platformtesting "imgproc-server-go/internal/platform/testing"
)

func newTestPipeline(t *testing.T, limits Limits) *Pipeline {
	t.Helper()
	p, err := NewPipeline(Options{
		Limits: limits,
		Logger: platformtesting.SetupTestLogger(t),
	})
	require.NoError(t, err)
	return p
}

func TestPipeline_ProcessValidImage(t *testing.T) {
	p := newTestPipeline(t, testLimits())
	raw := encodePNG(t, 32, 32, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	out, err := p.Process(context.Background(), Input{
		Reader:         bytes.NewReader(raw),
		DeclaredFormat: "png",
		Source:         "test",
	})

	require.NoError(t, err)
	assert.Equal(t, raw, out.Bytes)
	assert.Equal(t, "png", out.Format)
	assert.Equal(t, 32, out.Validation.Width)
	assert.Equal(t, int64(1), p.Metrics().TotalProcessed.Load())
}

func TestPipeline_NilReader(t *testing.T) {
	p := newTestPipeline(t, testLimits())

	_, err := p.Process(context.Background(), Input{})

	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestPipeline_EmptyPayload(t *testing.T) {
	p := newTestPipeline(t, testLimits())

	_, err := p.Process(context.Background(), Input{Reader: bytes.NewReader(nil)})

	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
	assert.Equal(t, int64(1), p.Metrics().FailedValidations.Load())
}

func TestPipeline_OversizedStreamRejectedBeforeDecode(t *testing.T) {
	limits := testLimits()
	limits.MaxFileSize = 128
	p := newTestPipeline(t, limits)

	// Not an image at all: the size bound must trip before any decode.
	_, err := p.Process(context.Background(), Input{
		Reader: bytes.NewReader(make([]byte, 256)),
	})

	assert.True(t, errors.IsKind(err, errors.KindPayloadTooLarge))
	assert.Equal(t, int64(1), p.Metrics().RejectedTooLarge.Load())
}

func TestPipeline_NonImageBytes(t *testing.T) {
	p := newTestPipeline(t, testLimits())

	_, err := p.Process(context.Background(), Input{
		Reader: bytes.NewReader([]byte("definitely not an image")),
	})

	assert.True(t, errors.IsKind(err, errors.KindDecode))
}
