package transform

import (
	"context"
	"fmt"
	"image"
	"time"

	"imgproc-server-go/internal/platform/errors"
	"imgproc-server-go/internal/platform/logging"
	"imgproc-server-go/internal/platform/observability"
)

// Params tunes the operations; zero values fall back to the original
// service's constants.
type Params struct {
	BlurRadius    int
	DenoisePasses int
	DenoiseWindow int
	JPEGQuality   int
}

func (p Params) withDefaults() Params {
	if p.BlurRadius <= 0 {
		p.BlurRadius = 5
	}
	if p.DenoisePasses <= 0 {
		p.DenoisePasses = 3
	}
	if p.DenoiseWindow <= 0 {
		p.DenoiseWindow = 3
	}
	if p.JPEGQuality <= 0 {
		p.JPEGQuality = 85
	}
	return p
}

// Engine applies transformations to decoded pixel buffers. All operations
// are pure: identical input yields identical output, and nothing is shared
// between calls, so a single Engine serves concurrent requests.
type Engine struct {
	params Params
	logger *logging.Logger
}

// NewEngine constructs a transform engine.
func NewEngine(params Params, logger *logging.Logger) (*Engine, error) {
	if logger == nil {
		if logging.DefaultLogger == nil {
			return nil, errors.New(errors.KindConfig, "transform:new", "logger is required")
		}
		logger = logging.DefaultLogger
	}
	return &Engine{
		params: params.withDefaults(),
		logger: logger,
	}, nil
}

// Apply dispatches a single operation over an RGBA buffer. The switch is
// exhaustive over the closed operation set; Parse guards the entry points,
// so an unknown value reaching here is a programming error.
func (e *Engine) Apply(ctx context.Context, op Operation, src *image.RGBA) (*image.RGBA, error) {
	_, spanEnd := observability.StartSpan(ctx, "transform", string(op))

	start := time.Now()
	var out *image.RGBA

	switch op {
	case OpBlur:
		out = blur(src, e.params.BlurRadius)
	case OpSharpen:
		out = sharpen(src)
	case OpEdgeDetect:
		out = edgeDetect(src)
	case OpGrayscale:
		out = grayscale(src)
	case OpEnhance:
		out = enhance(src)
	case OpRotate:
		out = rotateTransform(src)
	case OpNoiseReduction:
		out = denoise(src, e.params.DenoisePasses, e.params.DenoiseWindow)
	default:
		err := errors.New(errors.KindUnsupportedOp, "transform:apply",
			fmt.Sprintf("unsupported operation: %q", op))
		spanEnd(err)
		return nil, err
	}

	spanEnd(nil)
	e.logger.DebugTag("TIMING", "%s took %s (%dx%d)",
		op, time.Since(start), src.Bounds().Dx(), src.Bounds().Dy())

	return out, nil
}

// Process is the full pipeline for a request: decode, apply, re-encode.
func (e *Engine) Process(ctx context.Context, raw []byte, op Operation) ([]byte, error) {
	src, format, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	e.logger.DebugTag("TRANSFORM", "decoded %s image %dx%d for %s",
		format, src.Bounds().Dx(), src.Bounds().Dy(), op)

	out, err := e.Apply(ctx, op, src)
	if err != nil {
		return nil, err
	}

	return EncodeJPEG(out, e.params.JPEGQuality)
}
