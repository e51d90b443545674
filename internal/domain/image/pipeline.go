package image

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"imgproc-server-go/internal/platform/errors"
	"imgproc-server-go/internal/platform/logging"
)

// Pipeline orchestrates bounded ingestion and validation of image payloads.
type Pipeline struct {
	validator *Validator
	logger    *logging.Logger
	limits    Limits
	metrics   Metrics
}

// Options configures the pipeline behaviour.
type Options struct {
	Limits Limits
	Logger *logging.Logger
}

// Input describes a streaming image payload.
type Input struct {
	Reader         io.Reader
	DeclaredFormat string
	Source         string
}

// Output contains the sanitised artefacts produced by the pipeline.
type Output struct {
	Bytes      []byte
	Format     string
	Validation ValidationResult
}

// NewPipeline constructs an ingestion pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Logger == nil {
		if logging.DefaultLogger == nil {
			return nil, fmt.Errorf("logger is required")
		}
		opts.Logger = logging.DefaultLogger
	}
	if opts.Limits.MaxFileSize <= 0 {
		opts.Limits.MaxFileSize = 10 * 1024 * 1024
	}

	return &Pipeline{
		validator: NewValidator(opts.Limits, opts.Logger),
		logger:    opts.Logger,
		limits:    opts.Limits,
	}, nil
}

// Metrics exposes the pipeline counters.
func (p *Pipeline) Metrics() *Metrics {
	return &p.metrics
}

// Process streams the input through the size bound and validation. The size
// limit is enforced while reading, so an oversized body is rejected without
// buffering more than limit+1 bytes and without any decode attempt.
func (p *Pipeline) Process(ctx context.Context, input Input) (*Output, error) {
	if input.Reader == nil {
		return nil, errors.New(errors.KindInvalidInput, "image:ingest", "image reader is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	limited := &io.LimitedReader{
		R: input.Reader,
		N: p.limits.MaxFileSize + 1,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 32*1024))
	if _, err := io.Copy(buf, limited); err != nil {
		return nil, errors.Wrap(errors.KindInvalidInput, "image:ingest", "failed to read image payload", err)
	}

	if limited.N <= 0 {
		p.metrics.RejectedTooLarge.Add(1)
		return nil, errors.New(errors.KindPayloadTooLarge, "image:ingest",
			fmt.Sprintf("image exceeds maximum size of %d bytes", p.limits.MaxFileSize))
	}

	raw := buf.Bytes()
	validation := p.validator.ValidateBytes(raw, input.DeclaredFormat)
	if !validation.IsValid {
		p.metrics.FailedValidations.Add(1)
		if validation.Error != nil {
			return nil, validation.Error
		}
		return nil, errors.New(errors.KindDecode, "image:ingest", "image validation failed")
	}

	p.metrics.TotalProcessed.Add(1)
	p.logger.DebugTag("IMAGE", "ingested payload: source=%s format=%s size=%d",
		input.Source, validation.Format, validation.FileSize)

	return &Output{
		Bytes:      raw,
		Format:     validation.Format,
		Validation: validation,
	}, nil
}
