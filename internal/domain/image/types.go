package image

import "sync/atomic"

// ValidationResult captures the outcome of payload validation.
type ValidationResult struct {
	IsValid  bool
	Format   string
	Width    int
	Height   int
	FileSize int64
	Error    error
}

// Limits bounds what the pipeline will accept before decoding.
type Limits struct {
	MaxFileSize    int64
	MaxWidth       int
	MaxHeight      int
	MaxPixels      int64
	AllowedFormats []string
}

// Metrics aggregates pipeline statistics for observability.
type Metrics struct {
	TotalProcessed    atomic.Int64
	FailedValidations atomic.Int64
	RejectedTooLarge  atomic.Int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	TotalProcessed    int64 `json:"total_processed"`
	FailedValidations int64 `json:"failed_validations"`
	RejectedTooLarge  int64 `json:"rejected_too_large"`
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		TotalProcessed:    m.TotalProcessed.Load(),
		FailedValidations: m.FailedValidations.Load(),
		RejectedTooLarge:  m.RejectedTooLarge.Load(),
	}
}
