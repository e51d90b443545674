package image

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"imgproc-server-go/internal/platform/errors"
	"imgproc-server-go/internal/platform/logging"
)

// Validator performs layered checks against incoming image payloads before
// the full pixel decode happens.
type Validator struct {
	limits Limits
	logger *logging.Logger
}

// NewValidator constructs a new validator instance.
func NewValidator(limits Limits, logger *logging.Logger) *Validator {
	return &Validator{
		limits: limits,
		logger: logger,
	}
}

var imageSignatures = map[string][]byte{
	"jpeg": {0xFF, 0xD8},
	"jpg":  {0xFF, 0xD8},
	"png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"gif":  {0x47, 0x49, 0x46, 0x38},
	"webp": {0x52, 0x49, 0x46, 0x46},
	"bmp":  {0x42, 0x4D},
}

// ValidateBytes validates raw payload bytes against the configured limits.
// The returned result's Error, when set, is a structured platform error
// carrying the client taxonomy kind.
func (v *Validator) ValidateBytes(raw []byte, declaredFormat string) ValidationResult {
	result := ValidationResult{IsValid: false}

	if len(raw) == 0 {
		result.Error = errors.New(errors.KindInvalidInput, "image:validate", "empty image payload")
		return result
	}

	if v.limits.MaxFileSize > 0 && int64(len(raw)) > v.limits.MaxFileSize {
		result.Error = errors.New(errors.KindPayloadTooLarge, "image:validate",
			fmt.Sprintf("file size exceeds limit: %d bytes (max %d bytes)",
				len(raw), v.limits.MaxFileSize))
		v.logger.WarnTag("IMAGE", "oversized payload rejected: size=%d max_size=%d format=%s",
			len(raw), v.limits.MaxFileSize, declaredFormat)
		return result
	}

	if declaredFormat != "" && !v.isFormatAllowed(declaredFormat) {
		result.Error = errors.New(errors.KindDecode, "image:validate",
			fmt.Sprintf("unsupported image format: %s", declaredFormat))
		return result
	}

	decodeResult := v.validateHeader(raw)
	if !decodeResult.IsValid {
		if declaredFormat != "" && !v.matchesSignature(raw, declaredFormat) {
			actualHeader := fmt.Sprintf("%x", raw[:min(len(raw), 16)])
			v.logger.WarnTag("IMAGE", "file signature mismatch: declared_format=%s actual_header=%s",
				declaredFormat, actualHeader)
		}
		return decodeResult
	}

	result = decodeResult
	result.IsValid = true
	result.FileSize = int64(len(raw))
	return result
}

func (v *Validator) isFormatAllowed(format string) bool {
	if len(v.limits.AllowedFormats) == 0 {
		return true
	}

	format = strings.ToLower(format)
	for _, allowed := range v.limits.AllowedFormats {
		if strings.ToLower(allowed) == format {
			return true
		}
	}
	return false
}

func (v *Validator) matchesSignature(raw []byte, format string) bool {
	signature, ok := imageSignatures[strings.ToLower(format)]
	if !ok || len(signature) == 0 {
		return true
	}
	if len(raw) < len(signature) {
		return false
	}
	return bytes.Equal(signature, raw[:len(signature)])
}

// validateHeader decodes only the image header, so dimension limits are
// enforced before the full pixel buffer is allocated.
func (v *Validator) validateHeader(raw []byte) ValidationResult {
	result := ValidationResult{}
	reader := bytes.NewReader(raw)

	cfg, actualFormat, err := image.DecodeConfig(reader)
	if err != nil {
		result.Error = errors.Wrap(errors.KindDecode, "image:validate", "payload is not a decodable image", err)
		return result
	}
	result.Format = actualFormat

	if (v.limits.MaxWidth > 0 && cfg.Width > v.limits.MaxWidth) ||
		(v.limits.MaxHeight > 0 && cfg.Height > v.limits.MaxHeight) {
		result.Error = errors.New(errors.KindPayloadTooLarge, "image:validate",
			fmt.Sprintf("dimensions exceed limit: %dx%d (max %dx%d)",
				cfg.Width, cfg.Height, v.limits.MaxWidth, v.limits.MaxHeight))
		return result
	}

	totalPixels := int64(cfg.Width) * int64(cfg.Height)
	if v.limits.MaxPixels > 0 && totalPixels > v.limits.MaxPixels {
		result.Error = errors.New(errors.KindPayloadTooLarge, "image:validate",
			fmt.Sprintf("pixel count exceeds limit: %d (max %d)", totalPixels, v.limits.MaxPixels))
		return result
	}

	result.IsValid = true
	result.Width = cfg.Width
	result.Height = cfg.Height
	result.FileSize = int64(len(raw))

	v.logger.DebugTag("IMAGE", "validation success: format=%s width=%d height=%d size=%d",
		result.Format, result.Width, result.Height, result.FileSize)

	return result
}
