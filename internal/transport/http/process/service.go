package process

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainimage "imgproc-server-go/internal/domain/image"
	"imgproc-server-go/internal/domain/transform"
	"imgproc-server-go/internal/platform/config"
	"imgproc-server-go/internal/platform/errors"
	"imgproc-server-go/internal/platform/logging"
	httptransport "imgproc-server-go/internal/transport/http"
)

// Service is the HTTP transport for the image transform surface.
type Service struct {
	logger   *logging.Logger
	config   *config.Config
	pipeline *domainimage.Pipeline
	engine   *transform.Engine
}

// NewService creates the transform service.
func NewService(
	cfg *config.Config,
	logger *logging.Logger,
	pipeline *domainimage.Pipeline,
	engine *transform.Engine,
) (*Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.KindConfig, "process.new", "config is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "process.new", "logger is required")
	}
	if pipeline == nil {
		return nil, errors.New(errors.KindConfig, "process.new", "image pipeline is required")
	}
	if engine == nil {
		return nil, errors.New(errors.KindConfig, "process.new", "transform engine is required")
	}

	return &Service{
		logger:   logger,
		config:   cfg,
		pipeline: pipeline,
		engine:   engine,
	}, nil
}

// Register mounts the processing routes on the API group and keeps the plain
// /process path alive for clients of the original wire contract.
func (s *Service) Register(ctx context.Context, router *httptransport.Router) error {
	for _, group := range []*gin.RouterGroup{&router.Engine.RouterGroup, router.API} {
		group.GET("/process", s.handleGet)
		group.POST("/process", s.handlePost)
		group.OPTIONS("/process", s.handleOptions)
	}

	s.logger.InfoTag("HTTP", "process routes registered")
	return nil
}

func (s *Service) handleOptions(c *gin.Context) {
	c.Status(http.StatusOK)
}

// handleGet reports the supported operations and pipeline counters.
func (s *Service) handleGet(c *gin.Context) {
	ops := transform.All()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}

	httptransport.RespondSuccess(c, http.StatusOK, StatusData{
		Operations: names,
		Metrics:    s.pipeline.Metrics().Snapshot(),
	}, "image transform service ready")
}

// handlePost runs the full upload -> validate -> transform -> respond flow.
func (s *Service) handlePost(c *gin.Context) {
	start := time.Now()

	req, err := s.parseMultipartRequest(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	result, err := s.engine.Process(c.Request.Context(), req.Payload.Bytes, req.Operation)
	if err != nil {
		s.respondError(c, err)
		return
	}

	elapsed := time.Since(start)
	s.logger.InfoTag("TRANSFORM", "%s done: in=%dB out=%dB took=%s",
		req.Operation, len(req.Payload.Bytes), len(result), elapsed)

	c.Header("X-Processing-Time", fmt.Sprintf("%.3fs", elapsed.Seconds()))
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=processed_%s.jpg", req.Operation))
	c.Data(http.StatusOK, "image/jpeg", result)
}

// parseMultipartRequest extracts and validates the form fields. All client
// taxonomy errors originate here or in the domain layers below it.
func (s *Service) parseMultipartRequest(c *gin.Context) (*Request, error) {
	maxSize := s.config.Processing.MaxFileSize
	if err := c.Request.ParseMultipartForm(maxSize); err != nil {
		return nil, errors.Wrap(errors.KindInvalidInput, "process:parse",
			"failed to parse multipart form", err)
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		return nil, errors.Wrap(errors.KindInvalidInput, "process:parse",
			"image file field is required", err)
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, errors.New(errors.KindInvalidInput, "process:parse", "no image selected")
	}
	if header.Size > maxSize {
		return nil, errors.New(errors.KindPayloadTooLarge, "process:parse",
			fmt.Sprintf("file size exceeds limit: %d bytes (max %d bytes)", header.Size, maxSize))
	}

	payload, err := s.pipeline.Process(c.Request.Context(), domainimage.Input{
		Reader:         file,
		DeclaredFormat: formatFromFilename(header.Filename),
		Source:         "upload",
	})
	if err != nil {
		return nil, err
	}

	// Payload problems take precedence over the operation name: an empty or
	// oversized upload reads as invalid input regardless of what operation
	// was asked for. An absent operation field falls back to blur, matching
	// the original contract; a present but unknown name is rejected.
	opName := c.Request.FormValue("operation")
	if opName == "" {
		opName = string(transform.OpBlur)
	}
	op, err := transform.Parse(opName)
	if err != nil {
		return nil, err
	}

	return &Request{
		Operation: op,
		Payload:   payload,
	}, nil
}

// respondError maps the error taxonomy onto HTTP statuses and a JSON
// envelope naming the kind.
func (s *Service) respondError(c *gin.Context, err error) {
	kind := errors.KindOf(err)

	var status int
	switch kind {
	case errors.KindInvalidInput, errors.KindUnsupportedOp:
		status = http.StatusBadRequest
	case errors.KindDecode:
		status = http.StatusUnprocessableEntity
	case errors.KindPayloadTooLarge:
		status = http.StatusRequestEntityTooLarge
	default:
		status = http.StatusInternalServerError
		kind = errors.KindInternal
	}

	if status >= http.StatusInternalServerError {
		s.logger.ErrorTag("TRANSFORM", "request failed: %v", err)
	} else {
		s.logger.WarnTag("TRANSFORM", "request rejected: %v", err)
	}

	httptransport.RespondError(c, status, err.Error(), ErrorData{Kind: string(kind)})
}

func formatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	case ".bmp":
		return "bmp"
	}
	return ""
}
