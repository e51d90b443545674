package process

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainimage "imgproc-server-go/internal/domain/image"
	"imgproc-server-go/internal/domain/transform"
	"imgproc-server-go/internal/platform/config"
	platformtesting "imgproc-server-go/internal/platform/testing"
	httptransport "imgproc-server-go/internal/transport/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine *gin.Engine
	cfg    *config.Config
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	cfg := platformtesting.SetupTestConfig(t)
	cfg.Web.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	logger := platformtesting.SetupTestLogger(t)

	router, err := httptransport.Build(httptransport.Options{
		Config: cfg,
		Logger: logger,
	})
	require.NoError(t, err)

	pipeline, err := domainimage.NewPipeline(domainimage.Options{
		Limits: domainimage.Limits{
			MaxFileSize:    cfg.Processing.MaxFileSize,
			MaxWidth:       cfg.Processing.MaxWidth,
			MaxHeight:      cfg.Processing.MaxHeight,
			MaxPixels:      cfg.Processing.MaxPixels,
			AllowedFormats: cfg.Processing.AllowedFormats,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	eng, err := transform.NewEngine(transform.Params{
		BlurRadius:    cfg.Processing.BlurRadius,
		DenoisePasses: cfg.Processing.DenoisePasses,
		DenoiseWindow: cfg.Processing.DenoiseWindow,
		JPEGQuality:   cfg.Processing.JPEGQuality,
	}, logger)
	require.NoError(t, err)

	svc, err := NewService(cfg, logger, pipeline, eng)
	require.NoError(t, err)
	require.NoError(t, svc.Register(context.Background(), router))

	httptransport.NewHealthHandler(logger).RegisterRoutes(router)

	return &testServer{engine: router.Engine, cfg: cfg}
}

func solidJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 32, G: 160, B: 96, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	return buf.Bytes()
}

func multipartBody(t *testing.T, filename, operation string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	if operation != "" {
		require.NoError(t, writer.WriteField("operation", operation))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func doProcess(t *testing.T, ts *testServer, filename, operation string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, operation, payload)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp httptransport.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotEmpty(t, resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "error envelope must carry data")
	kind, _ := data["kind"].(string)
	return kind
}

func TestProcess_BlurSuccess(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := doProcess(t, ts, "photo.jpg", "blur", solidJPEG(t, 100, 100))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Processing-Time"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "processed_blur.jpg")

	img, format, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestProcess_EveryOperationSucceeds(t *testing.T) {
	ts := newTestServer(t, nil)
	payload := solidJPEG(t, 50, 40)

	for _, op := range transform.All() {
		op := op
		t.Run(string(op), func(t *testing.T) {
			rec := doProcess(t, ts, "photo.jpg", string(op), payload)
			require.Equal(t, http.StatusOK, rec.Code)

			_, _, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
			require.NoError(t, err)
		})
	}
}

func TestProcess_NoiseReductionKeepsDimensions(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := doProcess(t, ts, "photo.jpg", "noise_reduction", solidJPEG(t, 100, 100))

	require.Equal(t, http.StatusOK, rec.Code)
	img, _, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestProcess_MissingImageField(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := doProcess(t, ts, "", "blur", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", errorKind(t, rec))
}

func TestProcess_EmptyPayload(t *testing.T) {
	ts := newTestServer(t, nil)

	// Empty payloads read as invalid input whether or not the operation
	// name is real.
	for _, op := range []string{"blur", "definitely_not_real"} {
		rec := doProcess(t, ts, "empty.jpg", op, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "operation %s", op)
		assert.Equal(t, "invalid_input", errorKind(t, rec), "operation %s", op)
	}
}

func TestProcess_UnsupportedOperation(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := doProcess(t, ts, "photo.jpg", "sepia", solidJPEG(t, 10, 10))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unsupported_operation", errorKind(t, rec))
}

func TestProcess_NonImagePayload(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := doProcess(t, ts, "notes.jpg", "sharpen", []byte("0123456789"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "decode", errorKind(t, rec))
}

func TestProcess_PayloadTooLarge(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Processing.MaxFileSize = 64
	})
	rec := doProcess(t, ts, "big.jpg", "blur", make([]byte, 4096))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", errorKind(t, rec))
}

func TestProcess_MissingOperationDefaultsToBlur(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := doProcess(t, ts, "photo.jpg", "", solidJPEG(t, 20, 20))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "processed_blur.jpg")
}

func TestProcess_StatusEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/process", nil)
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httptransport.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	ops, ok := data["operations"].([]interface{})
	require.True(t, ok)
	assert.Len(t, ops, len(transform.All()))
}

func TestHealth_IndependentOfFailedRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	// A bad upload must not leak into liveness.
	rec := doProcess(t, ts, "bad.jpg", "sharpen", []byte("not an image"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	healthRec := httptest.NewRecorder()
	ts.engine.ServeHTTP(healthRec, req)

	require.Equal(t, http.StatusOK, healthRec.Code)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(healthRec.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload["status"])
	assert.Equal(t, "image-processor", payload["service"])
}
