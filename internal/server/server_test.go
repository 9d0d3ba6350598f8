package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggreflect"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, url string, image []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newTestServer() *Server {
	return New(Config{
		Defaults:      ggreflect.DefaultRenderOptions(),
		PreviewWidth:  60,
		PreviewHeight: 40,
	})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCreateReflection(t *testing.T) {
	rec := httptest.NewRecorder()
	req := upload(t, "/api/v1/reflections", pngBytes(t, 120, 80), map[string]string{
		"orientation": "left",
		"opacity":     "90",
	})
	newTestServer().Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp reflectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "image", resp.Type)
	assert.Equal(t, 120, resp.Width)
	assert.Equal(t, 80, resp.Height)
	assert.True(t, strings.HasPrefix(resp.DataURL, "data:image/png;base64,"))
}

func TestCreateReflectionPNG(t *testing.T) {
	rec := httptest.NewRecorder()
	req := upload(t, "/api/v1/reflections?format=png", pngBytes(t, 30, 50), nil)
	newTestServer().Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	cfg, err := png.DecodeConfig(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestCreateReflectionErrors(t *testing.T) {
	tests := []struct {
		name   string
		image  []byte
		fields map[string]string
		status int
		code   ErrorCode
	}{
		{"missing image", nil, nil, http.StatusBadRequest, errCodeBadRequest},
		{"bad opacity", []byte("x"), map[string]string{"opacity": "120"}, http.StatusBadRequest, errCodeBadRequest},
		{"bad orientation", []byte("x"), map[string]string{"orientation": "up"}, http.StatusBadRequest, errCodeBadRequest},
		{"not an image", []byte("just some words"), nil, http.StatusUnprocessableEntity, errCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestServer().Handler().ServeHTTP(rec, upload(t, "/api/v1/reflections", tt.image, tt.fields))

			assert.Equal(t, tt.status, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestCreateReflectionTooLarge(t *testing.T) {
	srv := New(Config{MaxUploadBytes: 256})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, upload(t, "/api/v1/reflections", bytes.Repeat([]byte{0x89}, 4096), nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateReflectionExtremeAspect(t *testing.T) {
	rec := httptest.NewRecorder()
	fields := map[string]string{"preview_width": "4096", "preview_height": "1"}
	newTestServer().Handler().ServeHTTP(rec, upload(t, "/api/v1/reflections", pngBytes(t, 20, 20), fields))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errCodeTooLarge, resp.Error.Code)
}

func TestRequestOptions(t *testing.T) {
	opacity, offset := 80, 20
	defaults := ggreflect.RenderOptions{Opacity: 10, Offset: 90, Orientation: ggreflect.Below}

	got, err := reflectionRequest{Orientation: "right"}.options(defaults)
	require.NoError(t, err)
	assert.Equal(t, ggreflect.RenderOptions{Opacity: 50, Offset: 50, Orientation: ggreflect.Right}, got)

	got, err = reflectionRequest{Opacity: &opacity, Offset: &offset}.options(defaults)
	require.NoError(t, err)
	assert.Equal(t, ggreflect.RenderOptions{Opacity: 80, Offset: 20, Orientation: ggreflect.Below}, got)
}
