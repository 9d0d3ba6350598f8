package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gogpu/ggreflect"
)

type handler struct {
	config Config
}

// reflectionRequest holds the form fields of a reflection upload. Unset
// fields keep their defaults; a given orientation resets opacity and
// offset to 50 before explicit values apply.
type reflectionRequest struct {
	Opacity       *int   `form:"opacity" binding:"omitempty,min=0,max=100"`
	Offset        *int   `form:"offset" binding:"omitempty,min=0,max=100"`
	Orientation   string `form:"orientation"`
	PreviewWidth  int    `form:"preview_width" binding:"omitempty,min=1,max=4096"`
	PreviewHeight int    `form:"preview_height" binding:"omitempty,min=1,max=4096"`
}

type reflectionResponse struct {
	Type    string `json:"type"`
	DataURL string `json:"dataUrl"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": ggreflect.Version})
}

// createReflection handles POST /api/v1/reflections. The image is sent
// as the multipart field "image". With ?format=png the PNG is returned
// directly instead of a JSON payload.
func (h *handler) createReflection(c *gin.Context) {
	var req reflectionRequest
	if err := c.ShouldBind(&req); err != nil {
		if isTooLarge(err) {
			respondWithError(c, http.StatusRequestEntityTooLarge, errCodeTooLarge, "image too large")
			return
		}
		respondBadRequest(c, "invalid parameters", err.Error())
		return
	}
	opts, err := req.options(h.config.Defaults)
	if err != nil {
		respondBadRequest(c, "invalid orientation", err.Error())
		return
	}

	data, err := readUpload(c)
	if err != nil {
		if isTooLarge(err) {
			respondWithError(c, http.StatusRequestEntityTooLarge, errCodeTooLarge, "image too large")
			return
		}
		respondBadRequest(c, "missing image", err.Error())
		return
	}

	src, err := ggreflect.DecodeBytes(c.Request.Context(), data)
	if err != nil {
		respondWithError(c, http.StatusUnprocessableEntity, errCodeUnsupported, "cannot decode image", err.Error())
		return
	}

	pw, ph := h.config.PreviewWidth, h.config.PreviewHeight
	if req.PreviewWidth > 0 && req.PreviewHeight > 0 {
		pw, ph = req.PreviewWidth, req.PreviewHeight
	}

	p := ggreflect.NewPreview(
		ggreflect.WithRenderOptions(opts),
		ggreflect.WithPreviewInterpolation(h.config.Interpolation),
		ggreflect.WithOutput(ggreflect.NewOutput(h.config.Interpolation)),
	)
	if err := p.Resize(pw, ph); err != nil {
		respondWithError(c, http.StatusInternalServerError, errCodeInternal, "render failed", err.Error())
		return
	}
	if err := p.SetSource(src); err != nil {
		respondWithError(c, http.StatusInternalServerError, errCodeInternal, "render failed", err.Error())
		return
	}
	payload, err := p.Commit()
	if errors.Is(err, ggreflect.ErrExportTooLarge) {
		respondWithError(c, http.StatusUnprocessableEntity, errCodeTooLarge, "preview aspect too extreme for this image", err.Error())
		return
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, errCodeInternal, "export failed", err.Error())
		return
	}

	if c.Query("format") == "png" {
		c.Data(http.StatusOK, "image/png", payload.PNG)
		return
	}
	c.JSON(http.StatusOK, reflectionResponse{
		Type:    payload.Type,
		DataURL: payload.DataURL,
		Width:   payload.Width,
		Height:  payload.Height,
	})
}

func (r reflectionRequest) options(defaults ggreflect.RenderOptions) (ggreflect.RenderOptions, error) {
	opts := defaults.Normalize()
	if r.Orientation != "" {
		o, err := ggreflect.ParseOrientation(r.Orientation)
		if err != nil {
			return opts, err
		}
		opts = opts.WithOrientation(o)
	}
	if r.Opacity != nil {
		opts = opts.WithOpacity(*r.Opacity)
	}
	if r.Offset != nil {
		opts = opts.WithOffset(*r.Offset)
	}
	return opts, nil
}

func readUpload(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
