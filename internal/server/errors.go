package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCode is a machine-readable error code.
type ErrorCode string

const (
	errCodeBadRequest  ErrorCode = "bad_request"
	errCodeTooLarge    ErrorCode = "too_large"
	errCodeUnsupported ErrorCode = "unsupported_image"
	errCodeInternal    ErrorCode = "internal_error"
)

type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func respondWithError(c *gin.Context, status int, code ErrorCode, message string, details ...string) {
	resp := errorResponse{Error: errorDetail{Code: code, Message: message}}
	if len(details) > 0 {
		resp.Error.Details = details[0]
	}
	c.JSON(status, resp)
}

func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}
