package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gogpu/ggreflect"
)

// Logger returns a middleware logging each request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		ggreflect.Logger().Info("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// Recovery returns a middleware turning panics into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ggreflect.Logger().Error("panic recovered",
					"error", fmt.Sprint(err),
					"path", c.Request.URL.Path,
				)
				respondWithError(c, http.StatusInternalServerError, errCodeInternal, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// limitBody caps the request body at n bytes.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			respondWithError(c, http.StatusRequestEntityTooLarge, errCodeTooLarge, "image too large")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
