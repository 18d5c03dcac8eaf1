package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// maxInflatedBody caps the size of a decompressed request body.
const maxInflatedBody = 8 << 20

// DecompressRequest transparently handles gzip encoded requests. The inflated body
// is limited to maxInflatedBody; reading past it fails with *http.MaxBytesError.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isGzip(c.GetHeader("Content-Encoding")) {
			c.Next()
			return
		}

		body := c.Request.Body
		reader, err := gzip.NewReader(body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		defer body.Close()
		defer reader.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, reader, maxInflatedBody)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}

func isGzip(encoding string) bool {
	for _, part := range strings.Split(encoding, ",") {
		if strings.EqualFold(strings.TrimSpace(part), "gzip") {
			return true
		}
	}
	return false
}
