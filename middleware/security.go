package middleware

import (
	"net/http"

	"notetaker/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimiter rejects request bodies larger than maxSize. Declared
// lengths are checked up front; chunked bodies are capped by MaxBytesReader
// as handlers read them.
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.JSON(http.StatusRequestEntityTooLarge, &utils.Response{
				Status: http.StatusRequestEntityTooLarge,
				Error:  "Request body too large",
			})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
