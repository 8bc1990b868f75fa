package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "resume-api/internal/transport/http/response"
)

// MaxBodyBytes 声明长度超限直接 413；分块上传由 MaxBytesReader 在读取时截断
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
