package middleware

import (
	"github.com/gin-gonic/gin"

	resp "resume-api/internal/transport/http/response"
)

// abort 以统一信封结束请求，HTTP 状态与 code 一致
func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, resp.Error(code, msg))
}
