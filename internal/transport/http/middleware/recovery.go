package middleware

import (
	"github.com/gin-gonic/gin"

	resp "resume-api/internal/transport/http/response"
)

// RecoveryJSON 是 ginzap 的 panic 响应；堆栈由 ginzap 记录
func RecoveryJSON(c *gin.Context, _ any) {
	abort(c, resp.CodeServerError, "internal error")
}
