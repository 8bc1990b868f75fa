package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"resume-api/internal/core/auth"
	"resume-api/internal/domain"
	resp "resume-api/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

// AuthJWT 只接受 access token；requireRole 非空时额外校验角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abort(c, resp.CodeUnauthorized, "unauthorized")
			return
		}
		claims, err := j.Verify(strings.TrimPrefix(ah, "Bearer "), auth.TypeAccess)
		if err != nil {
			abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}

// Actor 取出 AuthJWT 写入的身份
func Actor(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(KeyUserID)
	if !ok {
		return domain.Actor{}, false
	}
	uid, ok := v.(uint)
	if !ok || uid == 0 {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: uid, Role: c.GetString(KeyRole)}, true
}
