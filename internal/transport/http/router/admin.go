package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-api/internal/core/auth"
	"resume-api/internal/domain"
	mdw "resume-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, lim Limits, reg *Registry) *gin.Engine {
	r := newEngine(l, lim.withDefaults())

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))

	reg.MountAllAdmin(admin)
	return r
}
