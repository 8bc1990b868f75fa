package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"resume-api/internal/core/auth"
	"resume-api/internal/core/config"
	"resume-api/internal/core/server"
	mdw "resume-api/internal/transport/http/middleware"
)

// Limits 公共中间件参数
type Limits struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int64
	MaxBodyBytes   int64
	CORSOrigins    []string
	// 登录 / 注册按 IP 限速
	AuthRPS   float64
	AuthBurst int
}

func LimitsFrom(h config.HTTP) Limits {
	l := Limits{
		RequestTimeout: time.Duration(h.RequestTimeoutSec) * time.Second,
		RateLimitRPS:   h.RateLimitRPS,
		RateLimitBurst: h.RateLimitBurst,
		MaxInFlight:    h.MaxInFlight,
		MaxBodyBytes:   h.MaxBodyBytes,
		CORSOrigins:    h.CORSOrigins,
		AuthRPS:        h.AuthRPS,
		AuthBurst:      h.AuthBurst,
	}
	return l.withDefaults()
}

func (l Limits) withDefaults() Limits {
	if l.RequestTimeout <= 0 {
		l.RequestTimeout = 10 * time.Second
	}
	if l.RateLimitRPS <= 0 {
		l.RateLimitRPS = 200
	}
	if l.RateLimitBurst <= 0 {
		l.RateLimitBurst = 400
	}
	if l.MaxInFlight <= 0 {
		l.MaxInFlight = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.AuthRPS <= 0 {
		l.AuthRPS = 5
	}
	if l.AuthBurst <= 0 {
		l.AuthBurst = 20
	}
	return l
}

func newEngine(l *zap.Logger, lim Limits) *gin.Engine {
	r := server.NewRouter(l, server.Options{CORSOrigins: lim.CORSOrigins, OnPanic: mdw.RecoveryJSON})

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RateLimitRPS), lim.RateLimitBurst),
		mdw.ConcurrencyLimit(lim.MaxInFlight),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.RequestTimeout),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, lim Limits, reg *Registry) *gin.Engine {
	lim = lim.withDefaults()
	r := newEngine(l, lim)

	// 前缀
	api := r.Group("/api/v1")

	// 鉴权分组（/me、简历模块都挂这里，才能拿到 userId）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(jwter, ""))

	reg.MountAllAPI(api, authUser)
	return r
}

// AuthThrottle 供账号模块使用的按 IP 限速
func AuthThrottle(lim Limits) gin.HandlerFunc {
	lim = lim.withDefaults()
	return mdw.RateLimitPerIP(rate.Limit(lim.AuthRPS), lim.AuthBurst)
}
