package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-api/internal/core/auth"
	"resume-api/internal/domain"
	"resume-api/internal/feature/account"
	httpez "resume-api/internal/transport/http/ez"
)

type AccountHandler struct {
	Svc *account.Service
	Log *zap.Logger
	// Throttle 挂在 /register /login /token/refresh 前（按 IP 限速）
	Throttle gin.HandlerFunc
}

func (h AccountHandler) Priority() int { return 10 }

func (h AccountHandler) MountAPI(public, authed *gin.RouterGroup) {
	if h.Throttle != nil {
		public = public.Group("", h.Throttle)
	}
	pub := httpez.New(public, h.Log)

	httpez.RegisterAction(pub, httpez.Action[account.RegisterInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *account.RegisterInput) (*domain.User, error) {
			return h.Svc.Register(c.Request.Context(), *in)
		},
	})

	httpez.RegisterAction(pub, httpez.Action[account.LoginInput, *account.LoginResult]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *account.LoginInput) (*account.LoginResult, error) {
			return h.Svc.Login(c.Request.Context(), *in)
		},
	})

	type refreshIn struct {
		Refresh string `json:"refresh"`
	}
	httpez.RegisterAction(pub, httpez.Action[refreshIn, *auth.Pair]{
		Method: http.MethodPost,
		Path:   "/token/refresh",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *refreshIn) (*auth.Pair, error) {
			if in.Refresh == "" {
				return nil, domain.NewValidationError(domain.CodeValidation).Add("refresh", "This field is required.")
			}
			return h.Svc.Refresh(c.Request.Context(), in.Refresh)
		},
	})

	me := httpez.New(authed, h.Log)

	httpez.RegisterAction(me, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.Svc.Profile(c.Request.Context(), httpez.MustActor(c))
		},
	})

	httpez.RegisterAction(me, httpez.Action[account.ProfileInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *account.ProfileInput) (*domain.User, error) {
			return h.Svc.UpdateProfile(c.Request.Context(), httpez.MustActor(c), *in)
		},
	})
}
