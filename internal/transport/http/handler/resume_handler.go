package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-api/internal/domain"
	"resume-api/internal/feature/resume"
	httpez "resume-api/internal/transport/http/ez"
)

type ResumeHandler struct {
	Svc *resume.Service
	Log *zap.Logger
}

func (h ResumeHandler) Priority() int { return 30 }

func (h ResumeHandler) MountAPI(_, authed *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(authed, h.Log), httpez.Action[struct{}, *domain.Resume]{
		Method: http.MethodGet,
		Path:   "/",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Resume, error) {
			return h.Svc.Get(c.Request.Context(), httpez.MustActor(c))
		},
	})
}
