package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-api/internal/domain"
	"resume-api/internal/feature/section"
	httpez "resume-api/internal/transport/http/ez"
)

// SectionsHandler 挂载四个列表模块和 bio
type SectionsHandler struct {
	Skills       httpez.SectionService[domain.Skill]
	Educations   httpez.SectionService[domain.Education]
	Certificates httpez.SectionService[domain.Certificate]
	Experiences  httpez.SectionService[domain.Experience]
	Bio          *section.BioService
	Log          *zap.Logger
}

func (h SectionsHandler) Priority() int { return 20 }

func (h SectionsHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := httpez.New(authed, h.Log)

	httpez.Crud(e, httpez.CrudConfig[domain.Skill]{List: "/skills", Item: "/skill", Svc: h.Skills})
	httpez.Crud(e, httpez.CrudConfig[domain.Education]{List: "/educations", Item: "/education", Svc: h.Educations})
	httpez.Crud(e, httpez.CrudConfig[domain.Certificate]{List: "/certificates", Item: "/certificate", Svc: h.Certificates})
	httpez.Crud(e, httpez.CrudConfig[domain.Experience]{List: "/experiences", Item: "/experience", Svc: h.Experiences})

	h.mountBio(e)
}

type bioIn struct {
	Content string `json:"content"`
}

func (h SectionsHandler) mountBio(e httpez.EZ) {
	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.Bio]{
		Method: http.MethodGet,
		Path:   "/bio",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Bio, error) {
			return h.Bio.Get(c.Request.Context(), httpez.MustActor(c))
		},
	})

	// POST 与 PUT 同为 upsert：新建 201，更新 200
	put := func(c *gin.Context, in *bioIn) (*domain.Bio, error) {
		b, created, err := h.Bio.Put(c.Request.Context(), httpez.MustActor(c), in.Content)
		if err != nil {
			return nil, err
		}
		if created {
			httpez.SetStatus(c, http.StatusCreated)
		}
		return b, nil
	}
	for _, m := range []string{http.MethodPost, http.MethodPut} {
		httpez.RegisterAction(e, httpez.Action[bioIn, *domain.Bio]{
			Method:  m,
			Path:    "/bio",
			Binder:  httpez.BindJSON,
			Auth:    true,
			Handler: put,
		})
	}

	httpez.RegisterAction(e, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/bio",
		Binder: httpez.BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			return struct{}{}, h.Bio.Delete(c.Request.Context(), httpez.MustActor(c))
		},
	})
}
