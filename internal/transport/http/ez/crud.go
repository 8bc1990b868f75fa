package ez

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-api/internal/domain"
)

// SectionService 列表型简历模块需要的能力，section.Service 满足
type SectionService[T any] interface {
	List(ctx context.Context, actor domain.Actor) ([]T, error)
	Create(ctx context.Context, actor domain.Actor, in *T) (*T, error)
	Retrieve(ctx context.Context, actor domain.Actor, id uint) (*T, error)
	Update(ctx context.Context, actor domain.Actor, id uint, in *T) (*T, error)
	Delete(ctx context.Context, actor domain.Actor, id uint) error
}

type CrudConfig[T any] struct {
	List string // 集合路径，例 "/skills"
	Item string // 单条路径，例 "/skill"，实际挂载为 Item+"/:id"
	Svc  SectionService[T]
}

// Crud 注册 GET|POST List 与 GET|PUT|DELETE Item/:id，全部要求登录
func Crud[T any](e EZ, cfg CrudConfig[T]) {
	itemPath := cfg.Item + "/:id"

	RegisterAction(e, Action[struct{}, []T]{
		Method: http.MethodGet,
		Path:   cfg.List,
		Binder: BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]T, error) {
			return cfg.Svc.List(c.Request.Context(), MustActor(c))
		},
	})

	RegisterAction(e, Action[T, *T]{
		Method: http.MethodPost,
		Path:   cfg.List,
		Binder: BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *T) (*T, error) {
			return cfg.Svc.Create(c.Request.Context(), MustActor(c), in)
		},
	})

	RegisterAction(e, Action[struct{}, *T]{
		Method: http.MethodGet,
		Path:   itemPath,
		Binder: BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*T, error) {
			id, err := ParseID(c, "id")
			if err != nil {
				return nil, err
			}
			return cfg.Svc.Retrieve(c.Request.Context(), MustActor(c), id)
		},
	})

	// 先校验 id 再绑定 body，非法 id 直接 404
	RegisterAction(e, Action[struct{}, *T]{
		Method: http.MethodPut,
		Path:   itemPath,
		Binder: BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*T, error) {
			id, err := ParseID(c, "id")
			if err != nil {
				return nil, err
			}
			in := new(T)
			if err := c.ShouldBindJSON(in); err != nil {
				return nil, bindError(err)
			}
			return cfg.Svc.Update(c.Request.Context(), MustActor(c), id, in)
		},
	})

	RegisterAction(e, Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   itemPath,
		Binder: BindNone,
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := ParseID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			return struct{}{}, cfg.Svc.Delete(c.Request.Context(), MustActor(c), id)
		},
	})
}
