package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-api/internal/domain"
	"resume-api/internal/feature/account"
	httpez "resume-api/internal/transport/http/ez"
)

// AdminHandler 管理端用户管理，分组已走 AuthJWT("admin")
type AdminHandler struct {
	Accounts *account.Service
	Log      *zap.Logger
}

func (h AdminHandler) MountAdmin(admin *gin.RouterGroup) {
	ezAdmin := httpez.New(admin, h.Log)

	// --- 用户列表 ---
	httpez.RegisterAction(ezAdmin, httpez.Action[account.ListQuery, *account.UserPage]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *account.ListQuery) (*account.UserPage, error) {
			return h.Accounts.List(c.Request.Context(), *in)
		},
	})

	// --- 删除用户（级联删除简历数据） ---
	httpez.RegisterAction(ezAdmin, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := httpez.ParseID(c, "id")
			if err != nil {
				return struct{}{}, err
			}
			if id == httpez.MustActor(c).ID {
				return struct{}{}, httpez.BadRequest("cannot delete yourself")
			}
			return struct{}{}, h.Accounts.Delete(c.Request.Context(), id)
		},
	})
}
