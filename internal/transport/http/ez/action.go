package ez

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-api/internal/domain"
	mdw "resume-api/internal/transport/http/middleware"
	resp "resume-api/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

/* ================== Action（非 CRUD 一行注册） ================== */

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 统一错误对象（配合 resp.Fail）
type AErr struct {
	Code   int
	Msg    string
	Fields map[string][]string
	Err    error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// FromDomain 把领域错误映射为 HTTP 错误；未知错误一律 500
func FromDomain(err error) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return &AErr{Code: resp.CodeBadRequest, Msg: ve.Code, Fields: ve.Fields, Err: err}
	}
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return &AErr{Code: resp.CodeBadRequest, Msg: "invalid_credentials", Err: err,
			Fields: map[string][]string{"non_field_errors": {"Unable to log in with provided credentials."}}}
	case errors.Is(err, domain.ErrUnauthenticated):
		return &AErr{Code: resp.CodeUnauthorized, Msg: "unauthorized", Err: err}
	case errors.Is(err, domain.ErrForbidden):
		return &AErr{Code: resp.CodeForbidden, Msg: "forbidden", Err: err}
	case errors.Is(err, domain.ErrNotFound):
		return &AErr{Code: resp.CodeNotFound, Msg: "not found", Err: err}
	case errors.Is(err, domain.ErrConflict):
		return &AErr{Code: resp.CodeConflict, Msg: "conflict", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &AErr{Code: resp.CodeTimeout, Msg: "timeout", Err: err}
	}
	return &AErr{Code: resp.CodeServerError, Msg: "internal error", Err: err}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/login"、"/skill/:id"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Status  int      // 成功状态码，默认 200；204 不写 body
	Handler func(c *gin.Context, in *I) (O, error)
}

const keyStatus = "ez.status"

// SetStatus 覆盖本次成功响应的状态码（如 upsert 区分 201/200）
func SetStatus(c *gin.Context, code int) { c.Set(keyStatus, code) }

// 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			actor, ok := mdw.Actor(c)
			if !ok {
				e.fail(c, Unauthorized("unauthorized"))
				return
			}
			if len(a.Roles) > 0 {
				allowed := false
				for _, r := range a.Roles {
					if actor.Role == r {
						allowed = true
						break
					}
				}
				if !allowed {
					e.fail(c, Forbidden("forbidden"))
					return
				}
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			e.fail(c, bindError(bindErr))
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}

		// 4) 输出
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		if v, ok := c.Get(keyStatus); ok {
			status = v.(int)
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// fail 统一错误输出；500 只记日志，不回显原因
func (e EZ) fail(c *gin.Context, err error) {
	ae := FromDomain(err)
	if ae.Code == resp.CodeTimeout {
		e.log.Warn("request timed out",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
		)
	}
	if ae.Code == resp.CodeServerError {
		e.log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(ae.Code, resp.Error(ae.Code, "internal error"))
		return
	}
	c.JSON(ae.Code, resp.Fail(ae.Code, ae.Msg, ae.Fields))
}

// bindError 把解码错误转成字段级校验错误
func bindError(err error) error {
	ve := domain.NewValidationError(domain.CodeValidation)
	var typeErr *json.UnmarshalTypeError
	var synErr *json.SyntaxError
	var dateErr *domain.DateFormatError
	var numErr *strconv.NumError
	switch {
	case errors.As(err, &dateErr):
		ve.Add("non_field_errors", dateErr.Error())
	case errors.As(err, &typeErr) && typeErr.Field != "":
		ve.Add(typeErr.Field, "Incorrect type. Expected "+typeErr.Type.String()+".")
	case errors.As(err, &synErr), errors.Is(err, io.ErrUnexpectedEOF):
		ve.Add("non_field_errors", "JSON parse error.")
	case errors.Is(err, io.EOF):
		ve.Add("non_field_errors", "No data provided.")
	case errors.As(err, &numErr):
		ve.Add("non_field_errors", "A valid integer is required.")
	default:
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return &AErr{Code: resp.CodeTooLarge, Msg: "request body too large", Err: err}
		}
		ve.Add("non_field_errors", "Invalid request body.")
	}
	return ve
}

// ParseID 解析路径 id，非法值视为不存在
func ParseID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, domain.ErrNotFound
	}
	return uint(v), nil
}

// MustActor 在 Auth 动作内取身份
func MustActor(c *gin.Context) domain.Actor {
	a, _ := mdw.Actor(c)
	return a
}
