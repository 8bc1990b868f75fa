package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"resume-api/internal/domain"
	mdw "resume-api/internal/transport/http/middleware"
	resp "resume-api/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func TestFromDomain(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.NewValidationError(domain.CodeValidation).Add("rate", "bad"), 400},
		{fmt.Errorf("skill: create: %w", domain.NewValidationError(domain.CodeWeakPassword)), 400},
		{domain.ErrInvalidCredentials, 400},
		{domain.ErrUnauthenticated, 401},
		{fmt.Errorf("skill: get 1: %w", domain.ErrForbidden), 403},
		{domain.ErrNotFound, 404},
		{domain.ErrConflict, 409},
		{fmt.Errorf("skill: list: %w", context.DeadlineExceeded), 504},
		{errors.New("boom"), 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, FromDomain(tc.err).Code, tc.err.Error())
	}
}

type payload struct {
	Rate int         `json:"rate"`
	Day  domain.Date `json:"day"`
}

func newEngine(l *zap.Logger, a Action[payload, payload]) *gin.Engine {
	r := gin.New()
	g := r.Group("", func(c *gin.Context) {
		c.Set(mdw.KeyUserID, uint(1))
		c.Set(mdw.KeyRole, domain.RoleUser)
	})
	RegisterAction(New(g, l), a)
	return r
}

func post(r http.Handler, body string) (*httptest.ResponseRecorder, resp.Resp) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRegisterActionBindErrors(t *testing.T) {
	r := newEngine(nil, Action[payload, payload]{
		Method: http.MethodPost, Path: "/x", Binder: BindJSON, Auth: true, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *payload) (payload, error) { return *in, nil },
	})

	w, out := post(r, `{"rate":"high"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out.Errors, "rate")

	w, out = post(r, `{"day":"14/10/2026"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}, out.Errors["non_field_errors"])

	w, _ = post(r, `{"rate":3,"day":"2026-10-14"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{"rate":3,"day":"2026-10-14"}}`, w.Body.String())
}

func TestRegisterActionHidesInternalErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := newEngine(zap.New(core), Action[payload, payload]{
		Method: http.MethodPost, Path: "/x", Binder: BindNone,
		Handler: func(c *gin.Context, _ *payload) (payload, error) {
			return payload{}, errors.New("pq: connection refused")
		},
	})

	w, out := post(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", out.Msg)
	assert.NotContains(t, w.Body.String(), "connection refused")
	require.Equal(t, 1, logs.Len())
}

func TestRegisterActionRoles(t *testing.T) {
	r := newEngine(nil, Action[payload, payload]{
		Method: http.MethodPost, Path: "/x", Binder: BindNone, Auth: true, Roles: []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, _ *payload) (payload, error) { return payload{}, nil },
	})
	w, _ := post(r, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterActionDeadlineIs504(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := gin.New()
	g := r.Group("", mdw.Timeout(time.Millisecond))
	RegisterAction(New(g, zap.New(core)), Action[payload, payload]{
		Method: http.MethodPost, Path: "/x", Binder: BindNone,
		Handler: func(c *gin.Context, _ *payload) (payload, error) {
			<-c.Request.Context().Done()
			return payload{}, fmt.Errorf("skill: list: %w", c.Request.Context().Err())
		},
	})

	w, out := post(r, "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "timeout", out.Msg)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}
