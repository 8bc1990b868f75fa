package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"resume-api/internal/core/auth"
	"resume-api/internal/domain"
)

type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hashed string) bool
}

type TokenIssuer interface {
	IssuePair(uid uint, role string) (auth.Pair, error)
	Verify(token, typ string) (*auth.Claims, error)
}

type RegisterInput struct {
	Username    string `json:"username" validate:"required,max=150,username"`
	Email       string `json:"email" validate:"required,max=191,email"`
	Password    string `json:"password" validate:"required,max=128"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=12,numeric"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	Email       string `json:"email" validate:"required,max=191,email"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=12,numeric"`
}

type ListQuery struct {
	Q      string `form:"q"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type LoginResult struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *domain.User `json:"user"`
}

type UserPage struct {
	List  []domain.User `json:"list"`
	Total int64         `json:"total"`
}

type Service struct {
	users  domain.UserStore
	hasher Hasher
	tokens TokenIssuer
	policy PasswordPolicy
	log    *zap.Logger

	// OnChange 在资料变更或用户删除后触发（简历缓存失效）
	OnChange func(ctx context.Context, uid uint)

	dummyOnce sync.Once
	dummyHash string
}

func NewService(users domain.UserStore, hasher Hasher, tokens TokenIssuer, policy PasswordPolicy, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, policy: policy, log: l}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = domain.CleanText(in.FirstName)
	in.LastName = domain.CleanText(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	if msgs := s.policy.Check(in.Password,
		Attr{"username", in.Username},
		Attr{"email address", in.Email},
		Attr{"first name", in.FirstName},
		Attr{"last name", in.LastName},
	); len(msgs) > 0 {
		ve := domain.NewValidationError(domain.CodeWeakPassword)
		for _, m := range msgs {
			ve.Add("password", m)
		}
		return nil, ve
	}

	dup := domain.NewValidationError(domain.CodeDuplicateField)
	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		dup.Add("username", msgUsernameTaken)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: lookup username: %w", err)
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		dup.Add("email", msgEmailTaken)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}
	if err := dup.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash: %w", err)
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
		Role:         domain.RoleUser,
	}
	// 并发注册由唯一约束兜底
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// 未知用户同样做一次比对，避免时序差异
		s.hasher.Verify(in.Password, s.dummy())
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	pair, err := s.tokens.IssuePair(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &LoginResult{Access: pair.Access, Refresh: pair.Refresh, User: u}, nil
}

// Refresh 用 refresh token 换一对新 token，角色以库内为准
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*auth.Pair, error) {
	c, err := s.tokens.Verify(refreshToken, auth.TypeRefresh)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	u, err := s.users.FindByID(ctx, c.UID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	pair, err := s.tokens.IssuePair(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return &pair, nil
}

func (s *Service) Profile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, actor.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	return u, err
}

func (s *Service) UpdateProfile(ctx context.Context, actor domain.Actor, in ProfileInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = domain.CleanText(in.FirstName)
	in.LastName = domain.CleanText(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	u, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(u.Email, in.Email) {
		other, err := s.users.FindByEmail(ctx, in.Email)
		if err == nil && other.ID != u.ID {
			return nil, domain.NewValidationError(domain.CodeDuplicateField).
				Add("email", msgEmailTaken)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("update profile: lookup email: %w", err)
		}
	}
	u.Email = in.Email
	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.PhoneNumber = in.PhoneNumber
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.changed(ctx, u.ID)
	return u, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) (*UserPage, error) {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	list, total, err := s.users.List(ctx, strings.TrimSpace(q.Q), q.Offset, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &UserPage{List: list, Total: total}, nil
}

// Delete 删除用户及其全部简历数据
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Uint("user_id", id))
	s.changed(ctx, id)
	return nil
}

func (s *Service) changed(ctx context.Context, uid uint) {
	if s.OnChange != nil {
		s.OnChange(ctx, uid)
	}
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("resume-api-dummy-password")
		if err != nil {
			s.log.Warn("dummy hash failed", zap.Error(err))
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

const (
	msgUsernameTaken = "Username is already taken."
	msgEmailTaken    = "Email address is already in use."
)
