package resume

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"resume-api/internal/core/cache"
	"resume-api/internal/domain"
)

// Cache 简历缓存所需能力，*cache.Cache 满足
type Cache interface {
	cache.Loader
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) (int64, error)
	Del(ctx context.Context, keys ...string) error
}

type lister[T any] interface {
	List(ctx context.Context, owner uint) ([]T, error)
}

type Sources struct {
	Users        domain.UserStore
	Skills       lister[domain.Skill]
	Educations   lister[domain.Education]
	Certificates lister[domain.Certificate]
	Experiences  lister[domain.Experience]
	Bios         domain.BioStore
}

type Service struct {
	src   Sources
	log   *zap.Logger
	cache Cache
	ttl   time.Duration
}

func NewService(src Sources, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{src: src, log: l}
}

// WithCache 开启 redis 缓存，c 为 nil 时保持直读
func (s *Service) WithCache(c Cache, ttl time.Duration) *Service {
	s.cache = c
	s.ttl = ttl
	return s
}

// 缓存 key 带上用户的代数：resume:<uid>:<gen>。
// 写操作提交后代数加一，之前开始的回源只会写回旧 key，之后的读取也不会并入旧的回源。
func Key(uid uint, gen int64) string {
	return "resume:" + strconv.FormatUint(uint64(uid), 10) + ":" + strconv.FormatInt(gen, 10)
}

func GenKey(uid uint) string { return "resume:" + strconv.FormatUint(uint64(uid), 10) + ":gen" }

func (s *Service) Get(ctx context.Context, actor domain.Actor) (*domain.Resume, error) {
	if s.cache == nil {
		return s.compose(ctx, actor.ID)
	}
	gen, err := s.cache.Generation(ctx, GenKey(actor.ID))
	if err != nil {
		// 拿不到代数就不用缓存
		s.log.Debug("resume cache generation unavailable", zap.Uint("user_id", actor.ID), zap.Error(err))
		return s.compose(ctx, actor.ID)
	}
	return cache.GetOrLoadJSON[domain.Resume](s.cache, ctx, Key(actor.ID, gen), s.ttl, func(ctx context.Context) (*domain.Resume, error) {
		return s.compose(ctx, actor.ID)
	})
}

// Invalidate 推进代数并删除旧条目，失败只记日志
func (s *Service) Invalidate(ctx context.Context, owner uint) {
	if s.cache == nil {
		return
	}
	gen, err := s.cache.Bump(ctx, GenKey(owner))
	if err != nil {
		s.log.Warn("resume cache invalidate failed", zap.Uint("user_id", owner), zap.Error(err))
		return
	}
	if err := s.cache.Del(ctx, Key(owner, gen-1)); err != nil {
		s.log.Warn("resume cache cleanup failed", zap.Uint("user_id", owner), zap.Error(err))
	}
}

func (s *Service) compose(ctx context.Context, uid uint) (*domain.Resume, error) {
	u, err := s.src.Users.FindByID(ctx, uid)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("resume: load user: %w", err)
	}

	r := &domain.Resume{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { r.Skills, err = s.src.Skills.List(gctx, uid); return })
	g.Go(func() (err error) { r.Educations, err = s.src.Educations.List(gctx, uid); return })
	g.Go(func() (err error) { r.Certificates, err = s.src.Certificates.List(gctx, uid); return })
	g.Go(func() (err error) { r.Experiences, err = s.src.Experiences.List(gctx, uid); return })
	g.Go(func() error {
		b, err := s.src.Bios.GetByOwner(gctx, uid)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		r.Bio = b
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resume: load sections: %w", err)
	}
	fillEmpty(r)
	return r, nil
}

func fillEmpty(r *domain.Resume) {
	if r.Skills == nil {
		r.Skills = []domain.Skill{}
	}
	if r.Educations == nil {
		r.Educations = []domain.Education{}
	}
	if r.Certificates == nil {
		r.Certificates = []domain.Certificate{}
	}
	if r.Experiences == nil {
		r.Experiences = []domain.Experience{}
	}
}
