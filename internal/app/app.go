package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"resume-api/internal/core/auth"
	"resume-api/internal/core/cache"
	"resume-api/internal/core/config"
	"resume-api/internal/core/database"
	"resume-api/internal/domain"
	"resume-api/internal/feature/account"
	"resume-api/internal/feature/resume"
	"resume-api/internal/feature/section"
	"resume-api/internal/repo"
	"resume-api/internal/transport/http/handler"
	"resume-api/internal/transport/http/router"
	"resume-api/pkg/utils"
)

// App 持有装配好的依赖，供 cmd/api 与 cmd/admin 共用
type App struct {
	Cfg    *config.Config
	Log    *zap.Logger
	JWT    *auth.JWTer
	Stores *repo.Stores

	Accounts     *account.Service
	Skills       *section.Service[domain.Skill, *domain.Skill]
	Educations   *section.Service[domain.Education, *domain.Education]
	Certificates *section.Service[domain.Certificate, *domain.Certificate]
	Experiences  *section.Service[domain.Experience, *domain.Experience]
	Bio          *section.BioService
	Resume       *resume.Service

	closers []func()
}

func Build(cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}
	a.JWT = &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		TTL:        time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLHour) * time.Hour,
	}

	stores, err := a.openStores()
	if err != nil {
		return nil, err
	}
	a.Stores = stores

	hasher := utils.BcryptHasher{Cost: cfg.Password.BcryptCost}
	policy := account.NewPasswordPolicy(cfg.Password.MinLength, cfg.Password.MaxSimilarity)
	a.Accounts = account.NewService(stores.Users, hasher, a.JWT, policy, l.Named("account"))

	sl := l.Named("section")
	a.Skills = section.NewService[domain.Skill]("skill", stores.Skills, sl)
	a.Educations = section.NewService[domain.Education]("education", stores.Educations, sl)
	a.Certificates = section.NewService[domain.Certificate]("certificate", stores.Certificates, sl)
	a.Experiences = section.NewService[domain.Experience]("experience", stores.Experiences, sl)
	a.Bio = section.NewBioService(stores.Bios, sl)

	a.Resume = resume.NewService(resume.Sources{
		Users:        stores.Users,
		Skills:       stores.Skills,
		Educations:   stores.Educations,
		Certificates: stores.Certificates,
		Experiences:  stores.Experiences,
		Bios:         stores.Bios,
	}, l.Named("resume"))
	if c := a.openCache(); c != nil {
		a.Resume.WithCache(c, time.Duration(cfg.Cache.ResumeTTLSec)*time.Second)
	}

	// 任一写操作后失效简历缓存
	invalidate := a.Resume.Invalidate
	a.Accounts.OnChange = invalidate
	a.Skills.OnChange = invalidate
	a.Educations.OnChange = invalidate
	a.Certificates.OnChange = invalidate
	a.Experiences.OnChange = invalidate
	a.Bio.OnChange = invalidate
	return a, nil
}

func (a *App) openStores() (*repo.Stores, error) {
	if database.IsMemory(a.Cfg.DB.Driver) {
		a.Log.Warn("using in-memory store, data is lost on restart")
		return repo.NewMemoryStores(), nil
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             a.Cfg.DB.Driver,
		DSN:                a.Cfg.DB.DSN,
		Username:           a.Cfg.DB.Username,
		Password:           a.Cfg.DB.Password,
		MaxOpenConns:       a.Cfg.DB.MaxOpenConns,
		MaxIdleConns:       a.Cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: a.Cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           a.Cfg.DB.LogLevel,
		Log:                a.Log.Named("gorm"),
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	a.Log.Info("database connected", zap.String("driver", a.Cfg.DB.Driver))
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}

	if a.Cfg.DB.AutoMigrate {
		if err := database.Migrate(db, repo.Models()...); err != nil {
			return nil, err
		}
		a.Log.Info("automigrate done")
	}
	return repo.NewGormStores(db), nil
}

// openCache 未配置或探活失败时返回 nil，简历直读存储
func (a *App) openCache() resume.Cache {
	if a.Cfg.Redis.Addr == "" {
		return nil
	}
	c := cache.New(a.Cfg.Redis.Addr, a.Cfg.Redis.Password, a.Cfg.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		a.Log.Warn("redis unavailable, resume cache disabled", zap.String("addr", a.Cfg.Redis.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	a.closers = append(a.closers, func() { _ = c.Close() })
	a.Log.Info("redis connected", zap.String("addr", a.Cfg.Redis.Addr))
	return c
}

func (a *App) APIRegistry() *router.Registry {
	lim := router.LimitsFrom(a.Cfg.App.HTTP)
	return router.NewRegistry(
		handler.AccountHandler{Svc: a.Accounts, Log: a.Log, Throttle: router.AuthThrottle(lim)},
		handler.SectionsHandler{
			Skills:       a.Skills,
			Educations:   a.Educations,
			Certificates: a.Certificates,
			Experiences:  a.Experiences,
			Bio:          a.Bio,
			Log:          a.Log,
		},
		handler.ResumeHandler{Svc: a.Resume, Log: a.Log},
	)
}

func (a *App) AdminRegistry() *router.Registry {
	return router.NewRegistry(handler.AdminHandler{Accounts: a.Accounts, Log: a.Log})
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
