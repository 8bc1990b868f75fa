package section

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resume-api/internal/domain"
)

// BioService 每个用户至多一条自述，按 actor 定位
type BioService struct {
	store domain.BioStore
	log   *zap.Logger

	OnChange func(ctx context.Context, owner uint)
}

func NewBioService(store domain.BioStore, l *zap.Logger) *BioService {
	if l == nil {
		l = zap.NewNop()
	}
	return &BioService{store: store, log: l.With(zap.String("section", "bio"))}
}

func (s *BioService) Get(ctx context.Context, actor domain.Actor) (*domain.Bio, error) {
	b, err := s.store.GetByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("bio: get: %w", err)
	}
	return b, nil
}

// Put 不存在则创建，存在则覆盖内容；created 区分两种结果
func (s *BioService) Put(ctx context.Context, actor domain.Actor, content string) (b *domain.Bio, created bool, err error) {
	b = &domain.Bio{UserID: actor.ID, Content: content}
	b.Normalize()
	if err := domain.Validate(b); err != nil {
		return nil, false, err
	}
	created, err = s.store.Upsert(ctx, b)
	if err != nil {
		return nil, false, fmt.Errorf("bio: put: %w", err)
	}
	s.changed(ctx, actor.ID)
	return b, created, nil
}

func (s *BioService) Delete(ctx context.Context, actor domain.Actor) error {
	if err := s.store.Delete(ctx, actor.ID); err != nil {
		return fmt.Errorf("bio: delete: %w", err)
	}
	s.changed(ctx, actor.ID)
	return nil
}

func (s *BioService) changed(ctx context.Context, owner uint) {
	if s.OnChange != nil {
		s.OnChange(ctx, owner)
	}
}
