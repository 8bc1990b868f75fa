package section

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resume-api/internal/domain"
)

// Guard 记录不属于 actor 时返回 ErrForbidden
func Guard[T any, P domain.Record[T]](actor domain.Actor, m *T) error {
	if P(m).Owner() != actor.ID {
		return domain.ErrForbidden
	}
	return nil
}

// Service 是四类列表型简历模块的通用 CRUD，全部按 actor 归属收敛
type Service[T any, P domain.Record[T]] struct {
	name  string
	store domain.SectionStore[T]
	log   *zap.Logger

	OnChange func(ctx context.Context, owner uint)
}

func NewService[T any, P domain.Record[T]](name string, store domain.SectionStore[T], l *zap.Logger) *Service[T, P] {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service[T, P]{name: name, store: store, log: l.With(zap.String("section", name))}
}

func (s *Service[T, P]) List(ctx context.Context, actor domain.Actor) ([]T, error) {
	items, err := s.store.List(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", s.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *Service[T, P]) Create(ctx context.Context, actor domain.Actor, in *T) (*T, error) {
	if err := s.prepare(actor, 0, in); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx domain.SectionStore[T]) error {
		return tx.Insert(ctx, in)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create: %w", s.name, err)
	}
	s.log.Debug("record created", zap.Uint("id", P(in).Key()), zap.Uint("user_id", actor.ID))
	s.changed(ctx, actor.ID)
	return in, nil
}

func (s *Service[T, P]) Retrieve(ctx context.Context, actor domain.Actor, id uint) (*T, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: get %d: %w", s.name, id, err)
	}
	if err := Guard[T, P](actor, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update 整体替换记录内容，id 与归属保持不变
func (s *Service[T, P]) Update(ctx context.Context, actor domain.Actor, id uint, in *T) (*T, error) {
	err := s.store.Transaction(ctx, func(tx domain.SectionStore[T]) error {
		cur, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := Guard[T, P](actor, cur); err != nil {
			return err
		}
		if err := s.prepare(actor, id, in); err != nil {
			return err
		}
		return tx.Update(ctx, in)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: update %d: %w", s.name, id, err)
	}
	s.changed(ctx, actor.ID)
	return in, nil
}

func (s *Service[T, P]) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	err := s.store.Transaction(ctx, func(tx domain.SectionStore[T]) error {
		cur, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := Guard[T, P](actor, cur); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("%s: delete %d: %w", s.name, id, err)
	}
	s.changed(ctx, actor.ID)
	return nil
}

// prepare 忽略客户端传入的 id/user，清洗后校验
func (s *Service[T, P]) prepare(actor domain.Actor, id uint, in *T) error {
	p := P(in)
	p.SetKey(id)
	p.SetOwner(actor.ID)
	p.Normalize()
	return domain.Validate(in)
}

func (s *Service[T, P]) changed(ctx context.Context, owner uint) {
	if s.OnChange != nil {
		s.OnChange(ctx, owner)
	}
}
