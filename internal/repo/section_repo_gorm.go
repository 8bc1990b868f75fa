package repo

import (
	"context"

	"gorm.io/gorm"

	"resume-api/internal/domain"
)

// SectionRepo 通用分区仓储：T 为模型，P 为 *T（提供归属/排序规则）
type SectionRepo[T any, P domain.Record[T]] struct{ db *gorm.DB }

func NewSectionRepo[T any, P domain.Record[T]](db *gorm.DB) *SectionRepo[T, P] {
	return &SectionRepo[T, P]{db: db}
}

func (r *SectionRepo[T, P]) List(ctx context.Context, owner uint) ([]T, error) {
	items := make([]T, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order(P(new(T)).OrderBy()).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SectionRepo[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	m := new(T)
	if err := r.db.WithContext(ctx).First(m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

func (r *SectionRepo[T, P]) Insert(ctx context.Context, m *T) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *SectionRepo[T, P]) Update(ctx context.Context, m *T) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *SectionRepo[T, P]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SectionRepo[T, P]) DeleteByOwner(ctx context.Context, owner uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", owner).Delete(new(T)).Error
}

func (r *SectionRepo[T, P]) Transaction(ctx context.Context, fn func(domain.SectionStore[T]) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SectionRepo[T, P]{db: tx})
	})
}
