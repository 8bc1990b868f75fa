package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resume-api/internal/domain"
)

type BioRepo struct{ db *gorm.DB }

func NewBioRepo(db *gorm.DB) *BioRepo { return &BioRepo{db: db} }

func (r *BioRepo) GetByOwner(ctx context.Context, owner uint) (*domain.Bio, error) {
	var b domain.Bio
	if err := r.db.WithContext(ctx).First(&b, "user_id = ?", owner).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BioRepo) Upsert(ctx context.Context, b *domain.Bio) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur domain.Bio
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cur, "user_id = ?", b.UserID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			b.ID = 0
			if e := tx.Create(b).Error; e != nil {
				return e
			}
			created = true
			return nil
		case err != nil:
			return err
		}
		b.ID = cur.ID
		return tx.Model(&cur).Update("content", b.Content).Error
	})
	if err != nil && isDupKey(err) {
		// 并发兜底：另一请求刚插入 → 改为更新
		created = false
		err = r.db.WithContext(ctx).Model(&domain.Bio{}).Where("user_id = ?", b.UserID).Update("content", b.Content).Error
		if err == nil {
			var cur domain.Bio
			if e := r.db.WithContext(ctx).First(&cur, "user_id = ?", b.UserID).Error; e == nil {
				b.ID = cur.ID
			}
		}
	}
	return created, err
}

func (r *BioRepo) Delete(ctx context.Context, owner uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", owner).Delete(&domain.Bio{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
