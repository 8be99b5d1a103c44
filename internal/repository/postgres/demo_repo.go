package postgres

import (
	"context"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type demoRepository struct {
	db *gorm.DB
}

func NewDemoRepository(db *gorm.DB) *demoRepository {
	return &demoRepository{db: db}
}

func (r *demoRepository) Create(ctx context.Context, demo *domain.Demo) error {
	return r.db.WithContext(ctx).Create(demo).Error
}

func (r *demoRepository) GetByGUID(ctx context.Context, guid string) (*domain.Demo, error) {
	var demo domain.Demo
	err := r.db.WithContext(ctx).
		Preload("Users", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Users.Roles", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&demo, "guid = ?", guid).Error
	if err != nil {
		return nil, err
	}
	return &demo, nil
}

func (r *demoRepository) DeleteByGUID(ctx context.Context, guid string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var demo domain.Demo
		if err := tx.First(&demo, "guid = ?", guid).Error; err != nil {
			return err
		}

		var userIDs []uuid.UUID
		if err := tx.Model(&domain.User{}).
			Where("demo_id = ?", demo.ID).
			Pluck("id", &userIDs).Error; err != nil {
			return err
		}

		if len(userIDs) > 0 {
			if err := tx.Where("user_id IN ?", userIDs).Delete(&domain.Role{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("demo_id = ?", demo.ID).Delete(&domain.User{}).Error; err != nil {
			return err
		}
		return tx.Delete(&demo).Error
	})
}

func (r *demoRepository) AddUser(ctx context.Context, guid string, user *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var demo domain.Demo
		if err := tx.First(&demo, "guid = ?", guid).Error; err != nil {
			return err
		}

		user.DemoID = demo.ID
		return tx.Create(user).Error
	})
}
