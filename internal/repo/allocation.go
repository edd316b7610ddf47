package repo

import (
	"context"

	"github.com/vatrade/orchestrator/internal/entity"
	"gorm.io/gorm"
)

type AllocationRepo interface {
	FindByIdAndUser(ctx context.Context, id, userId int64) (entity.CoinAllocation, error)
	FindByUser(ctx context.Context, userId int64) ([]entity.CoinAllocation, error)
}

type allocationRepo struct {
	db *gorm.DB
}

func NewAllocationRepo(db *gorm.DB) AllocationRepo {
	return &allocationRepo{
		db: db,
	}
}

func (repo *allocationRepo) FindByIdAndUser(ctx context.Context, id, userId int64) (entity.CoinAllocation, error) {
	var allocation entity.CoinAllocation
	err := repo.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).First(&allocation).Error
	if err != nil {
		return entity.CoinAllocation{}, err
	}
	return allocation, nil
}

func (repo *allocationRepo) FindByUser(ctx context.Context, userId int64) ([]entity.CoinAllocation, error) {
	var allocations []entity.CoinAllocation
	err := repo.db.WithContext(ctx).Where("user_id = ?", userId).Find(&allocations).Error
	if err != nil {
		return nil, err
	}
	return allocations, nil
}
