package repo

import (
	"github.com/vatrade/orchestrator/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.CoinAllocation{}, &entity.Credential{})
}
