package entity

import (
	"time"
)

// Credential 用户的交易所 API 密钥, 只在后端内部流转
type Credential struct {
	Id        int64 `gorm:"primaryKey;autoIncrement"`
	UserId    int64 `gorm:"index"`
	ApiKey    string
	ApiSecret string
	CreatedAt time.Time
	UpdatedAt time.Time
}
