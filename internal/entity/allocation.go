package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CoinAllocation 用户为某个交易对配置的交易预算
type CoinAllocation struct {
	Id        int64  `gorm:"primaryKey;autoIncrement"`
	UserId    int64  `gorm:"index"`
	Symbol    string `gorm:"index"` // e.g. BTCUSDT
	Amount    decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
