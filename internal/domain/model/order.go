package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
)

// 注文は作成後イミュータブル。status のみ前方に遷移する。
type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Number     string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"number"`
	UserID     int64           `gorm:"not null;index" json:"user_id"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Tax        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"tax"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Status     OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
