package repository

import (
	"app/internal/domain/model"
	"context"
)

// 管理画面の注文一覧検索
type AdminOrderListQuery struct {
	Page   int
	Limit  int
	Status string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	ListAdmin(ctx context.Context, q AdminOrderListQuery) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	// status のみ更新可。注文自体はイミュータブル
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
}
