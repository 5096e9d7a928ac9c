package repository

import (
	"app/internal/domain/model"
	"context"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	// カテゴリと、そのカテゴリの商品（および商品を参照するカート明細）を削除する
	DeleteCascade(ctx context.Context, id int64) error
}
