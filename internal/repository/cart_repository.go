package repository

import (
	"app/internal/domain/model"
	"context"
)

type CartRepository interface {
	// ユーザーのカートを取得。無ければ作成（遅延作成）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// カート行をロックする（チェックアウトと更新系の直列化に使う）
	LockByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 指定カートの明細を全削除する。カート行自体は残す
	Clear(ctx context.Context, cartID int64) error
}
