package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartFixture() (*usecase.CartUsecase, *fakeTxManager, *CartRepoMock, *CartItemRepoMock, *ProductRepoMock) {
	carts := new(CartRepoMock)
	cartItems := new(CartItemRepoMock)
	products := new(ProductRepoMock)

	txm := &fakeTxManager{repos: fakeTxRepos{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		carts:      carts,
		cartItems:  cartItems,
		products:   products,
		categories: new(CategoryRepoMock),
	}}

	u := usecase.NewCartUsecase(txm, carts, cartItems, products)
	return u, txm, carts, cartItems, products
}

func TestCartUsecase_GetCart_LazyCreateEmpty(t *testing.T) {
	u, _, carts, cartItems, _ := newCartFixture()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	resp, err := u.GetCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "0.00", resp.Subtotal)
	assert.Equal(t, "0.00", resp.Tax)
	assert.Equal(t, "0.00", resp.Total)
	assert.Equal(t, int64(10), resp.TaxRatePercent)
}

func TestCartUsecase_AddItem_ProductNotFound(t *testing.T) {
	u, txm, _, _, products := newCartFixture()

	products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := u.AddItem(context.Background(), 1, 99)

	httpErr, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, 0, txm.calls)
}

func TestCartUsecase_AddItem_UpsertsQuantityOne(t *testing.T) {
	u, _, carts, cartItems, products := newCartFixture()

	product := model.Product{ID: 5, Name: "コーヒー豆", Price: decimal.RequireFromString("10.00")}
	products.On("FindByID", mock.Anything, int64(5)).Return(product, nil)
	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("UpsertAddQuantity", mock.Anything, int64(7), int64(5), int64(1)).Return(nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 10, CartID: 7, ProductID: 5, Quantity: 2},
	}, nil)

	resp, err := u.AddItem(context.Background(), 1, 5)

	assert.NoError(t, err)
	cartItems.AssertCalled(t, "UpsertAddQuantity", mock.Anything, int64(7), int64(5), int64(1))
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, int64(2), resp.Items[0].Quantity)
	assert.Equal(t, "20.00", resp.Subtotal)
	assert.Equal(t, "2.00", resp.Tax)
	assert.Equal(t, "22.00", resp.Total)
}

// ロックの競合はDB側の挙動なので、単体ではカート行→明細行の順に
// ロック取得が呼ばれる契約だけを確認する。
func TestCartUsecase_Increase_AddsOne(t *testing.T) {
	u, _, carts, cartItems, products := newCartFixture()

	carts.On("LockByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(5)).
		Return(model.CartItem{ID: 10, CartID: 7, ProductID: 5, Quantity: 2}, nil)
	cartItems.On("UpdateQuantity", mock.Anything, int64(10), int64(3)).Return(nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 10, CartID: 7, ProductID: 5, Quantity: 3},
	}, nil)
	products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{ID: 5, Name: "紅茶", Price: decimal.RequireFromString("5.00")}, nil)

	resp, err := u.Increase(context.Background(), 1, 5)

	assert.NoError(t, err)
	cartItems.AssertCalled(t, "UpdateQuantity", mock.Anything, int64(10), int64(3))
	assert.Equal(t, "15.00", resp.Subtotal)
}

func TestCartUsecase_Increase_ItemNotFound(t *testing.T) {
	u, _, carts, cartItems, _ := newCartFixture()

	carts.On("LockByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(5)).
		Return(model.CartItem{}, repo.ErrNotFound)

	_, err := u.Increase(context.Background(), 1, 5)

	httpErr, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	cartItems.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_Decrease_Decrements(t *testing.T) {
	u, _, carts, cartItems, products := newCartFixture()

	carts.On("LockByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(5)).
		Return(model.CartItem{ID: 10, CartID: 7, ProductID: 5, Quantity: 3}, nil)
	cartItems.On("UpdateQuantity", mock.Anything, int64(10), int64(2)).Return(nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 10, CartID: 7, ProductID: 5, Quantity: 2},
	}, nil)
	products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{ID: 5, Name: "紅茶", Price: decimal.RequireFromString("5.00")}, nil)

	_, err := u.Decrease(context.Background(), 1, 5)

	assert.NoError(t, err)
	cartItems.AssertCalled(t, "UpdateQuantity", mock.Anything, int64(10), int64(2))
	cartItems.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

// 数量1で減らすと明細行ごと消える。数量0の行は残さない
func TestCartUsecase_Decrease_RemovesRowAtQuantityOne(t *testing.T) {
	u, _, carts, cartItems, _ := newCartFixture()

	carts.On("LockByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(5)).
		Return(model.CartItem{ID: 10, CartID: 7, ProductID: 5, Quantity: 1}, nil)
	cartItems.On("DeleteByID", mock.Anything, int64(10)).Return(nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	resp, err := u.Decrease(context.Background(), 1, 5)

	assert.NoError(t, err)
	cartItems.AssertCalled(t, "DeleteByID", mock.Anything, int64(10))
	cartItems.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, resp.Items)
}

func TestCartUsecase_Remove_DeletesRegardlessOfQuantity(t *testing.T) {
	u, _, carts, cartItems, _ := newCartFixture()

	carts.On("LockByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("FindByCartAndProduct", mock.Anything, int64(7), int64(5)).
		Return(model.CartItem{ID: 10, CartID: 7, ProductID: 5, Quantity: 4}, nil)
	cartItems.On("DeleteByID", mock.Anything, int64(10)).Return(nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	_, err := u.Remove(context.Background(), 1, 5)

	assert.NoError(t, err)
	cartItems.AssertCalled(t, "DeleteByID", mock.Anything, int64(10))
}

func TestCartUsecase_Remove_NoCart(t *testing.T) {
	u, _, carts, _, _ := newCartFixture()

	carts.On("LockByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := u.Remove(context.Background(), 1, 5)

	httpErr, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

// 明細の税込表示は行ごとに丸め、集計は合計してから丸める
func TestCartUsecase_GetCart_LineDisplayRounding(t *testing.T) {
	u, _, carts, cartItems, products := newCartFixture()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 10, CartID: 7, ProductID: 5, Quantity: 3},
	}, nil)
	products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{ID: 5, Name: "飴", Price: decimal.RequireFromString("0.33")}, nil)

	resp, err := u.GetCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, "0.03", resp.Items[0].Tax)
	assert.Equal(t, "0.36", resp.Items[0].PriceInclTax)
	assert.Equal(t, "1.08", resp.Items[0].SubtotalInclTax)
	// 集計側は 0.99 + 0.099 を丸めて 1.09
	assert.Equal(t, "0.99", resp.Subtotal)
	assert.Equal(t, "0.10", resp.Tax)
	assert.Equal(t, "1.09", resp.Total)
}

// 商品読み込みの失敗はカートを黙って痩せさせずエラーとして返す
func TestCartUsecase_GetCart_ProductLookupFailure(t *testing.T) {
	u, _, carts, cartItems, products := newCartFixture()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 10, CartID: 7, ProductID: 5, Quantity: 2},
	}, nil)
	products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{}, errors.New("db connection lost"))

	_, err := u.GetCart(context.Background(), 1)

	httpErr, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

// 同時削除された商品の明細だけは落とし、残りは普通に集計する
func TestCartUsecase_GetCart_SkipsConcurrentlyDeletedProduct(t *testing.T) {
	u, _, carts, cartItems, products := newCartFixture()

	carts.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 7, UserID: 1}, nil)
	cartItems.On("ListByCartID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 10, CartID: 7, ProductID: 5, Quantity: 2},
		{ID: 11, CartID: 7, ProductID: 6, Quantity: 1},
	}, nil)
	products.On("FindByID", mock.Anything, int64(5)).Return(model.Product{}, repo.ErrNotFound)
	products.On("FindByID", mock.Anything, int64(6)).
		Return(model.Product{ID: 6, Name: "紅茶", Price: decimal.RequireFromString("5.00")}, nil)

	resp, err := u.GetCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, int64(6), resp.Items[0].ProductID)
	assert.Equal(t, "5.00", resp.Subtotal)
}
