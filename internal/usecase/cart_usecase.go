package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	"app/internal/domain/pricing"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// CartUsecase は /cart の業務ロジックです。
// 更新系は必ずトランザクション内でカート行をロックしてから行う。
type CartUsecase struct {
	tx           repo.TransactionManager
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:           tx,
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// CartItemResponse はカート画面の1明細。
// 税込単価と税込小計は明細ごとに独立に丸める（画面仕様）。
type CartItemResponse struct {
	ProductID       int64  `json:"product_id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	Quantity        int64  `json:"quantity"`
	Tax             string `json:"tax"`
	PriceInclTax    string `json:"price_incl_tax"`
	SubtotalInclTax string `json:"subtotal_incl_tax"`
}

// CartResponse はカート全体。集計値は pricing.Calculate の丸めに従う。
type CartResponse struct {
	Items          []CartItemResponse `json:"items"`
	Subtotal       string             `json:"subtotal"`
	Tax            string             `json:"tax"`
	Total          string             `json:"total"`
	TaxRatePercent int64              `json:"tax_rate_percent"`
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// AddItem はカートに商品を1つ追加（同一商品は数量加算）。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	// 商品チェック
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var cartID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// カート行のロックを取ってから明細を触る（チェックアウトと直列化）
		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		cartID = cart.ID

		if err := r.CartItems().UpsertAddQuantity(ctx, cart.ID, productID, 1); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return CartResponse{}, err
	}

	return u.buildCartResponse(ctx, cartID)
}

// Increase は既存明細の数量を+1する。明細が無ければ404。
func (u *CartUsecase) Increase(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	return u.mutateItem(ctx, userID, productID, func(r repo.TxRepos, item model.CartItem) error {
		if err := r.CartItems().UpdateQuantity(ctx, item.ID, item.Quantity+1); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// Decrease は数量を-1する。数量1の明細は行ごと削除する（数量0の行は残さない）。
func (u *CartUsecase) Decrease(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	return u.mutateItem(ctx, userID, productID, func(r repo.TxRepos, item model.CartItem) error {
		if item.Quantity > 1 {
			if err := r.CartItems().UpdateQuantity(ctx, item.ID, item.Quantity-1); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return nil
		}
		if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// Remove は明細を無条件に削除する。明細が無ければ404。
func (u *CartUsecase) Remove(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	return u.mutateItem(ctx, userID, productID, func(r repo.TxRepos, item model.CartItem) error {
		if err := r.CartItems().DeleteByID(ctx, item.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// mutateItem は (cart, product) 明細への更新を1トランザクションで行う共通処理。
// カート行→明細行の順にロックしてから fn を適用する。
func (u *CartUsecase) mutateItem(
	ctx context.Context,
	userID int64,
	productID int64,
	fn func(r repo.TxRepos, item model.CartItem) error,
) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	var cartID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().LockByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		cartID = cart.ID

		item, err := r.CartItems().FindByCartAndProduct(ctx, cart.ID, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return fn(r, item)
	})
	if err != nil {
		return CartResponse{}, err
	}

	return u.buildCartResponse(ctx, cartID)
}

// cartIDの明細をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartItemResponse, 0, len(items))
	lines := make([]pricing.Line, 0, len(items))

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			// 同時に削除された商品の明細は表示から落とす
			continue
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		display := pricing.DisplayLine(p.Price, it.Quantity)

		respItems = append(respItems, CartItemResponse{
			ProductID:       it.ProductID,
			Name:            p.Name,
			Price:           p.Price.StringFixed(2),
			Quantity:        it.Quantity,
			Tax:             display.UnitTax.StringFixed(2),
			PriceInclTax:    display.UnitPriceInclTax.StringFixed(2),
			SubtotalInclTax: display.SubtotalInclTax.StringFixed(2),
		})

		lines = append(lines, pricing.Line{UnitPrice: p.Price, Quantity: it.Quantity})
	}

	totals := pricing.Calculate(lines)

	return CartResponse{
		Items:          respItems,
		Subtotal:       totals.Subtotal.StringFixed(2),
		Tax:            totals.Tax.StringFixed(2),
		Total:          totals.Total.StringFixed(2),
		TaxRatePercent: pricing.TaxRate.Mul(decimalHundred).IntPart(),
	}, nil
}
