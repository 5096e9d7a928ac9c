package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogUsecase はカタログ（カテゴリ・商品）の閲覧と管理。
// 価格計算コアから見るとカタログは読み取り専用。
type CatalogUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
}

// DI
func NewCatalogUsecase(
	categoryRepo repo.CategoryRepository,
	productRepo repo.ProductRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

type ProductResponse struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type ProductListOutput struct {
	Items []ProductResponse `json:"items"`
}

// ListCategories は全カテゴリを名前順で返す。
func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

// ListProducts は商品一覧（カテゴリ絞り込み付き、新着順）。
func (u *CatalogUsecase) ListProducts(ctx context.Context, categoryID *int64) (ProductListOutput, error) {
	if categoryID != nil && *categoryID <= 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category_id")
	}

	products, err := u.productRepo.List(ctx, repo.ProductListQuery{CategoryID: categoryID})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return ProductListOutput{Items: items}, nil
}

// GetProductDetail はIDで商品を1件返す。
func (u *CatalogUsecase) GetProductDetail(ctx context.Context, id int64) (ProductResponse, error) {
	if id <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProductResponse(p), nil
}

type CreateCategoryInput struct {
	Name string
}

func (u *CatalogUsecase) CreateCategory(ctx context.Context, in CreateCategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{Name: name})
	if err != nil {
		// 名前のユニーク制約に引っかかった場合を含む
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "category already exists")
	}
	return c, nil
}

// DeleteCategory はカテゴリと配下の商品・カート明細を明示的に削除する。
func (u *CatalogUsecase) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.categoryRepo.DeleteCascade(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

type CreateProductInput struct {
	CategoryID  int64
	Name        string
	Description string
	Price       string
}

func (u *CatalogUsecase) CreateProduct(ctx context.Context, in CreateProductInput) (ProductResponse, error) {
	price, err := u.validateProductInput(ctx, in)
	if err != nil {
		return ProductResponse{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       price,
	})
	if err != nil {
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProductResponse(p), nil
}

func (u *CatalogUsecase) UpdateProduct(ctx context.Context, id int64, in CreateProductInput) (ProductResponse, error) {
	if id <= 0 {
		return ProductResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	price, err := u.validateProductInput(ctx, in)
	if err != nil {
		return ProductResponse{}, err
	}

	p := model.Product{
		ID:          id,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       price,
	}
	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ProductResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProductResponse(p), nil
}

// DeleteProduct は商品と、それを参照するカート明細を削除する。
// 既存の注文明細はスナップショットなので影響を受けない。
func (u *CatalogUsecase) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.productRepo.DeleteCascade(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CatalogUsecase) validateProductInput(ctx context.Context, in CreateProductInput) (decimal.Decimal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 200 {
		return decimal.Zero, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.CategoryID <= 0 {
		return decimal.Zero, NewHTTPError(http.StatusBadRequest, "invalid category_id")
	}

	//カテゴリの存在確認
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return decimal.Zero, NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		return decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return decimal.Zero, NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if price.IsNegative() {
		return decimal.Zero, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	//保存は2桁の固定小数点
	return price.Round(2), nil
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
	}
}
