package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ericleon/storefront/internal/domain"
	"github.com/ericleon/storefront/internal/service/catalog"
)

type createProductRequest struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	PriceCents int64  `json:"price_cents"`
	StockQty   int32  `json:"stock_qty"`
}

type updateProductRequest struct {
	PriceCents *int64 `json:"price_cents"`
	StockQty   *int32 `json:"stock_qty"`
}

type productResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	PriceCents int64     `json:"price_cents"`
	StockQty   int32     `json:"stock_qty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:         product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		PriceCents: product.PriceCents,
		StockQty:   product.StockQty,
		CreatedAt:  product.CreatedAt,
	}
}

// GetProducts возвращает каталог с опциональным поиском и сортировкой.
func (h *Handler) GetProducts(c echo.Context) error {
	products, err := h.catalog.List(c.Request().Context(), catalog.ListQuery{
		Search:    c.QueryParam("search"),
		Sort:      c.QueryParam("sort"),
		Direction: c.QueryParam("direction"),
	})
	if err != nil {
		return err
	}

	response := make([]productResponse, 0, len(products))
	for _, product := range products {
		response = append(response, toProductResponse(product))
	}
	return c.JSON(http.StatusOK, response)
}

func (h *Handler) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	product, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *Handler) PostProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON payload"}
	}

	product, err := h.catalog.Create(c.Request().Context(), catalog.CreateInput{
		Name:       req.Name,
		SKU:        req.SKU,
		PriceCents: req.PriceCents,
		StockQty:   req.StockQty,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *Handler) PatchProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON payload"}
	}

	product, err := h.catalog.Update(c.Request().Context(), id, domain.ProductPatch{
		PriceCents: req.PriceCents,
		StockQty:   req.StockQty,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}
