package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ericleon/storefront/internal/domain"
)

type orderLineRequest struct {
	ProductID int64 `json:"product_id"`
	Qty       int32 `json:"qty"`
}

type createOrderRequest struct {
	Items []orderLineRequest `json:"items"`
}

type orderItemResponse struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	SKU             string `json:"sku"`
	Qty             int32  `json:"qty"`
	PriceAtPurchase int64  `json:"price_at_purchase"`
}

type orderResponse struct {
	ID         int64               `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []orderItemResponse `json:"items"`
	TotalCents int64               `json:"total_cents"`
	ItemCount  int                 `json:"item_count"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			SKU:             item.SKU,
			Qty:             item.Qty,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return orderResponse{
		ID:         order.ID,
		CreatedAt:  order.CreatedAt,
		Items:      items,
		TotalCents: order.TotalCents(),
		ItemCount:  order.ItemCount(),
	}
}

// PostOrder проводит заказ через транзакционный движок. Цены клиент не
// присылает: они замораживаются на сервере в момент оформления.
func (h *Handler) PostOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON payload"}
	}

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Qty: item.Qty})
	}

	order, err := h.engine.CreateOrder(c.Request().Context(), lines)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) GetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.orders.GetWithItems(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *Handler) GetOrders(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	orders, err := h.orders.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	response := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		response = append(response, toOrderResponse(order))
	}
	return c.JSON(http.StatusOK, response)
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
