package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/ericleon/storefront/internal/domain"
	"github.com/ericleon/storefront/internal/service/catalog"
	"github.com/ericleon/storefront/internal/service/orders"
)

// Handler связывает HTTP-границу с сервисами каталога и заказов.
// Чтение заказов идёт мимо движка, напрямую через read-модель.
type Handler struct {
	catalog *catalog.Service
	engine  *orders.Engine
	orders  domain.OrderRepository
	logger  *log.Entry
}

// NewRouter собирает echo-приложение: маршруты, маппинг доменных ошибок
// в HTTP-статусы и журналирование запросов.
func NewRouter(
	catalogSvc *catalog.Service,
	engine *orders.Engine,
	orderRepo domain.OrderRepository,
	logger *log.Entry,
) *echo.Echo {
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = newHTTPErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(requestLogging(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	h := &Handler{
		catalog: catalogSvc,
		engine:  engine,
		orders:  orderRepo,
		logger:  logger,
	}

	e.GET("/products", h.GetProducts)
	e.POST("/products", h.PostProduct)
	e.GET("/products/:id", h.GetProduct)
	e.PATCH("/products/:id", h.PatchProduct)

	e.GET("/orders", h.GetOrders)
	e.POST("/orders", h.PostOrder)
	e.GET("/orders/:id", h.GetOrder)

	return e
}
