package delivery

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"legerity_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/checkout", h.Checkout)

	orders := router.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
	}
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var input domain.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		h.log.Warnf("Failed to bind JSON for checkout: %v", err)
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.PlaceOrder(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Infof("Order placed successfully: ID %d", order.ID)
	c.JSON(http.StatusCreated, newOrderResponse(order))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "order")
	if !ok {
		return
	}

	order, err := h.useCase.GetOrder(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, offset := pageParams(c, h.log)

	orders, err := h.useCase.ListOrders(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// pageParams reads limit and offset. Unparsable values fall back to 0 and are
// normalized by the use case.
func pageParams(c *gin.Context, log *logrus.Logger) (int, int) {
	limitStr := c.Query("limit")
	offsetStr := c.Query("offset")

	limit, err := strconv.Atoi(limitStr)
	if err != nil && limitStr != "" {
		log.Warnf("Invalid limit parameter '%s', using default", limitStr)
	}
	offset, err := strconv.Atoi(offsetStr)
	if err != nil && offsetStr != "" {
		log.Warnf("Invalid offset parameter '%s', using default 0", offsetStr)
	}
	return limit, offset
}
