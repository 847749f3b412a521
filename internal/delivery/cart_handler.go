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

type CartHandler struct {
	useCase domain.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc domain.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes expects router to already enforce authentication.
func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	items := router.Group("/cart-items")
	{
		items.GET("", h.GetCart)
		items.POST("", h.AddItem)
		items.PATCH("/:id", h.UpdateItem)
		items.DELETE("/:id", h.RemoveItem)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.useCase.GetCart(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var input domain.AddCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		h.log.Warnf("Failed to bind JSON for add cart item: %v", err)
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.useCase.AddItem(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Infof("Cart item created successfully: ID %d", item.ID)
	c.JSON(http.StatusCreated, newCartItemResponse(*item))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "cart item")
	if !ok {
		return
	}

	var input domain.UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		h.log.Warnf("Failed to bind JSON for update cart item ID %d: %v", id, err)
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.useCase.UpdateItemQuantity(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Infof("Cart item updated successfully: ID %d", item.ID)
	c.JSON(http.StatusOK, newCartItemResponse(*item))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "cart item")
	if !ok {
		return
	}

	if err := h.useCase.RemoveItem(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Infof("Cart item deleted successfully: ID %d", id)
	c.Status(http.StatusNoContent)
}

// parseID reads the :id path parameter and answers 400 itself when it is not
// a positive integer.
func parseID(c *gin.Context, what string) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+what+" ID format")
		return 0, false
	}
	return id, true
}
