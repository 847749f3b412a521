package delivery

import (
	"net/http"

	"legerity_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase domain.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProductByID)
	}
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	product, err := h.useCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newProductResponse(product))
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, offset := pageParams(c, h.log)
	filter := domain.ProductFilter{
		Category: domain.Category(c.Query("category")),
		Limit:    limit,
		Offset:   offset,
	}

	products, err := h.useCase.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]*ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, newProductResponse(&products[i]))
	}
	h.log.Infof("Listed %d products", len(resp))
	c.JSON(http.StatusOK, resp)
}
