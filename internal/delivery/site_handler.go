package delivery

import (
	"net/http"

	"legerity_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SiteHandler struct {
	useCase domain.SiteUseCase
	log     *logrus.Logger
}

func NewSiteHandler(uc domain.SiteUseCase, logger *logrus.Logger) *SiteHandler {
	return &SiteHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *SiteHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/about", h.About)
	router.GET("/reviews", h.ListReviews)
}

func (h *SiteHandler) About(c *gin.Context) {
	about, err := h.useCase.About(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, about)
}

func (h *SiteHandler) ListReviews(c *gin.Context) {
	reviews, err := h.useCase.ListReviews(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp = append(resp, ReviewResponse{Fullname: r.Fullname, Image: r.Image, Comment: r.Comment})
	}
	c.JSON(http.StatusOK, resp)
}
