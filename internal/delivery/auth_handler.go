package delivery

import (
	"net/http"

	"legerity_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc domain.UserUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/login", h.Login)
		group.POST("/token/refresh", h.Refresh)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input domain.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.log.Warnf("Failed to bind JSON for register: %v", err)
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{ID: user.ID, Email: user.Email, Fullname: user.Fullname})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for login: %v", err)
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	pair, err := h.useCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for token refresh: %v", err)
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	access, err := h.useCase.RefreshAccessToken(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, AccessTokenResponse{Access: access})
}
