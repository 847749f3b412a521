package delivery

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth    *AuthHandler
	Site    *SiteHandler
	Product *ProductHandler
	Cart    *CartHandler
	Order   *OrderHandler
}

type RouterConfig struct {
	AllowOrigins []string
	Tokens       AccessTokenValidator
}

// NewRouter builds the gin engine with middleware and all routes. Cart,
// checkout and order routes require a bearer access token.
func NewRouter(cfg RouterConfig, handlers Handlers, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.AllowOrigins)))

	handlers.Auth.RegisterRoutes(router)
	handlers.Site.RegisterRoutes(router)
	handlers.Product.RegisterRoutes(router)

	protected := router.Group("")
	protected.Use(AuthMiddleware(cfg.Tokens, logger))
	handlers.Cart.RegisterRoutes(protected)
	handlers.Order.RegisterRoutes(protected)

	logger.Info("API Routes registered.")
	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
