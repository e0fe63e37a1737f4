package router

import (
	"github.com/labstack/echo/v4"

	"github.com/yohan201609-oss/El-ventorrillo/internal/adapter/api/handler"
	"github.com/yohan201609-oss/El-ventorrillo/internal/adapter/api/middleware"
)

func SetupFavoriteRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	favoriteHandler := handler.GetFavoriteHandler()

	favorites := e.Group("/v1/favorites")
	favorites.Use(authMiddleware.Authenticate)
	favorites.GET("", favoriteHandler.ListFavorites)
	favorites.PUT("/:productId", favoriteHandler.AddFavorite)
	favorites.DELETE("/:productId", favoriteHandler.RemoveFavorite)
	favorites.GET("/:productId", favoriteHandler.IsFavorite)
}
