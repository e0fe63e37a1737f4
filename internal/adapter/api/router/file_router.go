package router

import (
	"github.com/labstack/echo/v4"

	"github.com/yohan201609-oss/El-ventorrillo/internal/adapter/api/handler"
	"github.com/yohan201609-oss/El-ventorrillo/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)
	files.POST("/images", fileHandler.UploadImages)
	files.GET("", fileHandler.ListUserFiles)
	files.DELETE("/:id", fileHandler.DeleteFile)
}
