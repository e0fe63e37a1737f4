package router

import (
	"github.com/labstack/echo/v4"

	"github.com/yohan201609-oss/El-ventorrillo/internal/adapter/api/handler"
	"github.com/yohan201609-oss/El-ventorrillo/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)

	conversations.POST("", chatHandler.CreateConversation)
	conversations.GET("", chatHandler.ListConversations)
	conversations.GET("/:id", chatHandler.GetConversation)
	conversations.PUT("/:id/read", chatHandler.MarkConversationRead)
	conversations.GET("/:id/unread", chatHandler.GetUnreadCount)

	conversations.POST("/:id/messages", chatHandler.SendMessage)
	conversations.GET("/:id/messages", chatHandler.GetMessages)
}
