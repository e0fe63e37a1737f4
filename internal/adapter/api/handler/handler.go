package handler

import (
	"github.com/yohan201609-oss/El-ventorrillo/internal/usecase"
)

var (
	authHandler     *AuthHandler
	userHandler     *UserHandler
	productHandler  *ProductHandler
	chatHandler     *ChatHandler
	favoriteHandler *FavoriteHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	chatUseCase *usecase.ChatUseCase,
	favoriteUseCase *usecase.FavoriteUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	favoriteHandler = NewFavoriteHandler(favoriteUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetFavoriteHandler() *FavoriteHandler {
	return favoriteHandler
}
