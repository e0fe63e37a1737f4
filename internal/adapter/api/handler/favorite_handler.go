package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/yohan201609-oss/El-ventorrillo/internal/usecase"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/response"
)

type FavoriteHandler struct {
	favoriteUseCase *usecase.FavoriteUseCase
}

func NewFavoriteHandler(favoriteUseCase *usecase.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUseCase: favoriteUseCase,
	}
}

func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.favoriteUseCase.AddFavorite(c.Request().Context(), userID, c.Param("productId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Product saved",
	})
}

func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.favoriteUseCase.RemoveFavorite(c.Request().Context(), userID, c.Param("productId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Product removed from saved",
	})
}

func (h *FavoriteHandler) IsFavorite(c echo.Context) error {
	userID := c.Get("uid").(string)

	saved, err := h.favoriteUseCase.IsFavorite(c.Request().Context(), userID, c.Param("productId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{
		"saved": saved,
	})
}

func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	userID := c.Get("uid").(string)

	products, err := h.favoriteUseCase.ListFavorites(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}
