package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/yohan201609-oss/El-ventorrillo/internal/usecase"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updatePhotoRequest struct {
	PhotoURL string `json:"photo_url" validate:"required,url"`
}

type updateNameRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=60"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Param("id")

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateName(c echo.Context) error {
	var req updateNameRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.userUseCase.UpdateDisplayName(c.Request().Context(), userID, req.DisplayName); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Display name updated",
	})
}

func (h *UserHandler) UpdatePhoto(c echo.Context) error {
	var req updatePhotoRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.userUseCase.UpdatePhotoURL(c.Request().Context(), userID, req.PhotoURL); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Profile photo updated",
	})
}
