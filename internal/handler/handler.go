package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "referrals/internal/errors"
)

// MessageResponse is a plain message body.
type MessageResponse struct {
	Message string `json:"message"`
}

// Hello godoc
// @Summary API root
// @Tags root
// @Produce json
// @Success 200 {object} MessageResponse
// @Router / [get]
func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Hello World"})
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.ToEcho(apperrors.ErrInvalidBody)
	}
	if err := c.Validate(req); err != nil {
		return apperrors.ToEcho(apperrors.New(apperrors.KindValidation, err.Error()))
	}
	return nil
}
