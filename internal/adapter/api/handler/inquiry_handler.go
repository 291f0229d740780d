package handler

import (
	"github.com/labstack/echo/v4"

	"closetshop/internal/usecase"
	"closetshop/pkg/response"
)

type InquiryHandler struct {
	controller *usecase.SyncController
}

func NewInquiryHandler(controller *usecase.SyncController) *InquiryHandler {
	return &InquiryHandler{
		controller: controller,
	}
}

type submitInquiryRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Message   string `json:"message"`
	ListingID string `json:"listing_id"`
}

func (h *InquiryHandler) SubmitInquiry(c echo.Context) error {
	var req submitInquiryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	err := h.controller.SubmitInquiry(c.Request().Context(), usecase.InquiryInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		ListingID: req.ListingID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, nil)
}

func (h *InquiryHandler) ListInquiries(c echo.Context) error {
	return response.Success(c, h.controller.View().Inquiries)
}

func (h *InquiryHandler) DeleteInquiry(c echo.Context) error {
	if err := h.controller.DeleteInquiry(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, h.controller.View().Inquiries)
}
