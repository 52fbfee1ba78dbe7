package handlers

import (
	"errors"

	"evmarket/internal/services/payment"
	"evmarket/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	paymentService payment.Service
}

func NewPaymentHandler(paymentService payment.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) CreateTopUp(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	session, err := h.paymentService.CreateTopUp(c.Context(), claims.UserID, input.Amount)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "failed to create top-up session")
	}
	return utils.Created(c, fiber.Map{"session": session})
}

func (h *PaymentHandler) ConfirmTopUp(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return utils.BadRequest(c, "payment reference is required")
	}

	if err := h.paymentService.ConfirmTopUp(c.Context(), reference); err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			return utils.NotFound(c, "payment not found")
		case errors.Is(err, payment.ErrPaymentExpired):
			return utils.Conflict(c, "payment session expired")
		}
		return utils.InternalError(c, "failed to confirm top-up")
	}
	return utils.Success(c, fiber.Map{"message": "wallet credited"})
}
