package handlers

import (
	"errors"
	"time"

	"evmarket/internal/models"
	"evmarket/internal/services/auction"
	"evmarket/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type AuctionHandler struct {
	auctionService auction.Service
}

func NewAuctionHandler(auctionService auction.Service) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService}
}

func (h *AuctionHandler) CreateAuction(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		AssetType    string          `json:"asset_type"`
		AssetID      uint            `json:"asset_id"`
		Title        string          `json:"title"`
		Description  string          `json:"description"`
		StartPrice   decimal.Decimal `json:"start_price"`
		MinIncrement decimal.Decimal `json:"min_increment"`
		DepositRate  decimal.Decimal `json:"deposit_rate"`
		StartTime    time.Time       `json:"start_time"`
		EndTime      time.Time       `json:"end_time"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	created, err := h.auctionService.Create(c.Context(), auction.CreateRequest{
		Actor:        auction.Actor{ID: claims.UserID, Role: claims.Role},
		Asset:        models.AssetRef{AssetType: input.AssetType, AssetID: input.AssetID},
		Title:        input.Title,
		Description:  input.Description,
		StartPrice:   input.StartPrice,
		MinIncrement: input.MinIncrement,
		DepositRate:  input.DepositRate,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
	})
	if err != nil {
		return mapAuctionError(c, err)
	}
	return utils.Created(c, fiber.Map{"auction": created})
}

func (h *AuctionHandler) GetAuction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid auction id")
	}

	found, err := h.auctionService.Get(c.Context(), uint(id))
	if err != nil {
		return mapAuctionError(c, err)
	}
	return utils.Success(c, fiber.Map{"auction": found})
}

func (h *AuctionHandler) ListAuctions(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	auctions, err := h.auctionService.List(c.Context(), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to list auctions")
	}
	return utils.Success(c, fiber.Map{"auctions": auctions})
}

func (h *AuctionHandler) ListBids(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid auction id")
	}

	bids, err := h.auctionService.ListBids(c.Context(), uint(id))
	if err != nil {
		return mapAuctionError(c, err)
	}
	return utils.Success(c, fiber.Map{"bids": bids})
}

func (h *AuctionHandler) PlaceBid(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid auction id")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	bid, err := h.auctionService.PlaceBid(c.Context(), auction.BidRequest{
		AuctionID:  uint(id),
		Bidder:     auction.Actor{ID: claims.UserID, Role: claims.Role},
		BidderName: claims.Email,
		Amount:     input.Amount,
	})
	if err != nil {
		return mapAuctionError(c, err)
	}
	return utils.Created(c, fiber.Map{"bid": bid})
}

func (h *AuctionHandler) CancelAuction(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid auction id")
	}

	if err := h.auctionService.Cancel(c.Context(), uint(id), auction.Actor{ID: claims.UserID, Role: claims.Role}); err != nil {
		return mapAuctionError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "auction canceled"})
}

func mapAuctionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auction.ErrAuctionNotFound):
		return utils.NotFound(c, "auction not found")
	case errors.Is(err, auction.ErrInvalidState):
		return utils.Conflict(c, "auction is not in a valid state for this operation")
	case errors.Is(err, auction.ErrForbidden):
		return utils.Forbidden(c, "operation not permitted")
	case errors.Is(err, auction.ErrBelowMinimum):
		return utils.UnprocessableEntity(c, "bid is below the minimum acceptable amount")
	case errors.Is(err, auction.ErrWalletMissing):
		return utils.UnprocessableEntity(c, "bidder has no wallet")
	case errors.Is(err, auction.ErrInsufficientFunds):
		return utils.UnprocessableEntity(c, "insufficient available balance for the required deposit")
	case errors.Is(err, auction.ErrInvalidSchedule), errors.Is(err, auction.ErrInvalidPricing), errors.Is(err, auction.ErrInvalidAsset):
		return utils.BadRequest(c, err.Error())
	default:
		return utils.InternalError(c, "internal error")
	}
}
