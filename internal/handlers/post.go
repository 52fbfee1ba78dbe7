package handlers

import (
	"errors"

	"evmarket/internal/models"
	"evmarket/internal/services/post"
	"evmarket/internal/services/wallet"
	"evmarket/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PostHandler struct {
	postService post.Service
}

func NewPostHandler(postService post.Service) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		AssetType   string          `json:"asset_type"`
		AssetID     uint            `json:"asset_id"`
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	created, err := h.postService.Create(c.Context(), post.CreateRequest{
		SellerID:    claims.UserID,
		Asset:       models.AssetRef{AssetType: input.AssetType, AssetID: input.AssetID},
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
	})
	if err != nil {
		return mapPostError(c, err)
	}
	return utils.Created(c, fiber.Map{"post": created})
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid post id")
	}

	found, err := h.postService.Get(c.Context(), uint(id))
	if err != nil {
		return mapPostError(c, err)
	}
	return utils.Success(c, fiber.Map{"post": found})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	posts, err := h.postService.List(c.Context(), c.Query("status", models.PostStatusPublished), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to list posts")
	}
	return utils.Success(c, fiber.Map{"posts": posts})
}

func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid post id")
	}

	published, err := h.postService.Publish(c.Context(), uint(id), claims.UserID)
	if err != nil {
		return mapPostError(c, err)
	}
	return utils.Success(c, fiber.Map{"post": published})
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid post id")
	}

	if err := h.postService.Delete(c.Context(), uint(id), claims.UserID); err != nil {
		return mapPostError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "post deleted"})
}

func mapPostError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, post.ErrPostNotFound):
		return utils.NotFound(c, "post not found")
	case errors.Is(err, post.ErrNotOwner):
		return utils.Forbidden(c, "post belongs to another user")
	case errors.Is(err, post.ErrInvalidState):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, post.ErrInvalidPost):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return utils.UnprocessableEntity(c, "insufficient balance for the listing fee")
	default:
		return utils.InternalError(c, "internal error")
	}
}
