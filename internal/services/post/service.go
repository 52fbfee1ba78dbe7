// Package post manages classified listings. Publishing a listing charges
// the configured fee through the shared wallet ledger.
package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evmarket/internal/models"
	"evmarket/internal/repositories"
	"evmarket/internal/services/wallet"
	"evmarket/internal/validation"

	"github.com/shopspring/decimal"
)

// Service errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidState = errors.New("post is not in a state that allows this operation")
	ErrInvalidPost  = errors.New("invalid post data")
	ErrNotOwner     = errors.New("post belongs to another user")
)

// CreateRequest carries the parameters for a new listing.
type CreateRequest struct {
	SellerID    uint
	Asset       models.AssetRef
	Title       string
	Description string
	Price       decimal.Decimal
}

// Service defines listing operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.Post, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Post, error)
	// Publish makes a draft listing visible, charging the listing fee.
	Publish(ctx context.Context, id, sellerID uint) (*models.Post, error)
	// Delete soft-deletes a listing. Published listings are archived
	// instead, so references from the ledger stay resolvable.
	Delete(ctx context.Context, id, sellerID uint) error
}

type service struct {
	repo    repositories.PostRepository
	fees    repositories.FeeRepository
	wallets wallet.Service
}

// NewService creates a new post service.
func NewService(repo repositories.PostRepository, fees repositories.FeeRepository, wallets wallet.Service) Service {
	if repo == nil {
		panic("post repository is required")
	}
	if fees == nil {
		panic("fee repository is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	return &service{repo: repo, fees: fees, wallets: wallets}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Post, error) {
	if !req.Asset.Valid() || req.Title == "" || !validation.ValidAmount(req.Price) {
		return nil, ErrInvalidPost
	}

	post := &models.Post{
		AssetRef:    req.Asset,
		SellerID:    req.SellerID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Status:      models.PostStatusDraft,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.repo.GetByID(id)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *service) List(ctx context.Context, status string, limit, offset int) ([]models.Post, error) {
	return s.repo.List(status, limit, offset)
}

func (s *service) Publish(ctx context.Context, id, sellerID uint) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if post.Status != models.PostStatusDraft {
		return nil, ErrInvalidState
	}

	fee, err := s.fees.GetAmount(models.FeeTypePostPublish)
	if err != nil && err != repositories.ErrFeeNotConfigured {
		return nil, err
	}
	if fee.IsPositive() {
		if err := s.wallets.ChargePostFee(ctx, sellerID, fee, post.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	post.Status = models.PostStatusPublished
	post.PublishedAt = &now
	if err := s.repo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to publish post: %w", err)
	}
	return post, nil
}

func (s *service) Delete(ctx context.Context, id, sellerID uint) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.SellerID != sellerID {
		return ErrNotOwner
	}
	if post.Status == models.PostStatusPublished {
		post.Status = models.PostStatusArchived
		return s.repo.Update(post)
	}
	return s.repo.Delete(id)
}
