// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and groups routes
// by functionality with the appropriate middleware.
package routes

import (
	"evmarket/internal/handlers"
	"evmarket/internal/middleware"
	"evmarket/internal/repositories"
	"evmarket/internal/services/auction"
	"evmarket/internal/services/auth"
	"evmarket/internal/services/notification"
	"evmarket/internal/services/payment"
	"evmarket/internal/services/post"
	"evmarket/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Services holds the wired service layer so main can reuse it, notably
// to run the lifecycle sweeper over the same auction service the API uses.
type Services struct {
	Auth    auth.Service
	Wallet  wallet.Service
	Auction auction.Service
	Post    post.Service
	Payment payment.Service
}

// SetupRoutes configures all application routes and returns the wired
// service layer.
func SetupRoutes(app *fiber.App, db *gorm.DB) *Services {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	auctionRepo := repositories.NewAuctionRepository(db)
	postRepo := repositories.NewPostRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	feeRepo := repositories.NewFeeRepository(db)
	cache := repositories.NewRedisCache(repositories.RedisClient)

	// Services
	authService := auth.NewService(userRepo)
	walletService := wallet.NewService(walletRepo, cache, &wallet.NoopMetricsCollector{})
	publisher := notification.NewRedisPublisher(repositories.RedisClient, notification.DefaultBidChannel)
	auctionService := auction.NewService(auctionRepo, publisher)
	postService := post.NewService(postRepo, feeRepo, walletService)
	paymentService := payment.NewService(paymentRepo, walletService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService)
	auctionHandler := handlers.NewAuctionHandler(auctionService)
	postHandler := handlers.NewPostHandler(postService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)

	// Authenticated endpoints
	protected := api.Use(middleware.Auth())
	protected.Post("/logout", authHandler.Logout)

	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Get("/transactions", walletHandler.GetTransactionHistory)
	walletGroup.Get("/holds/:auctionId", walletHandler.GetHeldAmount)
	walletGroup.Post("/topup", paymentHandler.CreateTopUp)
	walletGroup.Post("/topup/:reference/confirm", paymentHandler.ConfirmTopUp)

	auctionGroup := protected.Group("/auctions")
	auctionGroup.Get("/", auctionHandler.ListAuctions)
	auctionGroup.Get("/:id", auctionHandler.GetAuction)
	auctionGroup.Get("/:id/bids", auctionHandler.ListBids)
	auctionGroup.Post("/:id/bids", auctionHandler.PlaceBid)

	postGroup := protected.Group("/posts")
	postGroup.Get("/", postHandler.ListPosts)
	postGroup.Post("/", postHandler.CreatePost)
	postGroup.Get("/:id", postHandler.GetPost)
	postGroup.Post("/:id/publish", postHandler.PublishPost)
	postGroup.Delete("/:id", postHandler.DeletePost)

	// Admin endpoints
	admin := api.Group("/admin", middleware.Auth(), middleware.AdminOnly())
	admin.Post("/auctions", auctionHandler.CreateAuction)
	admin.Post("/auctions/:id/cancel", auctionHandler.CancelAuction)

	return &Services{
		Auth:    authService,
		Wallet:  walletService,
		Auction: auctionService,
		Post:    postService,
		Payment: paymentService,
	}
}
