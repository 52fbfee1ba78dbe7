// Seeds the administrative account and the default fee schedule.
package main

import (
	"log"
	"os"

	"evmarket/internal/config"
	"evmarket/internal/models"
	"evmarket/internal/repositories"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.RedisClient != nil {
			if err := repositories.RedisClient.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedFeeSchedule()

	var existingAdmin models.User
	if result := repositories.DB.Where("email = ?", adminEmail).First(&existingAdmin); result.Error == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := &models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Phone:        adminPhone,
		Name:         "Administrator",
		Role:         models.RoleAdmin,
		TokenVersion: 1,
	}

	userRepo := repositories.NewUserRepository(repositories.DB)
	if err := userRepo.CreateWithWallet(adminUser); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin account created successfully")
}

func seedFeeSchedule() {
	var existing models.FeeConfig
	if result := repositories.DB.Where("fee_type = ?", models.FeeTypePostPublish).First(&existing); result.Error == nil {
		return
	}

	amount, err := decimal.NewFromString(config.GetEnv("POST_PUBLISH_FEE", "5.00"))
	if err != nil {
		log.Fatal("Invalid POST_PUBLISH_FEE:", err)
	}

	fee := models.FeeConfig{
		FeeType: models.FeeTypePostPublish,
		Amount:  amount,
		Enabled: true,
	}
	if err := repositories.DB.Create(&fee).Error; err != nil {
		log.Fatal("Failed to seed fee schedule:", err)
	}
	log.Println("Fee schedule seeded")
}
