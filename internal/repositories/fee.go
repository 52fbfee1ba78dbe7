package repositories

import (
	"errors"
	"fmt"

	"evmarket/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrFeeNotConfigured = errors.New("fee not configured")

// FeeRepository is the read-only fee schedule lookup.
type FeeRepository interface {
	GetAmount(feeType string) (decimal.Decimal, error)
}

type feeRepository struct {
	db *gorm.DB
}

func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) GetAmount(feeType string) (decimal.Decimal, error) {
	var fee models.FeeConfig
	err := r.db.Where("fee_type = ? AND enabled = ?", feeType, true).First(&fee).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, ErrFeeNotConfigured
		}
		return decimal.Zero, fmt.Errorf("failed to get fee: %w", err)
	}
	return fee.Amount, nil
}
