package auction

import "errors"

// Service errors
var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrInvalidState      = errors.New("auction is not in a state that allows this operation")
	ErrForbidden         = errors.New("operation not permitted for this role")
	ErrBelowMinimum      = errors.New("bid is below the minimum acceptable amount")
	ErrWalletMissing     = errors.New("bidder has no wallet")
	ErrInsufficientFunds = errors.New("insufficient available balance for the required deposit")
	ErrInvalidSchedule   = errors.New("auction start time must precede end time")
	ErrInvalidPricing    = errors.New("invalid auction pricing")
	ErrInvalidAsset      = errors.New("invalid asset reference")
)
