package wallet

import "time"

// Cache keys and durations
const (
	WalletCachePrefix = "wallet:"
	CacheDuration     = 5 * time.Minute
)

// History pagination bounds
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)
