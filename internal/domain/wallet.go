package domain

import "time"

// DefaultWalletBalance is ₹50,000.00 in paise.
const DefaultWalletBalance int64 = 5_000_000

type Wallet struct {
	UserID    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
