package model

import "time"

// Payment はサブスクリプション支払いの記録を表す。
type Payment struct {
	ID               string
	Email            string
	Amount           float64
	SubscriptionType string
	PhoneNumber      string
	Role             string
	CreatedAt        time.Time
}
