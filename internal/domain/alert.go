package domain

import "time"

// Alert is a derived advisory generated per computation. Ephemeral; consumers
// that need retention subscribe to the alert topic.
type Alert struct {
	ID       string    `json:"id"`
	Level    RiskTier  `json:"level"`
	Message  string    `json:"message"`
	Area     string    `json:"area"`
	Domain   Domain    `json:"domain"`
	IssuedAt time.Time `json:"issuedAt"`
}
