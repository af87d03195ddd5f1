package models

import (
	"time"

	"github.com/kova98/redditsentiment.api/enums"
)

type Account struct {
	ID            int                 `json:"id"`
	Username      string              `json:"username"`
	Status        enums.AccountStatus `json:"status"`
	Karma         int                 `json:"karma"`
	TotalPosts    int                 `json:"total_posts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastConnected *time.Time          `json:"last_connected,omitempty"`
}

type StatusResponse struct {
	Success bool                `json:"success"`
	Status  enums.AccountStatus `json:"status,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type RefreshStatsResponse struct {
	Success    bool   `json:"success"`
	Karma      int    `json:"karma"`
	TotalPosts int    `json:"total_posts"`
	Error      string `json:"error,omitempty"`
}
