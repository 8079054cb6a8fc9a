package model

import "time"

// User is an account on the data service.
type User struct {
	CreatedAt     time.Time `json:"created_at"`
	Username      string    `json:"username"`
	LocalCurrency string    `json:"local_currency"`
	ID            int64     `json:"id"`
}
