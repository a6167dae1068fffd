package model

import "time"

// User is a panel account. PasswordHash and Salt are hex encoded.
type User struct {
	Username     string
	PasswordHash string
	Salt         string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
