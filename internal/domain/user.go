package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	FullName     string
	Email        *string
	IsActive     bool
	CreatedAt    time.Time
}
