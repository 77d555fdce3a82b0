// Package model defines the persistent entities of the taskman backend.
package model

import "time"

// User is an account holder. Password hash, session tokens and avatar bytes
// never appear in JSON responses.
type User struct {
	Id           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Age          int       `json:"age" gorm:"default:0"`
	Avatar       []byte    `json:"-"`
	Tokens       []Token   `json:"-" gorm:"foreignKey:UserId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Token is one live session. A user holds one row per logged-in device;
// row order is issuance order. Deleting the row revokes the session
// regardless of the token's signature validity.
type Token struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId    string    `json:"-" gorm:"index;not null"`
	Token     string    `json:"token" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task belongs to exactly one user. OwnerId is set on create and is part of
// every lookup filter, so tasks of other users are indistinguishable from
// missing ones.
type Task struct {
	Id          string    `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"not null"`
	Completed   bool      `json:"completed" gorm:"default:false"`
	OwnerId     string    `json:"owner" gorm:"index;not null"`
	Image       []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
