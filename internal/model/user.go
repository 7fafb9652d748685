package model

import "time"

// User represents a registered referrer.
type User struct {
	ID           string    `json:"id" bson:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" bson:"password_hash" gorm:"size:255;not null"` // Never expose in JSON
	FullName     string    `json:"full_name" bson:"full_name" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Public returns a copy of the user without credentials.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp
}
