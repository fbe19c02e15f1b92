package models

import "time"

// User is an account that can own roadmaps and track progress
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email      string    `gorm:"size:191;not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	IsAdmin    bool      `gorm:"not null;default:false" json:"isAdmin"`
	IsDisabled bool      `gorm:"not null;default:false" json:"isDisabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
