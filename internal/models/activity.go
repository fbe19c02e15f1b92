package models

import "time"

// Favorite marks a roadmap as bookmarked by a user. One per (user, roadmap).
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_roadmap,priority:1" json:"userId"`
	RoadmapID uint      `gorm:"not null;uniqueIndex:idx_favorites_user_roadmap,priority:2" json:"roadmapId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Roadmap   *Roadmap  `gorm:"constraint:OnDelete:CASCADE" json:"roadmap,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Notification is a message addressed to a user, optionally about a roadmap.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	RoadmapID *uint     `gorm:"index" json:"roadmapId"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:50;not null;default:info" json:"type"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Roadmap   *Roadmap  `gorm:"constraint:OnDelete:SET NULL" json:"roadmap,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserProgress tracks a user's completion of a course. One per (user, course).
type UserProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_progress_user_course,priority:1" json:"userId"`
	CourseID    uint       `gorm:"not null;uniqueIndex:idx_user_progress_user_course,priority:2" json:"courseId"`
	Progress    int        `gorm:"not null;default:0" json:"progress"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Notes       *string    `gorm:"type:text" json:"notes"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Course      *Course    `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName overrides the table name for UserProgress
func (UserProgress) TableName() string {
	return "user_progress"
}
