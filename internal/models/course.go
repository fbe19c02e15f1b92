package models

import "time"

// Course is a unit of study. Nodes may reference one.
type Course struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Code        string     `gorm:"size:100;not null;uniqueIndex" json:"code"`
	Description string     `gorm:"type:text" json:"description"`
	Content     Text       `json:"content"`
	CategoryID  *uint      `gorm:"index" json:"categoryId"`
	SkillID     *uint      `gorm:"index" json:"skillId"`
	Category    *Category  `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Skill       *Skill     `gorm:"constraint:OnDelete:SET NULL" json:"skill,omitempty"`
	Documents   []Document `gorm:"constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Document is a reference material link owned by a course
type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URL         string    `gorm:"size:2048;not null" json:"url"`
	Description *string   `gorm:"type:text" json:"description"`
	CourseID    uint      `gorm:"not null;index" json:"courseId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
