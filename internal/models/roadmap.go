package models

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// Roadmap is an owned learning-path graph.
// NodesData and EdgesData hold the JSON snapshot written alongside the Node and Edge rows.
type Roadmap struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	PublicID    string       `gorm:"size:32;not null;uniqueIndex" json:"publicId"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	CategoryID  *uint        `gorm:"index" json:"categoryId"`
	SkillID     *uint        `gorm:"index" json:"skillId"`
	UserID      uint         `gorm:"not null;index" json:"userId"`
	NodesData   *Text        `json:"nodesData"`
	EdgesData   *Text        `json:"edgesData"`
	Category    *Category    `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Skill       *Skill       `gorm:"constraint:OnDelete:SET NULL" json:"skill,omitempty"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Nodes       []Node       `gorm:"constraint:OnDelete:CASCADE" json:"nodes,omitempty"`
	Edges       []Edge       `gorm:"constraint:OnDelete:CASCADE" json:"edges,omitempty"`
	Tags        []RoadmapTag `gorm:"constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// BeforeCreate assigns the public share id
func (r *Roadmap) BeforeCreate(tx *gorm.DB) error {
	if r.PublicID != "" {
		return nil
	}
	id, err := gonanoid.New()
	if err != nil {
		return err
	}
	r.PublicID = id
	return nil
}

// RoadmapTag joins a roadmap to a tag. The pair is the primary key.
type RoadmapTag struct {
	RoadmapID uint      `gorm:"primaryKey;autoIncrement:false" json:"roadmapId"`
	TagID     uint      `gorm:"primaryKey;autoIncrement:false" json:"tagId"`
	Tag       *Tag      `gorm:"constraint:OnDelete:CASCADE" json:"tag,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Node is a graph vertex. NodeIdentifier is the client's stable id and is unique per roadmap.
type Node struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	NodeIdentifier string    `gorm:"size:191;not null;uniqueIndex:idx_nodes_roadmap_identifier,priority:2" json:"nodeIdentifier"`
	Type           string    `gorm:"size:64" json:"type,omitempty"`
	RoadmapID      uint      `gorm:"not null;uniqueIndex:idx_nodes_roadmap_identifier,priority:1" json:"roadmapId"`
	CourseID       *uint     `gorm:"index" json:"courseId"`
	Course         *Course   `gorm:"constraint:OnDelete:SET NULL" json:"course"`
	PositionX      float64   `gorm:"not null;default:0" json:"positionX"`
	PositionY      float64   `gorm:"not null;default:0" json:"positionY"`
	Data           Text      `json:"data"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Edge connects two nodes of the same roadmap by NodeIdentifier.
type Edge struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EdgeIdentifier string    `gorm:"size:191;not null;uniqueIndex:idx_edges_roadmap_identifier,priority:2" json:"edgeIdentifier"`
	Source         string    `gorm:"size:191;not null" json:"source"`
	Target         string    `gorm:"size:191;not null" json:"target"`
	SourceHandle   string    `gorm:"size:191" json:"sourceHandle"`
	TargetHandle   string    `gorm:"size:191" json:"targetHandle"`
	Type           string    `gorm:"size:64" json:"type"`
	Animated       bool      `gorm:"not null;default:false" json:"animated"`
	Style          Text      `json:"style"`
	RoadmapID      uint      `gorm:"not null;uniqueIndex:idx_edges_roadmap_identifier,priority:1" json:"roadmapId"`
	Data           Text      `json:"data"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
