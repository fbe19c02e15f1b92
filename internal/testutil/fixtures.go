package testutil

import (
	"fmt"
	"testing"

	"github.com/localnerve/roadmapdb/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain password of every fixture user
const TestPassword = "password123"

// CreateUser creates a user whose password is TestPassword
func CreateUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: string(hash),
		IsAdmin:  admin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// CreateCategory creates a category
func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Description: name + " description"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return category
}

// CreateSkill creates a skill
func CreateSkill(t *testing.T, db *gorm.DB, name string) *models.Skill {
	t.Helper()
	skill := &models.Skill{Name: name}
	if err := db.Create(skill).Error; err != nil {
		t.Fatalf("Failed to create skill: %v", err)
	}
	return skill
}

// CreateTag creates a tag
func CreateTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}
	return tag
}

// CreateCourse creates a course with the given unique code
func CreateCourse(t *testing.T, db *gorm.DB, code string, categoryID *uint) *models.Course {
	t.Helper()
	course := &models.Course{Title: "Course " + code, Code: code, CategoryID: categoryID}
	if err := db.Omit("Category", "Skill", "Documents").Create(course).Error; err != nil {
		t.Fatalf("Failed to create course: %v", err)
	}
	return course
}

// CreateRoadmap creates an empty roadmap owned by ownerID
func CreateRoadmap(t *testing.T, db *gorm.DB, title string, ownerID uint) *models.Roadmap {
	t.Helper()
	roadmap := &models.Roadmap{Title: title, UserID: ownerID}
	if err := db.Omit("Category", "Skill", "User").Create(roadmap).Error; err != nil {
		t.Fatalf("Failed to create roadmap: %v", err)
	}
	return roadmap
}

// CreateNode inserts a node row directly, bypassing reconciliation
func CreateNode(t *testing.T, db *gorm.DB, roadmapID uint, identifier, data string) *models.Node {
	t.Helper()
	node := &models.Node{RoadmapID: roadmapID, NodeIdentifier: identifier, Data: models.Text(data)}
	if err := db.Omit("Course").Create(node).Error; err != nil {
		t.Fatalf("Failed to create node: %v", err)
	}
	return node
}

// CountRows counts rows of model matching roadmap_id
func CountRows(t *testing.T, db *gorm.DB, model interface{}, roadmapID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Where("roadmap_id = ?", roadmapID).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return count
}
