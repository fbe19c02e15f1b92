package services

import (
	"context"
	"errors"
	"time"

	"github.com/localnerve/roadmapdb/internal/models"
	"gorm.io/gorm"
)

// CompleteAndFavoriteInput is the body of POST /user-progress/complete-and-favorite
type CompleteAndFavoriteInput struct {
	UserID    uint
	CourseID  uint
	RoadmapID uint
}

// CompleteAndFavoriteResult carries both rows the operation touched
type CompleteAndFavoriteResult struct {
	Progress      *models.UserProgress `json:"progress"`
	Favorite      *models.Favorite     `json:"favorite,omitempty"`
	FavoriteAdded bool                 `json:"favoriteAdded"`
}

// ProgressStep identifies which half of CompleteAndFavorite failed
type ProgressStep struct {
	Step string
	Err  error
}

func (e *ProgressStep) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *ProgressStep) Unwrap() error {
	return e.Err
}

// CompleteAndFavorite marks a course completed for the user, then bookmarks the roadmap
// if it is not already a favorite. The two writes are independent: when the second
// fails the completed progress stays in place.
func CompleteAndFavorite(ctx context.Context, db *gorm.DB, in CompleteAndFavoriteInput) (*CompleteAndFavoriteResult, error) {
	db = db.WithContext(ctx)
	now := time.Now().UTC()

	var progress models.UserProgress
	err := db.Where("user_id = ? AND course_id = ?", in.UserID, in.CourseID).First(&progress).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = models.UserProgress{UserID: in.UserID, CourseID: in.CourseID}
	case err != nil:
		return nil, &ProgressStep{Step: "progress", Err: translate(err)}
	}
	progress.Completed = true
	progress.Progress = 100
	progress.CompletedAt = &now
	if err := db.Omit("User", "Course").Save(&progress).Error; err != nil {
		return nil, &ProgressStep{Step: "progress", Err: translate(err)}
	}

	result := &CompleteAndFavoriteResult{Progress: &progress}
	if in.RoadmapID == 0 {
		return result, nil
	}

	var favorite models.Favorite
	err = db.Where("user_id = ? AND roadmap_id = ?", in.UserID, in.RoadmapID).First(&favorite).Error
	switch {
	case err == nil:
		result.Favorite = &favorite
	case errors.Is(err, gorm.ErrRecordNotFound):
		favorite = models.Favorite{UserID: in.UserID, RoadmapID: in.RoadmapID}
		if err := db.Omit("User", "Roadmap").Create(&favorite).Error; err != nil {
			return result, &ProgressStep{Step: "favorite", Err: translate(err)}
		}
		result.Favorite = &favorite
		result.FavoriteAdded = true
	default:
		return result, &ProgressStep{Step: "favorite", Err: translate(err)}
	}

	return result, nil
}
