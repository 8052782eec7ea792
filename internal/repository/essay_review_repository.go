package repository

import (
	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type EssayReviewRepository struct {
	DB *gorm.DB
}

func NewEssayReviewRepository(db *gorm.DB) *EssayReviewRepository {
	return &EssayReviewRepository{DB: db}
}

func (r *EssayReviewRepository) Create(review *model.EssayReview) error {
	return r.DB.Create(review).Error
}

func (r *EssayReviewRepository) FindByID(id uint) (*model.EssayReview, error) {
	var review model.EssayReview
	err := r.DB.First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *EssayReviewRepository) FindBySession(sessionID string, limit int) ([]model.EssayReview, error) {
	var reviews []model.EssayReview
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}
