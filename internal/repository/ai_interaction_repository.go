package repository

import (
	"smart_edu_backend/internal/model"

	"gorm.io/gorm"
)

type AIInteractionRepository struct {
	DB *gorm.DB
}

func NewAIInteractionRepository(db *gorm.DB) *AIInteractionRepository {
	return &AIInteractionRepository{DB: db}
}

func (r *AIInteractionRepository) Create(interaction *model.AIInteraction) error {
	return r.DB.Create(interaction).Error
}

func (r *AIInteractionRepository) ListByUser(userID uint, limit int) ([]model.AIInteraction, error) {
	var interactions []model.AIInteraction
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&interactions).Error
	return interactions, err
}
