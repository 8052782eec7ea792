package repository

import (
	"civilpass_backend/internal/model"

	"gorm.io/gorm"
)

type QARepository struct {
	DB *gorm.DB
}

func NewQARepository(db *gorm.DB) *QARepository {
	return &QARepository{DB: db}
}

func (r *QARepository) Create(record *model.QARecord) error {
	return r.DB.Create(record).Error
}

func (r *QARepository) FindBySession(sessionID string, limit int) ([]model.QARecord, error) {
	var records []model.QARecord
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *QARepository) DeleteBySession(sessionID string) error {
	return r.DB.Where("session_id = ?", sessionID).Delete(&model.QARecord{}).Error
}
