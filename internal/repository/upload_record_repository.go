package repository

import (
	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"

	"gorm.io/gorm"
)

type UploadRecordRepository struct {
	DB *gorm.DB
}

func NewUploadRecordRepository(db *gorm.DB) *UploadRecordRepository {
	return &UploadRecordRepository{DB: db}
}

func (r *UploadRecordRepository) Create(record *model.UploadRecord) error {
	return r.DB.Create(record).Error
}

func (r *UploadRecordRepository) CreateBatch(records []model.UploadRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.DB.Create(&records).Error
}

func (r *UploadRecordRepository) FindByStatus(status model.UploadStatus) ([]model.UploadRecord, error) {
	var records []model.UploadRecord
	err := r.DB.Where("status = ?", status).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *UploadRecordRepository) UpdateStatus(id uint, status model.UploadStatus) error {
	res := r.DB.Model(&model.UploadRecord{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrObjectNotFound
	}
	return nil
}

func (r *UploadRecordRepository) CountByCategory(category string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UploadRecord{}).Where("category = ?", category).Count(&count).Error
	return count, err
}
