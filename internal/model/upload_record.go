package model

type UploadStatus string

const (
	UploadPending  UploadStatus = "pending"
	UploadApproved UploadStatus = "approved"
)

// UploadRecord 用户/管理员上传的文件记录
type UploadRecord struct {
	BaseModel
	Category    string       `gorm:"size:32;index;not null" json:"category"`
	Key         string       `gorm:"size:512;not null" json:"key"`
	URL         string       `gorm:"size:1024" json:"url"`
	Thumbnail   string       `gorm:"size:1024" json:"thumbnail,omitempty"`
	Size        int64        `json:"size"`
	ContentType string       `gorm:"size:64" json:"contentType"`
	Status      UploadStatus `gorm:"size:16;default:pending" json:"status"`
	ByAdmin     bool         `json:"byAdmin"`
}

func (UploadRecord) TableName() string {
	return "upload_records"
}
