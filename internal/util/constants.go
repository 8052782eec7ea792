package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
	StorageGCS   = "gcs"
)

// 对象存储中的分类前缀
const (
	CategoryXingce     = "行测"
	CategoryShenlun    = "申论"
	CategoryVideo      = "视频"
	CategoryExperience = "高分经验"
	CategoryNews       = "政策咨询"
	CategoryCalendar   = "考试日历"

	ChatImagePrefix = "civilpass/images"
	QRCodeKey       = "civilpass/qrcode/exam_calendar_qrcode.png"
)

const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

const RoleAdmin = "admin"

var (
	AllowedVideoExtensions = []string{".mp4", ".webm"}
	AllowedImageExtensions = []string{".jpg", ".jpeg", ".png"}

	// 上传时按扩展名决定 Content-Type
	ContentTypeByExt = map[string]string{
		".pdf":  MimePDF,
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".mp4":  "video/mp4",
	}
)
