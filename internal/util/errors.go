package util

import "errors"

var (
	ErrObjectNotFound  = errors.New("对象不存在")
	ErrInvalidCategory = errors.New("无效的分类")
	ErrEmptyContent    = errors.New("内容为空")
	ErrInvalidPassword = errors.New("密码错误")
	ErrMissingColumns  = errors.New("缺少必要字段")
	ErrFileTooLarge    = errors.New("文件过大")
	ErrInvalidFileType = errors.New("不支持的文件类型")
	ErrNoCSVFiles      = errors.New("未找到任何 CSV 文件")
	ErrReviewNotFound  = errors.New("review not found")
)

// 外部依赖失败时写入结果的可见标记
const (
	MarkerAIParseFailed  = "❌ AI 解析失败: "
	MarkerReviewFailed   = "❌ 批阅失败："
	MarkerOptimizeFailed = "❌ 优化失败："
)
