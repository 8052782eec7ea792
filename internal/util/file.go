package util

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"
)

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/", "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, fmt.Errorf("%w: %s", ErrInvalidFileType, mimeType)
}

// Ext 小写扩展名，带点
func Ext(name string) string {
	return strings.ToLower(path.Ext(name))
}

func HasExt(name string, exts []string) bool {
	e := Ext(name)
	for _, x := range exts {
		if e == x {
			return true
		}
	}
	return false
}

// ContentTypeFor 根据扩展名推断 Content-Type，未知类型为 octet-stream
func ContentTypeFor(name string) string {
	if ct, ok := ContentTypeByExt[Ext(name)]; ok {
		return ct
	}
	return MimeOctetStream
}

// TimestampedKey 生成 "<prefix>/<unix>_<name>"，文件名中的空格替换为下划线
func TimestampedKey(prefix, filename string, now time.Time) string {
	name := strings.ReplaceAll(path.Base(filename), " ", "_")
	return fmt.Sprintf("%s/%d_%s", strings.TrimSuffix(prefix, "/"), now.Unix(), name)
}

var timestampPrefix = regexp.MustCompile(`^\d+_`)

// DisplayName 去掉目录与时间戳前缀
func DisplayName(key string) string {
	return timestampPrefix.ReplaceAllString(path.Base(key), "")
}
