package util

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON 从模型输出中截取第一个 open 到最后一个 closing 之间的内容并解析，
// 兼容 ```json 包裹和前后多余的说明文字
func ParseJSON[T any](response string, open, closing byte) (T, error) {
	var zero T

	start := strings.IndexByte(response, open)
	end := strings.LastIndexByte(response, closing)
	if start == -1 || end == -1 || end < start {
		return zero, fmt.Errorf("no JSON found in response (missing '%c')", open)
	}

	var out T
	if err := json.Unmarshal([]byte(response[start:end+1]), &out); err != nil {
		return zero, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return out, nil
}
