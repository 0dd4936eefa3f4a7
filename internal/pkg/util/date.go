package util

import "time"

// ParseDate 解析 YYYY-MM-DD，统一为 UTC 零点
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}

// ParseOptionalDate 空字符串返回 nil
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate 输出 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}
