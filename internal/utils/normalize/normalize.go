package normalize

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimestamp 时间戳既不是Unix秒也不是ISO-8601
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrInvalidScore 评分不是整数
	ErrInvalidScore = errors.New("invalid score")
)

// isoLayouts ISO-8601 兼容格式，按常见程度排列
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp 把异构时间戳串归一为UTC时刻。
// 先按数字解析：成功且有限则视为Unix秒（Slack风格"1700000000.123456"也走这条路），
// 毫秒精度落库；数字解析失败再按ISO-8601解析。两者都失败返回 ErrInvalidTimestamp
func Timestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrInvalidTimestamp
	}

	// 数字形态：整数或带小数的Unix秒
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, ErrInvalidTimestamp
		}
		return time.UnixMilli(int64(math.Round(f * 1000))).UTC(), nil
	}

	// ISO形态：含日期分隔符的字符串
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// Score 把可选评分串钳制到[1,5]。空串返回nil（无评分，不静默补默认值）；
// 非整数返回 ErrInvalidScore，由调用方降级为无评分
func Score(raw string) (*int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, ErrInvalidScore
	}
	if n < 1 {
		n = 1
	}
	if n > 5 {
		n = 5
	}
	return &n, nil
}
