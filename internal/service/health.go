package service

import (
	"strings"
	"time"

	"PulseSync/internal/model"
)

// negativeKeywords 周报正文里的负面信号词，命中任意一个直接判RED
var negativeKeywords = []string{"blocker", "delay", "issue", "problem", "stuck", "blocked"}

// 健康度时间阈值：距最新周报≤2天GREEN，≤5天YELLOW，否则RED
const (
	healthGreenMaxDays  = 2
	healthYellowMaxDays = 5
)

// ClassifyHealth 项目健康度判定，纯函数。
// 规则按优先级：从未有周报判RED；正文含负面词判RED（不看时效）；
// 其余按整天数（向下取整）分档。同样输入同样now必得同样结果
func ClassifyHealth(latest *model.Update, now time.Time) model.HealthStatus {
	if latest == nil {
		return model.HealthRed
	}
	if ContainsNegativeSignal(latest.Text) {
		return model.HealthRed
	}
	days := DaysBetween(latest.CreatedAt, now)
	switch {
	case days <= healthGreenMaxDays:
		return model.HealthGreen
	case days <= healthYellowMaxDays:
		return model.HealthYellow
	default:
		return model.HealthRed
	}
}

// ContainsNegativeSignal 大小写不敏感的子串匹配
func ContainsNegativeSignal(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DaysBetween from到now经过的整天数
func DaysBetween(from, now time.Time) int {
	return int(now.Sub(from) / (24 * time.Hour))
}
