package model

// Vertical 项目所属业务赛道枚举
type Vertical string

const (
	VerticalCrypto   Vertical = "CRYPTO"
	VerticalApp      Vertical = "APP"
	VerticalCommerce Vertical = "COMMERCE"
)

// ValidVertical 校验赛道取值是否合法
func ValidVertical(v string) bool {
	switch Vertical(v) {
	case VerticalCrypto, VerticalApp, VerticalCommerce:
		return true
	}
	return false
}

// HealthStatus 项目健康度红绿灯枚举
type HealthStatus string

const (
	HealthGreen  HealthStatus = "GREEN"
	HealthYellow HealthStatus = "YELLOW"
	HealthRed    HealthStatus = "RED"
)

// IngestOutcome 单条事件摄入结果枚举
type IngestOutcome string

const (
	OutcomeStored   IngestOutcome = "stored"   // 成功落库一条Update
	OutcomeSkipped  IngestOutcome = "skipped"  // 频道未绑定项目，静默丢弃
	OutcomeRejected IngestOutcome = "rejected" // 时间戳不可解析，拒绝本条事件
	OutcomeFailed   IngestOutcome = "failed"   // 存储层错误
)

// IngestSource 事件来源枚举
type IngestSource string

const (
	SourceSlack  IngestSource = "slack"  // Slack事件回调
	SourceWeekly IngestSource = "weekly" // 周报提交接口
)
