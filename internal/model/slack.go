package model

// SlackEnvelope Slack事件回调的外层信封。按 type 字段判别形态：
// url_verification 只带 challenge；event_callback 带内层 Event
type SlackEnvelope struct {
	Type      string          `json:"type"`      // url_verification / event_callback
	Challenge string          `json:"challenge"` // URL校验握手用
	Event     SlackInnerEvent `json:"event"`     // 内层事件（event_callback时有效）
}

// SlackInnerEvent event_callback 的内层事件结构
type SlackInnerEvent struct {
	Type    string `json:"type"`    // 事件类型，只处理 message
	Channel string `json:"channel"` // 频道ID
	User    string `json:"user"`    // 外部用户ID
	Text    string `json:"text"`    // 消息正文
	Ts      string `json:"ts"`      // Slack风格时间戳（Unix秒，可带小数）
}

// WeeklyUpdatePayload 周报提交接口的请求体（字段名沿用上游表单）
type WeeklyUpdatePayload struct {
	UserID          string `json:"user_id"`           // 外部用户ID
	UserName        string `json:"user_name"`         // 展示名，可空
	ProfileImageURL string `json:"profile_image_url"` // 头像地址，可空
	ChannelID       string `json:"channel_id"`        // 频道ID
	WeeklyUpdates   string `json:"weekly_updates"`    // 周报正文
	ProjectScore    string `json:"project_score"`     // 项目评分1-5，可空
	ClientScore     string `json:"client_score"`      // 客户评分1-5，可空
	Timestamp       string `json:"timestamp"`         // Unix秒或ISO-8601
}
