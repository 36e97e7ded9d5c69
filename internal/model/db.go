package model

import (
	"time"

	"gorm.io/datatypes"
)

// Project 客户项目表。ChannelID 即绑定的 Slack 频道ID，入站事件靠它关联项目
type Project struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(64);comment:全局唯一ID"`
	Name        string    `gorm:"column:name;type:varchar(128);not null;comment:项目名称"`
	ChannelID   string    `gorm:"column:channel_id;type:varchar(64);uniqueIndex;not null;comment:绑定的Slack频道ID"`
	Vertical    Vertical  `gorm:"column:vertical;type:varchar(16);not null;comment:业务赛道：CRYPTO/APP/COMMERCE"`
	Description *string   `gorm:"column:description;type:text;comment:项目描述"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`

	// 删除项目时级联删除其全部Update
	Updates []Update `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// User 内部用户表，与外部平台用户ID一一对应
type User struct {
	ID             string    `gorm:"column:id;primaryKey;type:varchar(64);comment:全局唯一ID"`
	ExternalUserID string    `gorm:"column:external_user_id;type:varchar(64);uniqueIndex;not null;comment:外部平台用户ID"`
	Name           string    `gorm:"column:name;type:varchar(128);not null;comment:展示名"`
	AvatarURL      *string   `gorm:"column:avatar_url;type:varchar(512);comment:头像地址"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

// Update 项目周报/动态表。CreatedAt 存事件源时间戳而非入库时间，
// 迟到或回填的事件仍按真实发生时间排序
type Update struct {
	ID               string    `gorm:"column:id;primaryKey;type:varchar(64);comment:全局唯一ID"`
	ProjectID        string    `gorm:"column:project_id;type:varchar(64);not null;index:idx_project_created,priority:1;comment:所属项目ID"`
	AuthorExternalID string    `gorm:"column:author_external_id;type:varchar(64);not null;comment:作者外部用户ID"`
	AuthorName       string    `gorm:"column:author_name;type:varchar(128);not null;comment:作者名冗余快照"`
	Text             string    `gorm:"column:text;type:text;not null;comment:正文"`
	ClientScore      *int      `gorm:"column:client_score;type:smallint;comment:客户满意度评分1-5"`
	ProjectScore     *int      `gorm:"column:project_score;type:smallint;comment:项目进展评分1-5"`
	CreatedAt        time.Time `gorm:"column:created_at;type:timestamp;not null;index:idx_project_created,priority:2,sort:desc;comment:事件源时间戳"`
}

// IngestLog 摄入流水表，记录每次事件处理结果与原始报文，排障用
type IngestLog struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Source    IngestSource   `gorm:"column:source;type:varchar(16);not null;comment:事件来源：slack/weekly"`
	Outcome   IngestOutcome  `gorm:"column:outcome;type:varchar(16);not null;comment:处理结果"`
	Reason    string         `gorm:"column:reason;type:varchar(256);comment:跳过/拒绝原因"`
	ChannelID string         `gorm:"column:channel_id;type:varchar(64);comment:事件携带的频道ID"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb;comment:原始报文"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:入库时间"`
}

func (Project) TableName() string   { return "projects" }
func (User) TableName() string      { return "users" }
func (Update) TableName() string    { return "updates" }
func (IngestLog) TableName() string { return "ingest_logs" }
