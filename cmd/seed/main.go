package main

import (
	"log"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"

	"PulseSync/internal/config"
	"PulseSync/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// 本地演示用样例数据，跑一次即可在仪表盘看到红黄绿分布
var sampleProjects = []model.Project{
	{Name: "Coinbase Wallet", ChannelID: "C09CYDUH6QM", Vertical: model.VerticalCrypto, Description: strPtr("Next-generation crypto wallet with DeFi integration")},
	{Name: "Bolt Financial", ChannelID: "C09CYDZTV7X", Vertical: model.VerticalApp, Description: strPtr("Modern mobile banking application for Bolt Financial")},
	{Name: "Alo Fitness", ChannelID: "C09DTS9N88Y", Vertical: model.VerticalCommerce, Description: strPtr("Fitness brand that sells workout clothes")},
	{Name: "Coinsquare Marketplace", ChannelID: "C09CL759URM", Vertical: model.VerticalCrypto, Description: strPtr("Decentralized NFT trading platform")},
	{Name: "Instacart", ChannelID: "C09D517HUUC", Vertical: model.VerticalApp, Description: strPtr("On-demand food delivery mobile app")},
	{Name: "OVO", ChannelID: "C09CW419R35", Vertical: model.VerticalCommerce, Description: strPtr("Merch by October's Very Own")},
	{Name: "Skims", ChannelID: "C09CL70QHRV", Vertical: model.VerticalCommerce, Description: strPtr("Premium lingerie brand")},
}

type sampleUpdate struct {
	text     string
	daysAgo  int
	userID   string
	userName string
}

var sampleUpdates = []sampleUpdate{
	{"Completed user authentication flow and started working on wallet integration", 1, "U1234567890", "Alice Johnson"},
	{"Fixed critical security vulnerability in smart contract. All tests passing.", 2, "U2345678901", "Bob Smith"},
	{"API integration complete. Working on UI components for transaction history.", 1, "U3456789012", "Carol Davis"},
	{"Blocker: Third-party payment gateway API is down. Investigating alternatives.", 3, "U4567890123", "David Wilson"},
	{"Sprint completed successfully. All user stories delivered on time.", 1, "U5678901234", "Eve Brown"},
	{"Database migration completed. Performance improvements implemented.", 4, "U6789012345", "Frank Miller"},
	{"Issue with deployment pipeline. Working with DevOps to resolve.", 6, "U7890123456", "Grace Lee"},
	{"New feature branch created. Starting work on advanced search functionality.", 2, "U8901234567", "Henry Taylor"},
}

func strPtr(s string) *string { return &s }

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}
	logger := logrus.New()

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("连接PostgreSQL失败: %v", err)
	}
	if err := db.AutoMigrate(&model.Project{}, &model.User{}, &model.Update{}, &model.IngestLog{}); err != nil {
		logger.Fatalf("数据库表结构迁移失败: %v", err)
	}

	// 清空旧数据（外键级联，先删项目即可带走周报）
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Project{}).Error; err != nil {
		logger.Fatalf("清空项目失败: %v", err)
	}
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.User{}).Error; err != nil {
		logger.Fatalf("清空用户失败: %v", err)
	}

	// 建项目
	projects := make([]*model.Project, 0, len(sampleProjects))
	for i := range sampleProjects {
		p := sampleProjects[i]
		p.ID = uuid.NewString()
		if err := db.Create(&p).Error; err != nil {
			logger.Fatalf("写入样例项目失败: %v", err)
		}
		projects = append(projects, &p)
	}

	// 建用户 + 周报（轮流分配到各项目）
	for i, su := range sampleUpdates {
		user := model.User{
			ID:             uuid.NewString(),
			ExternalUserID: su.userID,
			Name:           su.userName,
		}
		if err := db.Create(&user).Error; err != nil {
			logger.Fatalf("写入样例用户失败: %v", err)
		}

		project := projects[i%len(projects)]
		update := model.Update{
			ID:               uuid.NewString(),
			ProjectID:        project.ID,
			AuthorExternalID: su.userID,
			AuthorName:       su.userName,
			Text:             su.text,
			CreatedAt:        time.Now().AddDate(0, 0, -su.daysAgo),
		}
		if err := db.Create(&update).Error; err != nil {
			logger.Fatalf("写入样例周报失败: %v", err)
		}
	}

	logger.Infof("样例数据写入完成：%d个项目，%d条周报", len(projects), len(sampleUpdates))
}
