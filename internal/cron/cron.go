package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"catalog-svc/internal/service"
)

// CronManager 定时任务管理器
type CronManager struct {
	cron           *cron.Cron
	cleanupService *service.CleanupService
}

// NewCronManager 创建定时任务管理器
func NewCronManager(cleanupService *service.CleanupService) *CronManager {
	return &CronManager{
		cron:           cron.New(cron.WithLocation(time.Local)),
		cleanupService: cleanupService,
	}
}

// Start 启动定时任务
func (m *CronManager) Start() error {
	// 每小时整点回收孤儿blob
	// Cron格式: 分 时 日 月 周
	_, err := m.cron.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		log.Println("=== Starting scheduled orphan sweep ===")
		startTime := time.Now()

		if err := m.cleanupService.SweepOrphans(ctx); err != nil {
			log.Printf("Orphan sweep failed: %v", err)
		} else {
			log.Printf("Orphan sweep completed in %v", time.Since(startTime))
		}
	})
	if err != nil {
		return err
	}

	m.cron.Start()
	log.Println("Cron manager started - orphan sweep scheduled hourly")
	return nil
}

// Stop 停止定时任务
func (m *CronManager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done() // 等待所有任务完成
	log.Println("Cron manager stopped")
}

// RunSweepNow 立即执行一次回收（用于测试或手动触发）
func (m *CronManager) RunSweepNow(ctx context.Context) error {
	log.Println("Running orphan sweep immediately...")
	return m.cleanupService.SweepOrphans(ctx)
}
