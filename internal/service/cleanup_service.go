package service

import (
	"context"

	"catalog-svc/internal/repository"
	"catalog-svc/internal/storage"
	"catalog-svc/pkg/logger"
)

// 每轮清理的孤儿对象上限
const orphanSweepBatch = 100

// CleanupService 孤儿blob清理服务。补偿失败或下架时blob删除失败
// 会在orphaned_blobs留下登记，这里定期重试删除。尽力而为，
// 不提供强一致保证。
type CleanupService struct {
	orphanRepo repository.OrphanRepository
	blobStore  storage.BlobStore
	log        logger.Logger
}

// NewCleanupService 创建清理服务
func NewCleanupService(orphanRepo repository.OrphanRepository, blobStore storage.BlobStore, log logger.Logger) *CleanupService {
	if log == nil {
		log = logger.New(nil)
	}
	return &CleanupService{
		orphanRepo: orphanRepo,
		blobStore:  blobStore,
		log:        log,
	}
}

// SweepOrphans 清理一批孤儿对象。单个失败只记录尝试，不中断整轮。
func (s *CleanupService) SweepOrphans(ctx context.Context) error {
	orphans, err := s.orphanRepo.ListDue(ctx, orphanSweepBatch)
	if err != nil {
		return err
	}

	for _, orphan := range orphans {
		if err := s.blobStore.Remove(ctx, orphan.BlobKey); err != nil {
			s.log.Warn("orphan sweep delete failed",
				logger.String("blob_key", orphan.BlobKey),
				logger.Int("attempts", orphan.Attempts+1),
				logger.String("error", err.Error()),
			)
			if err := s.orphanRepo.MarkAttempt(ctx, orphan.BlobKey, err.Error()); err != nil {
				s.log.Warn("orphan attempt bookkeeping failed",
					logger.String("blob_key", orphan.BlobKey),
					logger.String("error", err.Error()),
				)
			}
			continue
		}

		if err := s.orphanRepo.Delete(ctx, orphan.BlobKey); err != nil {
			s.log.Warn("orphan record cleanup failed",
				logger.String("blob_key", orphan.BlobKey),
				logger.String("error", err.Error()),
			)
			continue
		}
		s.log.Info("orphaned blob reclaimed", logger.String("blob_key", orphan.BlobKey))
	}
	return nil
}
