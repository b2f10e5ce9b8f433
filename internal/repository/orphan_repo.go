package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OrphanRepositoryImpl 孤儿对象仓储实现
type OrphanRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewOrphanRepository 创建孤儿对象仓储
func NewOrphanRepository(db *pgxpool.Pool) OrphanRepository {
	return &OrphanRepositoryImpl{db: db}
}

// Record 登记孤儿对象。重复登记只刷新错误信息。
func (r *OrphanRepositoryImpl) Record(ctx context.Context, blobKey, reason, lastError string) error {
	query := `
		INSERT INTO orphaned_blobs (blob_key, reason, last_error, attempts, recorded_at)
		VALUES ($1, $2, $3, 0, NOW())
		ON CONFLICT (blob_key) DO UPDATE SET last_error = EXCLUDED.last_error
	`
	_, err := r.db.Exec(ctx, query, blobKey, reason, lastError)
	return err
}

// ListDue 获取待清理的孤儿对象，尝试次数少的优先
func (r *OrphanRepositoryImpl) ListDue(ctx context.Context, limit int) ([]*OrphanedBlob, error) {
	query := `
		SELECT blob_key, reason, last_error, attempts, recorded_at, last_attempt_at
		FROM orphaned_blobs
		ORDER BY attempts ASC, recorded_at ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orphans []*OrphanedBlob
	for rows.Next() {
		var o OrphanedBlob
		err := rows.Scan(
			&o.BlobKey,
			&o.Reason,
			&o.LastError,
			&o.Attempts,
			&o.RecordedAt,
			&o.LastAttemptAt,
		)
		if err != nil {
			return nil, err
		}
		orphans = append(orphans, &o)
	}
	return orphans, rows.Err()
}

// MarkAttempt 记录一次失败的清理尝试
func (r *OrphanRepositoryImpl) MarkAttempt(ctx context.Context, blobKey, lastError string) error {
	query := `
		UPDATE orphaned_blobs
		SET attempts = attempts + 1, last_error = $2, last_attempt_at = NOW()
		WHERE blob_key = $1
	`
	_, err := r.db.Exec(ctx, query, blobKey, lastError)
	return err
}

// Delete 清理成功后移除登记
func (r *OrphanRepositoryImpl) Delete(ctx context.Context, blobKey string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orphaned_blobs WHERE blob_key = $1`, blobKey)
	return err
}
