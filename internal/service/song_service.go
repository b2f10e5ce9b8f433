package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"catalog-svc/internal/cache"
	"catalog-svc/internal/domain"
	"catalog-svc/internal/repository"
	"catalog-svc/internal/storage"
	"catalog-svc/pkg/logger"

	"github.com/google/uuid"
)

// SongCache 歌曲读取缓存接口
type SongCache interface {
	Get(ctx context.Context, songID string) (*domain.Song, error)
	Set(ctx context.Context, song *domain.Song) error
	Invalidate(ctx context.Context, songID string) error
}

// UploadInput 上传请求
type UploadInput struct {
	Reader       io.Reader
	Size         int64
	MimeType     string
	OriginalName string
	UserID       string
	Title        string
	Artist       string
	Album        string
	Genre        string
	Duration     int
	IsPublic     bool
}

// UpdateSongInput 元数据编辑，nil字段表示不修改
type UpdateSongInput struct {
	Title    *string
	Artist   *string
	Album    *string
	Genre    *string
	IsPublic *bool
}

// SongService 歌曲服务。上传与下架跨对象存储和元数据库两步执行，
// 顺序固定：先写blob后写记录，失败反向补偿。孤儿blob可回收，
// 指向不存在blob的记录是面向用户的完整性破坏，所以宁可泄漏不可悬挂。
type SongService struct {
	songRepo   repository.SongRepository
	blobStore  storage.BlobStore
	orphanRepo repository.OrphanRepository
	songCache  SongCache
	log        logger.Logger
}

// NewSongService 创建歌曲服务。songCache可为nil（禁用缓存）。
func NewSongService(
	songRepo repository.SongRepository,
	blobStore storage.BlobStore,
	orphanRepo repository.OrphanRepository,
	songCache SongCache,
	log logger.Logger,
) *SongService {
	if log == nil {
		log = logger.New(nil)
	}
	return &SongService{
		songRepo:   songRepo,
		blobStore:  blobStore,
		orphanRepo: orphanRepo,
		songCache:  songCache,
		log:        log,
	}
}

// Upload 上传歌曲。两步不构成跨存储事务：blob写入成功而记录
// 持久化失败时补偿删除blob；补偿再失败只登记孤儿并结构化记录，
// 向调用方返回的始终是原始的持久化错误。
func (s *SongService) Upload(ctx context.Context, in *UploadInput) (*domain.Song, error) {
	// 任何存储访问之前完成校验
	if !domain.IsAllowedMimeType(in.MimeType) {
		return nil, domain.ErrUnsupportedMediaType
	}
	if err := domain.ValidateSongMetadata(in.Title, in.Artist, in.Album, in.Genre, in.Duration); err != nil {
		return nil, err
	}
	if in.UserID == "" {
		return nil, domain.ErrInvalidUserID
	}
	if in.Size <= 0 {
		return nil, domain.ErrInvalidFileSize
	}
	if in.Size > domain.MaxUploadFileSize {
		return nil, domain.ErrFileTooLarge
	}

	// 第一步：写blob。失败直接终止，无需补偿。
	key := storage.ObjectKey(in.UserID, in.OriginalName)
	location, err := s.blobStore.Put(ctx, key, in.Reader, in.Size, in.MimeType, map[string]string{
		"original-name": in.OriginalName,
		"uploaded-by":   in.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	now := time.Now()
	song := &domain.Song{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Artist:    in.Artist,
		Album:     in.Album,
		Genre:     in.Genre,
		Duration:  in.Duration,
		BlobURL:   location,
		BlobKey:   key,
		FileSize:  in.Size,
		MimeType:  in.MimeType,
		UserID:    in.UserID,
		IsPublic:  in.IsPublic,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 第二步：持久化记录。失败则补偿删除刚写入的blob。
	if err := s.songRepo.Create(ctx, song); err != nil {
		s.compensateBlob(ctx, key, "upload persistence failed", err)
		return nil, err
	}

	return song, nil
}

// Get 可见性校验后的歌曲读取，公开读取路径走缓存
func (s *SongService) Get(ctx context.Context, songID, requesterID string) (*domain.Song, error) {
	song, err := s.cachedGet(ctx, songID)
	if err != nil {
		return nil, err
	}
	if !domain.CanRead(song.IsPublic, song.UserID, requesterID) {
		return nil, domain.ErrForbidden
	}
	return song, nil
}

// Update 仅所有者可编辑元数据，blob引用与所有者不可变
func (s *SongService) Update(ctx context.Context, songID, requesterID string, in *UpdateSongInput) (*domain.Song, error) {
	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if song.UserID != requesterID {
		return nil, domain.ErrForbidden
	}

	if in.Title != nil {
		song.Title = *in.Title
	}
	if in.Artist != nil {
		song.Artist = *in.Artist
	}
	if in.Album != nil {
		song.Album = *in.Album
	}
	if in.Genre != nil {
		song.Genre = *in.Genre
	}
	if in.IsPublic != nil {
		song.IsPublic = *in.IsPublic
	}

	if err := domain.ValidateSongMetadata(song.Title, song.Artist, song.Album, song.Genre, song.Duration); err != nil {
		return nil, err
	}

	song.UpdatedAt = time.Now()
	if err := s.songRepo.Update(ctx, song); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, songID)

	return song, nil
}

// Retire 下架歌曲。先删记录：记录删除失败则完全终止，不碰blob；
// 记录删除成功后blob删除尽力而为，失败登记孤儿，操作仍视为成功——
// 对用户的承诺"歌曲已从目录消失"在记录删除的瞬间已经成立。
func (s *SongService) Retire(ctx context.Context, songID, requesterID string) error {
	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return err
	}
	if song.UserID != requesterID {
		return domain.ErrForbidden
	}

	if err := s.songRepo.Delete(ctx, songID); err != nil {
		return err
	}
	s.invalidateCache(ctx, songID)

	if err := s.blobStore.Remove(ctx, song.BlobKey); err != nil {
		s.recordOrphan(ctx, song.BlobKey, "retire blob deletion failed", err)
	}
	return nil
}

// RecordPlay 播放计数。自增在元数据库内单条语句完成，
// 并发播放不丢失计数。
func (s *SongService) RecordPlay(ctx context.Context, songID, requesterID string) (int64, error) {
	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return 0, err
	}
	if !domain.CanRead(song.IsPublic, song.UserID, requesterID) {
		return 0, domain.ErrForbidden
	}

	count, err := s.songRepo.IncrementPlayCount(ctx, songID)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(ctx, songID)

	return count, nil
}

// compensateBlob 补偿删除blob，失败时登记孤儿
func (s *SongService) compensateBlob(ctx context.Context, key, reason string, cause error) {
	if err := s.blobStore.Remove(ctx, key); err != nil {
		s.recordOrphan(ctx, key, reason, err)
	}
}

// recordOrphan 登记孤儿blob。登记本身也是尽力而为，
// 但无论如何结构化日志保证该状况可被观测到。
func (s *SongService) recordOrphan(ctx context.Context, key, reason string, cause error) {
	s.log.Error("orphaned blob",
		logger.String("blob_key", key),
		logger.String("reason", reason),
		logger.String("error", cause.Error()),
	)
	if err := s.orphanRepo.Record(ctx, key, reason, cause.Error()); err != nil {
		s.log.Error("failed to record orphaned blob",
			logger.String("blob_key", key),
			logger.String("error", err.Error()),
		)
	}
}

func (s *SongService) cachedGet(ctx context.Context, songID string) (*domain.Song, error) {
	if s.songCache == nil {
		return s.songRepo.GetByID(ctx, songID)
	}

	if song, err := s.songCache.Get(ctx, songID); err == nil {
		return song, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("song cache read failed",
			logger.String("song_id", songID),
			logger.String("error", err.Error()),
		)
	}

	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if err := s.songCache.Set(ctx, song); err != nil {
		s.log.Warn("song cache write failed",
			logger.String("song_id", songID),
			logger.String("error", err.Error()),
		)
	}
	return song, nil
}

func (s *SongService) invalidateCache(ctx context.Context, songID string) {
	if s.songCache == nil {
		return
	}
	if err := s.songCache.Invalidate(ctx, songID); err != nil {
		s.log.Warn("song cache invalidation failed",
			logger.String("song_id", songID),
			logger.String("error", err.Error()),
		)
	}
}
