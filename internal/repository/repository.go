package repository

import (
	"context"
	"time"

	"catalog-svc/internal/domain"
)

// SongFilter 目录查询的可选过滤条件组合
type SongFilter struct {
	Search     string // 全文检索 title/artist/album，空则跳过
	Genre      string // 精确匹配（忽略大小写），空则跳过
	UserID     string // 仅该用户的歌曲，空则跳过
	PublicOnly bool   // 仅公开歌曲
	SortBy     string // 列名，由上层校验白名单
	SortDesc   bool
	Limit      int
	Offset     int
}

// SongRepository 歌曲仓储接口
type SongRepository interface {
	Create(ctx context.Context, song *domain.Song) error
	GetByID(ctx context.Context, id string) (*domain.Song, error)
	FindMany(ctx context.Context, filter *SongFilter) ([]*domain.Song, error)
	Count(ctx context.Context, filter *SongFilter) (int64, error)
	Update(ctx context.Context, song *domain.Song) error
	// IncrementPlayCount 原子自增播放次数并返回新值
	IncrementPlayCount(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// PlaylistRepository 歌单仓储接口
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	GetByID(ctx context.Context, id string) (*domain.Playlist, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Playlist, error)
	ListPublic(ctx context.Context, search string, limit, offset int) ([]*domain.Playlist, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountPublic(ctx context.Context, search string) (int64, error)
	Update(ctx context.Context, playlist *domain.Playlist) error
	Delete(ctx context.Context, id string) error
}

// PlaylistEntryRepository 歌单歌曲关联仓储接口
type PlaylistEntryRepository interface {
	// Append 追加到末尾；歌曲已存在时不写入并返回false
	Append(ctx context.Context, playlistID, songID string) (bool, error)
	// Remove 移除关联；关联不存在时返回false
	Remove(ctx context.Context, playlistID, songID string) (bool, error)
	List(ctx context.Context, playlistID string) ([]*domain.PlaylistEntry, error)
	// ListSongs 按position装载歌单歌曲，已删除歌曲的悬挂引用由JOIN自然过滤
	ListSongs(ctx context.Context, playlistID string) ([]*domain.Song, error)
	DeleteAll(ctx context.Context, playlistID string) error
}

// OrphanedBlob 补偿失败遗留的孤儿对象记录
type OrphanedBlob struct {
	BlobKey       string
	Reason        string
	LastError     string
	Attempts      int
	RecordedAt    time.Time
	LastAttemptAt *time.Time
}

// OrphanRepository 孤儿对象仓储接口
type OrphanRepository interface {
	Record(ctx context.Context, blobKey, reason, lastError string) error
	ListDue(ctx context.Context, limit int) ([]*OrphanedBlob, error)
	MarkAttempt(ctx context.Context, blobKey, lastError string) error
	Delete(ctx context.Context, blobKey string) error
}
