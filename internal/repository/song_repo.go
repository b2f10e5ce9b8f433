package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-svc/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const songColumns = `id, title, artist, album, genre, duration, blob_url, blob_key,
		file_size, mime_type, user_id, play_count, is_public, created_at, updated_at`

// SongRepositoryImpl 歌曲仓储实现
type SongRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSongRepository 创建歌曲仓储
func NewSongRepository(db *pgxpool.Pool) SongRepository {
	return &SongRepositoryImpl{db: db}
}

// Create 创建歌曲记录
func (r *SongRepositoryImpl) Create(ctx context.Context, song *domain.Song) error {
	query := `
		INSERT INTO songs (id, title, artist, album, genre, duration, blob_url, blob_key,
			file_size, mime_type, user_id, play_count, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		song.ID,
		song.Title,
		song.Artist,
		song.Album,
		song.Genre,
		song.Duration,
		song.BlobURL,
		song.BlobKey,
		song.FileSize,
		song.MimeType,
		song.UserID,
		song.PlayCount,
		song.IsPublic,
		song.CreatedAt,
		song.UpdatedAt,
	)
	return err
}

// GetByID 根据ID获取歌曲
func (r *SongRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = $1`

	song, err := scanSong(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSongNotFound
		}
		return nil, err
	}
	return song, nil
}

// FindMany 按过滤条件组合查询歌曲列表
func (r *SongRepositoryImpl) FindMany(ctx context.Context, filter *SongFilter) ([]*domain.Song, error) {
	where, args := buildSongWhere(filter)

	order := "created_at"
	if filter.SortBy != "" {
		order = filter.SortBy
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM songs %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		songColumns, where, order, direction, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []*domain.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// Count 统计满足过滤条件的歌曲数量
func (r *SongRepositoryImpl) Count(ctx context.Context, filter *SongFilter) (int64, error) {
	where, args := buildSongWhere(filter)
	query := `SELECT COUNT(*) FROM songs ` + where

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// Update 更新歌曲元数据，blob引用与所有者不参与更新
func (r *SongRepositoryImpl) Update(ctx context.Context, song *domain.Song) error {
	query := `
		UPDATE songs
		SET title = $2, artist = $3, album = $4, genre = $5, is_public = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		song.ID,
		song.Title,
		song.Artist,
		song.Album,
		song.Genre,
		song.IsPublic,
		song.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

// IncrementPlayCount 原子自增播放次数，并发调用不丢失
func (r *SongRepositoryImpl) IncrementPlayCount(ctx context.Context, id string) (int64, error) {
	query := `UPDATE songs SET play_count = play_count + 1 WHERE id = $1 RETURNING play_count`

	var count int64
	err := r.db.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrSongNotFound
		}
		return 0, err
	}
	return count, nil
}

// Delete 删除歌曲记录
func (r *SongRepositoryImpl) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

// buildSongWhere 将可选过滤条件组合为WHERE子句
func buildSongWhere(filter *SongFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.PublicOnly {
		conditions = append(conditions, "is_public = TRUE")
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		conditions = append(conditions, fmt.Sprintf("search_vector @@ plainto_tsquery('simple', $%d)", len(args)))
	}
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		conditions = append(conditions, fmt.Sprintf("LOWER(genre) = LOWER($%d)", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// scanSong 扫描一行歌曲记录
func scanSong(row pgx.Row) (*domain.Song, error) {
	var song domain.Song
	err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Album,
		&song.Genre,
		&song.Duration,
		&song.BlobURL,
		&song.BlobKey,
		&song.FileSize,
		&song.MimeType,
		&song.UserID,
		&song.PlayCount,
		&song.IsPublic,
		&song.CreatedAt,
		&song.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &song, nil
}
