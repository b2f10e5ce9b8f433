package repository

import (
	"context"

	"catalog-svc/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PlaylistEntryRepositoryImpl 歌单歌曲关联仓储实现
type PlaylistEntryRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPlaylistEntryRepository 创建歌单歌曲关联仓储
func NewPlaylistEntryRepository(db *pgxpool.Pool) PlaylistEntryRepository {
	return &PlaylistEntryRepositoryImpl{db: db}
}

// Append 单条语句追加到末尾。主键(playlist_id, song_id)在存储层
// 拒绝重复；并发追加互不丢失，位置由子查询在同一语句内计算。
func (r *PlaylistEntryRepositoryImpl) Append(ctx context.Context, playlistID, songID string) (bool, error) {
	query := `
		INSERT INTO playlist_songs (playlist_id, song_id, position, added_at)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0), NOW()
		FROM playlist_songs
		WHERE playlist_id = $1
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, playlistID, songID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Remove 移除关联，其余歌曲的相对顺序不变
func (r *PlaylistEntryRepositoryImpl) Remove(ctx context.Context, playlistID, songID string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`,
		playlistID, songID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// List 获取歌单的所有关联记录
func (r *PlaylistEntryRepositoryImpl) List(ctx context.Context, playlistID string) ([]*domain.PlaylistEntry, error) {
	query := `
		SELECT playlist_id, song_id, position, added_at
		FROM playlist_songs
		WHERE playlist_id = $1
		ORDER BY position ASC, added_at ASC
	`
	rows, err := r.db.Query(ctx, query, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.PlaylistEntry
	for rows.Next() {
		var entry domain.PlaylistEntry
		err := rows.Scan(
			&entry.PlaylistID,
			&entry.SongID,
			&entry.Position,
			&entry.AddedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// ListSongs 按position装载歌单歌曲。通过JOIN songs实现，
// 指向已删除歌曲的悬挂引用被自然过滤掉。
func (r *PlaylistEntryRepositoryImpl) ListSongs(ctx context.Context, playlistID string) ([]*domain.Song, error) {
	query := `
		SELECT s.id, s.title, s.artist, s.album, s.genre, s.duration, s.blob_url, s.blob_key,
			s.file_size, s.mime_type, s.user_id, s.play_count, s.is_public, s.created_at, s.updated_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position ASC, ps.added_at ASC
	`
	rows, err := r.db.Query(ctx, query, playlistID)
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

// DeleteAll 删除歌单的所有关联记录
func (r *PlaylistEntryRepositoryImpl) DeleteAll(ctx context.Context, playlistID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM playlist_songs WHERE playlist_id = $1`, playlistID)
	return err
}
