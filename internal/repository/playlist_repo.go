package repository

import (
	"context"
	"errors"

	"catalog-svc/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const playlistColumns = `id, user_id, name, description, cover_url, is_public, created_at, updated_at`

// PlaylistRepositoryImpl 歌单仓储实现
type PlaylistRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPlaylistRepository 创建歌单仓储
func NewPlaylistRepository(db *pgxpool.Pool) PlaylistRepository {
	return &PlaylistRepositoryImpl{db: db}
}

// Create 创建歌单
func (r *PlaylistRepositoryImpl) Create(ctx context.Context, playlist *domain.Playlist) error {
	query := `
		INSERT INTO playlists (id, user_id, name, description, cover_url, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		playlist.ID,
		playlist.UserID,
		playlist.Name,
		playlist.Description,
		playlist.CoverURL,
		playlist.IsPublic,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	return err
}

// GetByID 根据ID获取歌单
func (r *PlaylistRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1`

	playlist, err := scanPlaylist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlaylistNotFound
		}
		return nil, err
	}
	return playlist, nil
}

// ListByUser 获取用户的歌单列表
func (r *PlaylistRepositoryImpl) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Playlist, error) {
	query := `
		SELECT ` + playlistColumns + `
		FROM playlists
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryPlaylists(ctx, query, userID, limit, offset)
}

// ListPublic 获取公开歌单列表，可选全文检索名称与描述
func (r *PlaylistRepositoryImpl) ListPublic(ctx context.Context, search string, limit, offset int) ([]*domain.Playlist, error) {
	if search == "" {
		query := `
			SELECT ` + playlistColumns + `
			FROM playlists
			WHERE is_public = TRUE
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		return r.queryPlaylists(ctx, query, limit, offset)
	}

	query := `
		SELECT ` + playlistColumns + `
		FROM playlists
		WHERE is_public = TRUE AND search_vector @@ plainto_tsquery('simple', $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryPlaylists(ctx, query, search, limit, offset)
}

// CountByUser 统计用户的歌单数量
func (r *PlaylistRepositoryImpl) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM playlists WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// CountPublic 统计公开歌单数量
func (r *PlaylistRepositoryImpl) CountPublic(ctx context.Context, search string) (int64, error) {
	var count int64
	if search == "" {
		err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM playlists WHERE is_public = TRUE`).Scan(&count)
		return count, err
	}
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM playlists WHERE is_public = TRUE AND search_vector @@ plainto_tsquery('simple', $1)`,
		search,
	).Scan(&count)
	return count, err
}

// Update 更新歌单信息，所有者不参与更新
func (r *PlaylistRepositoryImpl) Update(ctx context.Context, playlist *domain.Playlist) error {
	query := `
		UPDATE playlists
		SET name = $2, description = $3, cover_url = $4, is_public = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		playlist.ID,
		playlist.Name,
		playlist.Description,
		playlist.CoverURL,
		playlist.IsPublic,
		playlist.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlaylistNotFound
	}
	return nil
}

// Delete 删除歌单
func (r *PlaylistRepositoryImpl) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlaylistNotFound
	}
	return nil
}

func (r *PlaylistRepositoryImpl) queryPlaylists(ctx context.Context, query string, args ...interface{}) ([]*domain.Playlist, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []*domain.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

// scanPlaylist 扫描一行歌单记录
func scanPlaylist(row pgx.Row) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := row.Scan(
		&playlist.ID,
		&playlist.UserID,
		&playlist.Name,
		&playlist.Description,
		&playlist.CoverURL,
		&playlist.IsPublic,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}
