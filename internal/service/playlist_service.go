package service

import (
	"context"
	"time"

	"catalog-svc/internal/domain"
	"catalog-svc/internal/repository"

	"github.com/google/uuid"
)

// UpdatePlaylistInput 歌单编辑，nil字段表示不修改
type UpdatePlaylistInput struct {
	Name        *string
	Description *string
	CoverURL    *string
	IsPublic    *bool
}

// PlaylistService 歌单服务，维护歌单-歌曲-用户关系的完整性：
// 所有权、可见性、无重复的成员关系。存储层没有外键约束，
// 规则全部在这里执行。
type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	entryRepo    repository.PlaylistEntryRepository
	songRepo     repository.SongRepository
}

// NewPlaylistService 创建歌单服务
func NewPlaylistService(
	playlistRepo repository.PlaylistRepository,
	entryRepo repository.PlaylistEntryRepository,
	songRepo repository.SongRepository,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		entryRepo:    entryRepo,
		songRepo:     songRepo,
	}
}

// Create 创建空歌单，默认私有
func (s *PlaylistService) Create(ctx context.Context, userID, name, description, coverURL string, isPublic bool) (*domain.Playlist, error) {
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	if err := domain.ValidatePlaylistFields(name, description); err != nil {
		return nil, err
	}

	now := time.Now()
	playlist := &domain.Playlist{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CoverURL:    coverURL,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Get 可见性校验后的歌单读取，装载歌曲集合。
// 指向已删除歌曲的悬挂引用在装载时被惰性过滤。
func (s *PlaylistService) Get(ctx context.Context, playlistID, requesterID string) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if !domain.CanRead(playlist.IsPublic, playlist.UserID, requesterID) {
		return nil, domain.ErrForbidden
	}

	songs, err := s.entryRepo.ListSongs(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	playlist.SetSongs(songs)

	return playlist, nil
}

// PlaylistPage 一页歌单查询结果
type PlaylistPage struct {
	Playlists  []*domain.Playlist `json:"playlists"`
	Pagination Pagination         `json:"pagination"`
}

// ListMine 获取用户自己的歌单列表。分页描述符基于归一化后的
// 页参数计算，与实际执行的查询保持一致。
func (s *PlaylistService) ListMine(ctx context.Context, userID string, page, pageSize int) (*PlaylistPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	playlists, err := s.playlistRepo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.playlistRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newPlaylistPage(playlists, page, pageSize, total), nil
}

// ListPublic 获取公开歌单列表，可选检索名称与描述
func (s *PlaylistService) ListPublic(ctx context.Context, search string, page, pageSize int) (*PlaylistPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	playlists, err := s.playlistRepo.ListPublic(ctx, search, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.playlistRepo.CountPublic(ctx, search)
	if err != nil {
		return nil, err
	}
	return newPlaylistPage(playlists, page, pageSize, total), nil
}

func newPlaylistPage(playlists []*domain.Playlist, page, pageSize int, total int64) *PlaylistPage {
	if playlists == nil {
		playlists = []*domain.Playlist{}
	}
	return &PlaylistPage{
		Playlists:  playlists,
		Pagination: NewPagination(page, pageSize, total),
	}
}

// Update 仅所有者可编辑歌单信息
func (s *PlaylistService) Update(ctx context.Context, playlistID, requesterID string, in *UpdatePlaylistInput) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != requesterID {
		return nil, domain.ErrForbidden
	}

	if in.Name != nil {
		playlist.Name = *in.Name
	}
	if in.Description != nil {
		playlist.Description = *in.Description
	}
	if in.CoverURL != nil {
		playlist.CoverURL = *in.CoverURL
	}
	if in.IsPublic != nil {
		playlist.IsPublic = *in.IsPublic
	}

	if err := domain.ValidatePlaylistFields(playlist.Name, playlist.Description); err != nil {
		return nil, err
	}

	playlist.UpdatedAt = time.Now()
	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Delete 仅所有者可删除歌单，对被引用的歌曲无级联影响
func (s *PlaylistService) Delete(ctx context.Context, playlistID, requesterID string) error {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if playlist.UserID != requesterID {
		return domain.ErrForbidden
	}

	if err := s.playlistRepo.Delete(ctx, playlistID); err != nil {
		return err
	}
	return s.entryRepo.DeleteAll(ctx, playlistID)
}

// AddSong 追加歌曲到歌单末尾。要求：请求者拥有歌单；歌曲存在；
// 歌曲公开或归请求者所有；不得重复。重复返回冲突而非静默忽略。
func (s *PlaylistService) AddSong(ctx context.Context, playlistID, songID, requesterID string) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != requesterID {
		return nil, domain.ErrForbidden
	}

	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return nil, err
	}
	if !song.IsPublic && song.UserID != requesterID {
		return nil, domain.ErrPrivateSong
	}

	appended, err := s.entryRepo.Append(ctx, playlistID, songID)
	if err != nil {
		return nil, err
	}
	if !appended {
		return nil, domain.ErrSongAlreadyInPlaylist
	}

	songs, err := s.entryRepo.ListSongs(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	playlist.SetSongs(songs)

	return playlist, nil
}

// RemoveSong 从歌单移除歌曲。歌曲不在歌单中返回ErrSongNotInPlaylist，
// 与歌单不存在区分开；其余歌曲的相对顺序不变。
func (s *PlaylistService) RemoveSong(ctx context.Context, playlistID, songID, requesterID string) (*domain.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.UserID != requesterID {
		return nil, domain.ErrForbidden
	}

	removed, err := s.entryRepo.Remove(ctx, playlistID, songID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, domain.ErrSongNotInPlaylist
	}

	songs, err := s.entryRepo.ListSongs(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	playlist.SetSongs(songs)

	return playlist, nil
}
