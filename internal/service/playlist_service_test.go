package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog-svc/internal/domain"
)

func newPlaylistServiceWithMocks() (*PlaylistService, *MockPlaylistRepository, *MockPlaylistEntryRepository, *MockSongRepository) {
	playlistRepo := new(MockPlaylistRepository)
	entryRepo := new(MockPlaylistEntryRepository)
	songRepo := new(MockSongRepository)
	return NewPlaylistService(playlistRepo, entryRepo, songRepo), playlistRepo, entryRepo, songRepo
}

func TestPlaylistService_Create(t *testing.T) {
	svc, playlistRepo, _, _ := newPlaylistServiceWithMocks()
	playlistRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	playlist, err := svc.Create(context.Background(), "u1", "My List", "desc", "", false)
	require.NoError(t, err)
	assert.NotEmpty(t, playlist.ID)
	assert.Equal(t, "u1", playlist.UserID)
	assert.False(t, playlist.IsPublic)
}

func TestPlaylistService_Create_Invalid(t *testing.T) {
	svc, playlistRepo, _, _ := newPlaylistServiceWithMocks()

	_, err := svc.Create(context.Background(), "u1", "", "", "", false)
	assert.ErrorIs(t, err, domain.ErrInvalidPlaylistName)

	_, err = svc.Create(context.Background(), "", "name", "", "", false)
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)

	playlistRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 歌单详情可见性与歌曲装载。指向已删除歌曲的引用
// 在仓储JOIN阶段已被过滤，这里只看到存活歌曲。
func TestPlaylistService_Get(t *testing.T) {
	svc, playlistRepo, entryRepo, _ := newPlaylistServiceWithMocks()

	playlist := &domain.Playlist{ID: "p1", UserID: "u1", Name: "L", IsPublic: true}
	songs := []*domain.Song{
		{ID: "s1", Duration: 100},
		{ID: "s2", Duration: 200},
	}
	playlistRepo.On("GetByID", mock.Anything, "p1").Return(playlist, nil)
	entryRepo.On("ListSongs", mock.Anything, "p1").Return(songs, nil)

	got, err := svc.Get(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, got.SongCount())
	assert.Equal(t, 300, got.TotalDuration())
}

func TestPlaylistService_Get_PrivateForbidden(t *testing.T) {
	svc, playlistRepo, entryRepo, _ := newPlaylistServiceWithMocks()

	playlist := &domain.Playlist{ID: "p1", UserID: "u1", IsPublic: false}
	playlistRepo.On("GetByID", mock.Anything, "p1").Return(playlist, nil)

	_, err := svc.Get(context.Background(), "p1", "u2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	entryRepo.AssertNotCalled(t, "ListSongs", mock.Anything, mock.Anything)
}

// 重复添加返回冲突，而非静默忽略
func TestPlaylistService_AddSong_Duplicate(t *testing.T) {
	svc, playlistRepo, entryRepo, songRepo := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1"}, nil)
	songRepo.On("GetByID", mock.Anything, "s1").
		Return(&domain.Song{ID: "s1", UserID: "u1", IsPublic: true}, nil)
	entryRepo.On("Append", mock.Anything, "p1", "s1").Return(false, nil)

	_, err := svc.AddSong(context.Background(), "p1", "s1", "u1")
	assert.ErrorIs(t, err, domain.ErrSongAlreadyInPlaylist)
}

// 别人的私有歌曲不能加入自己的歌单
func TestPlaylistService_AddSong_PrivateSong(t *testing.T) {
	svc, playlistRepo, entryRepo, songRepo := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1"}, nil)
	songRepo.On("GetByID", mock.Anything, "s1").
		Return(&domain.Song{ID: "s1", UserID: "u2", IsPublic: false}, nil)

	_, err := svc.AddSong(context.Background(), "p1", "s1", "u1")
	assert.ErrorIs(t, err, domain.ErrPrivateSong)
	entryRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

// 自己的私有歌曲可以加入
func TestPlaylistService_AddSong_OwnPrivateSong(t *testing.T) {
	svc, playlistRepo, entryRepo, songRepo := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1"}, nil)
	songRepo.On("GetByID", mock.Anything, "s1").
		Return(&domain.Song{ID: "s1", UserID: "u1", IsPublic: false}, nil)
	entryRepo.On("Append", mock.Anything, "p1", "s1").Return(true, nil)
	entryRepo.On("ListSongs", mock.Anything, "p1").
		Return([]*domain.Song{{ID: "s1"}}, nil)

	playlist, err := svc.AddSong(context.Background(), "p1", "s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, playlist.SongCount())
}

// 只有歌单所有者可以修改内容
func TestPlaylistService_AddSong_NotOwner(t *testing.T) {
	svc, playlistRepo, _, songRepo := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1"}, nil)

	_, err := svc.AddSong(context.Background(), "p1", "s1", "u2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	songRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// 歌曲不存在与歌单不存在区分返回
func TestPlaylistService_AddSong_SongNotFound(t *testing.T) {
	svc, playlistRepo, _, songRepo := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1"}, nil)
	songRepo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrSongNotFound)

	_, err := svc.AddSong(context.Background(), "p1", "missing", "u1")
	assert.ErrorIs(t, err, domain.ErrSongNotFound)
}

// 列表分页参数在服务内归一化：page_size为0时退回默认值，
// 描述符与实际执行的查询用同一组归一化后的值。
func TestPlaylistService_ListMine_NormalizesPage(t *testing.T) {
	svc, playlistRepo, _, _ := newPlaylistServiceWithMocks()

	playlistRepo.On("ListByUser", mock.Anything, "u1", DefaultPageSize, 0).
		Return([]*domain.Playlist{{ID: "p1", UserID: "u1"}}, nil)
	playlistRepo.On("CountByUser", mock.Anything, "u1").Return(int64(1), nil)

	result, err := svc.ListMine(context.Background(), "u1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, result.Playlists, 1)
	assert.Equal(t, 1, result.Pagination.CurrentPage)
	assert.Equal(t, 1, result.Pagination.TotalPages)
	playlistRepo.AssertExpectations(t)
}

// 超过上限的page_size被收紧，描述符按收紧后的值计算
func TestPlaylistService_ListPublic_ClampsPageSize(t *testing.T) {
	svc, playlistRepo, _, _ := newPlaylistServiceWithMocks()

	playlistRepo.On("ListPublic", mock.Anything, "", MaxPageSize, 0).
		Return([]*domain.Playlist{}, nil)
	playlistRepo.On("CountPublic", mock.Anything, "").Return(int64(250), nil)

	result, err := svc.ListPublic(context.Background(), "", 1, 5000)
	require.NoError(t, err)
	assert.NotNil(t, result.Playlists)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.True(t, result.Pagination.HasNext)
	playlistRepo.AssertExpectations(t)
}

// 移除已存在的歌曲：总数减一，其余歌曲保持原有相对顺序
func TestPlaylistService_RemoveSong(t *testing.T) {
	svc, playlistRepo, entryRepo, _ := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1"}, nil)
	entryRepo.On("Remove", mock.Anything, "p1", "s2").Return(true, nil)
	entryRepo.On("ListSongs", mock.Anything, "p1").
		Return([]*domain.Song{{ID: "s1"}, {ID: "s3"}}, nil)

	got, err := svc.RemoveSong(context.Background(), "p1", "s2", "u1")
	require.NoError(t, err)
	require.Equal(t, 2, got.SongCount())

	songs := got.Songs()
	assert.Equal(t, "s1", songs[0].ID)
	assert.Equal(t, "s3", songs[1].ID)
	entryRepo.AssertExpectations(t)
}

// 移除不在歌单中的歌曲
func TestPlaylistService_RemoveSong_NotInPlaylist(t *testing.T) {
	svc, playlistRepo, entryRepo, _ := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1"}, nil)
	entryRepo.On("Remove", mock.Anything, "p1", "s1").Return(false, nil)

	_, err := svc.RemoveSong(context.Background(), "p1", "s1", "u1")
	assert.ErrorIs(t, err, domain.ErrSongNotInPlaylist)
}

func TestPlaylistService_Delete(t *testing.T) {
	svc, playlistRepo, entryRepo, _ := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1"}, nil)
	playlistRepo.On("Delete", mock.Anything, "p1").Return(nil)
	entryRepo.On("DeleteAll", mock.Anything, "p1").Return(nil)

	err := svc.Delete(context.Background(), "p1", "u1")
	require.NoError(t, err)
	playlistRepo.AssertExpectations(t)
	entryRepo.AssertExpectations(t)
}

func TestPlaylistService_Update_NotOwner(t *testing.T) {
	svc, playlistRepo, _, _ := newPlaylistServiceWithMocks()

	playlistRepo.On("GetByID", mock.Anything, "p1").
		Return(&domain.Playlist{ID: "p1", UserID: "u1", Name: "L"}, nil)

	name := "Renamed"
	_, err := svc.Update(context.Background(), "p1", "u2", &UpdatePlaylistInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	playlistRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
