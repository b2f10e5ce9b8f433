package service

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"catalog-svc/internal/domain"
	"catalog-svc/internal/repository"
)

// MockSongRepository 模拟歌曲仓储
type MockSongRepository struct {
	mock.Mock
}

func (m *MockSongRepository) Create(ctx context.Context, song *domain.Song) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *MockSongRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Song), args.Error(1)
}

func (m *MockSongRepository) FindMany(ctx context.Context, filter *repository.SongFilter) ([]*domain.Song, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Song), args.Error(1)
}

func (m *MockSongRepository) Count(ctx context.Context, filter *repository.SongFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSongRepository) Update(ctx context.Context, song *domain.Song) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *MockSongRepository) IncrementPlayCount(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSongRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPlaylistRepository 模拟歌单仓储
type MockPlaylistRepository struct {
	mock.Mock
}

func (m *MockPlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Playlist, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) ListPublic(ctx context.Context, search string, limit, offset int) ([]*domain.Playlist, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Playlist), args.Error(1)
}

func (m *MockPlaylistRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlaylistRepository) CountPublic(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlaylistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	args := m.Called(ctx, playlist)
	return args.Error(0)
}

func (m *MockPlaylistRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPlaylistEntryRepository 模拟歌单歌曲关联仓储
type MockPlaylistEntryRepository struct {
	mock.Mock
}

func (m *MockPlaylistEntryRepository) Append(ctx context.Context, playlistID, songID string) (bool, error) {
	args := m.Called(ctx, playlistID, songID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaylistEntryRepository) Remove(ctx context.Context, playlistID, songID string) (bool, error) {
	args := m.Called(ctx, playlistID, songID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaylistEntryRepository) List(ctx context.Context, playlistID string) ([]*domain.PlaylistEntry, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PlaylistEntry), args.Error(1)
}

func (m *MockPlaylistEntryRepository) ListSongs(ctx context.Context, playlistID string) ([]*domain.Song, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Song), args.Error(1)
}

func (m *MockPlaylistEntryRepository) DeleteAll(ctx context.Context, playlistID string) error {
	args := m.Called(ctx, playlistID)
	return args.Error(0)
}

// MockOrphanRepository 模拟孤儿对象仓储
type MockOrphanRepository struct {
	mock.Mock
}

func (m *MockOrphanRepository) Record(ctx context.Context, blobKey, reason, lastError string) error {
	args := m.Called(ctx, blobKey, reason, lastError)
	return args.Error(0)
}

func (m *MockOrphanRepository) ListDue(ctx context.Context, limit int) ([]*repository.OrphanedBlob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.OrphanedBlob), args.Error(1)
}

func (m *MockOrphanRepository) MarkAttempt(ctx context.Context, blobKey, lastError string) error {
	args := m.Called(ctx, blobKey, lastError)
	return args.Error(0)
}

func (m *MockOrphanRepository) Delete(ctx context.Context, blobKey string) error {
	args := m.Called(ctx, blobKey)
	return args.Error(0)
}

// MockBlobStore 模拟对象存储网关
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) (string, error) {
	args := m.Called(ctx, key, reader, size, contentType, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockSongCache 模拟歌曲缓存，默认全部miss
type MockSongCache struct {
	mock.Mock
}

func (m *MockSongCache) Get(ctx context.Context, songID string) (*domain.Song, error) {
	args := m.Called(ctx, songID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Song), args.Error(1)
}

func (m *MockSongCache) Set(ctx context.Context, song *domain.Song) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *MockSongCache) Invalidate(ctx context.Context, songID string) error {
	args := m.Called(ctx, songID)
	return args.Error(0)
}

// fakeCountingSongRepo 内存歌曲仓储，验证并发播放计数不丢失
type fakeCountingSongRepo struct {
	mu    sync.Mutex
	songs map[string]*domain.Song
}

func newFakeCountingSongRepo() *fakeCountingSongRepo {
	return &fakeCountingSongRepo{songs: make(map[string]*domain.Song)}
}

func (f *fakeCountingSongRepo) Create(ctx context.Context, song *domain.Song) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.songs[song.ID] = song
	return nil
}

func (f *fakeCountingSongRepo) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	song, ok := f.songs[id]
	if !ok {
		return nil, domain.ErrSongNotFound
	}
	copied := *song
	return &copied, nil
}

func (f *fakeCountingSongRepo) FindMany(ctx context.Context, filter *repository.SongFilter) ([]*domain.Song, error) {
	return nil, nil
}

func (f *fakeCountingSongRepo) Count(ctx context.Context, filter *repository.SongFilter) (int64, error) {
	return 0, nil
}

func (f *fakeCountingSongRepo) Update(ctx context.Context, song *domain.Song) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.songs[song.ID] = song
	return nil
}

func (f *fakeCountingSongRepo) IncrementPlayCount(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	song, ok := f.songs[id]
	if !ok {
		return 0, domain.ErrSongNotFound
	}
	song.PlayCount++
	return song.PlayCount, nil
}

func (f *fakeCountingSongRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.songs, id)
	return nil
}
