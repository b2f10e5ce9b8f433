package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog-svc/internal/domain"
	"catalog-svc/internal/repository"
)

// 25条记录按每页20分页，第2页应是5条，总页数2
func TestCatalogService_Pagination(t *testing.T) {
	songRepo := new(MockSongRepository)
	svc := NewCatalogService(songRepo)

	secondPage := make([]*domain.Song, 5)
	for i := range secondPage {
		secondPage[i] = &domain.Song{ID: "s", IsPublic: true}
	}

	songRepo.On("FindMany", mock.Anything, mock.MatchedBy(func(f *repository.SongFilter) bool {
		return f.PublicOnly && f.Limit == 20 && f.Offset == 20
	})).Return(secondPage, nil)
	songRepo.On("Count", mock.Anything, mock.Anything).Return(int64(25), nil)

	page, err := svc.ListCatalog(context.Background(), &CatalogQuery{Page: 2, PageSize: 20})
	require.NoError(t, err)

	assert.Len(t, page.Songs, 5)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, int64(25), page.Pagination.TotalCount)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

// 空结果页返回空切片而非nil
func TestCatalogService_EmptyPage(t *testing.T) {
	songRepo := new(MockSongRepository)
	svc := NewCatalogService(songRepo)

	songRepo.On("FindMany", mock.Anything, mock.Anything).Return([]*domain.Song(nil), nil)
	songRepo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	page, err := svc.ListCatalog(context.Background(), &CatalogQuery{Page: 1})
	require.NoError(t, err)

	assert.NotNil(t, page.Songs)
	assert.Len(t, page.Songs, 0)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)
	assert.False(t, page.Pagination.HasPrev)
}

// 页大小为0时描述符退回默认页大小计算，不产生除零
func TestNewPagination_ZeroPageSize(t *testing.T) {
	p := NewPagination(1, 0, 45)

	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(45), p.TotalCount)
	assert.True(t, p.HasNext)
}

// 排序字段白名单之外的输入被拒绝
func TestCatalogService_InvalidSortField(t *testing.T) {
	songRepo := new(MockSongRepository)
	svc := NewCatalogService(songRepo)

	_, err := svc.ListCatalog(context.Background(), &CatalogQuery{SortBy: "blob_key; DROP TABLE songs"})
	assert.ErrorIs(t, err, domain.ErrInvalidSortField)
	songRepo.AssertNotCalled(t, "FindMany", mock.Anything, mock.Anything)
}

// 页码与页大小归一化：非法值退回默认，页大小有上限
func TestCatalogService_PageClamping(t *testing.T) {
	songRepo := new(MockSongRepository)
	svc := NewCatalogService(songRepo)

	songRepo.On("FindMany", mock.Anything, mock.MatchedBy(func(f *repository.SongFilter) bool {
		return f.Limit == MaxPageSize && f.Offset == 0
	})).Return([]*domain.Song{}, nil)
	songRepo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := svc.ListCatalog(context.Background(), &CatalogQuery{Page: -3, PageSize: 10000})
	require.NoError(t, err)
	songRepo.AssertExpectations(t)
}

// 检索与流派过滤透传到仓储
func TestCatalogService_FilterPassthrough(t *testing.T) {
	songRepo := new(MockSongRepository)
	svc := NewCatalogService(songRepo)

	songRepo.On("FindMany", mock.Anything, mock.MatchedBy(func(f *repository.SongFilter) bool {
		return f.Search == "jazz night" && f.Genre == "Jazz" && f.SortBy == "play_count" && !f.SortDesc
	})).Return([]*domain.Song{}, nil)
	songRepo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := svc.ListCatalog(context.Background(), &CatalogQuery{
		Search:    "jazz night",
		Genre:     "Jazz",
		SortBy:    "play_count",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	songRepo.AssertExpectations(t)
}

// 用户自己的列表包含私有歌曲：不设置PublicOnly
func TestCatalogService_ListUserSongs(t *testing.T) {
	songRepo := new(MockSongRepository)
	svc := NewCatalogService(songRepo)

	songRepo.On("FindMany", mock.Anything, mock.MatchedBy(func(f *repository.SongFilter) bool {
		return !f.PublicOnly && f.UserID == "u1"
	})).Return([]*domain.Song{{ID: "s1", IsPublic: false}}, nil)
	songRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	page, err := svc.ListUserSongs(context.Background(), "u1", 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Songs, 1)
}
