package service

import (
	"context"

	"catalog-svc/internal/domain"
	"catalog-svc/internal/repository"
)

// 分页边界
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// 排序字段白名单
var allowedSortFields = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"artist":     "artist",
	"play_count": "play_count",
}

// CatalogQuery 目录查询参数，字段均为可选
type CatalogQuery struct {
	Search    string // 全文检索 title/artist/album
	Genre     string // 精确匹配，忽略大小写
	SortBy    string // created_at / title / artist / play_count
	SortOrder string // asc / desc，默认desc
	Page      int    // 1起始
	PageSize  int
}

// Pagination 分页描述符
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// SongPage 一页查询结果
type SongPage struct {
	Songs      []*domain.Song `json:"songs"`
	Pagination Pagination     `json:"pagination"`
}

// CatalogService 目录查询规划器。把可见性过滤、检索、
// 排序与分页组合为对仓储的单次查询。
type CatalogService struct {
	songRepo repository.SongRepository
}

// NewCatalogService 创建目录查询服务
func NewCatalogService(songRepo repository.SongRepository) *CatalogService {
	return &CatalogService{songRepo: songRepo}
}

// ListCatalog 公开目录列表，匿名可访问，始终只返回公开歌曲
func (s *CatalogService) ListCatalog(ctx context.Context, q *CatalogQuery) (*SongPage, error) {
	return s.list(ctx, q, &repository.SongFilter{
		Search:     q.Search,
		Genre:      q.Genre,
		PublicOnly: true,
	})
}

// ListUserSongs 当前用户自己的歌曲列表，公开与私有都包含
func (s *CatalogService) ListUserSongs(ctx context.Context, userID string, page, pageSize int) (*SongPage, error) {
	q := &CatalogQuery{Page: page, PageSize: pageSize}
	return s.list(ctx, q, &repository.SongFilter{UserID: userID})
}

func (s *CatalogService) list(ctx context.Context, q *CatalogQuery, filter *repository.SongFilter) (*SongPage, error) {
	sortBy := "created_at"
	if q.SortBy != "" {
		column, ok := allowedSortFields[q.SortBy]
		if !ok {
			return nil, domain.ErrInvalidSortField
		}
		sortBy = column
	}

	page, pageSize := normalizePage(q.Page, q.PageSize)

	filter.SortBy = sortBy
	filter.SortDesc = q.SortOrder != "asc"
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	songs, err := s.songRepo.FindMany(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.songRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	if songs == nil {
		songs = []*domain.Song{}
	}
	return &SongPage{
		Songs:      songs,
		Pagination: NewPagination(page, pageSize, total),
	}, nil
}

// NewPagination 计算分页描述符。无匹配记录时返回
// 空页而非错误：totalPages为0，两个方向标志均为false。
// 入参应当已经归一化，非法页大小在此兜底以避免除零。
func NewPagination(page, pageSize int, total int64) Pagination {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1 && totalPages > 0,
	}
}

// normalizePage 1起始页码，页大小设默认值并限制上限
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
