package handler

import (
	"github.com/gin-gonic/gin"

	"catalog-svc/internal/service"
	"catalog-svc/pkg/logger"
)

// PlaylistHandler 歌单相关接口处理器
type PlaylistHandler struct {
	playlistService *service.PlaylistService
	log             logger.Logger
}

// NewPlaylistHandler 创建歌单处理器
func NewPlaylistHandler(playlistService *service.PlaylistService, log logger.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		playlistService: playlistService,
		log:             log,
	}
}

// Create 创建歌单（默认私有）
// POST /api/playlists
func (h *PlaylistHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CoverURL    string `json:"cover_url"`
		IsPublic    bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	playlist, err := h.playlistService.Create(ctx, userID, req.Name, req.Description, req.CoverURL, req.IsPublic)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Created(c, playlist)
}

// Get 获取歌单详情（含歌曲列表）
// GET /api/playlists/:id
func (h *PlaylistHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	playlist, err := h.playlistService.Get(ctx, c.Param("id"), getUserID(c))
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, playlist)
}

// ListMine 获取本人歌单
// GET /api/playlists/my?page=&page_size=
func (h *PlaylistHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	page := getIntParam(c, "page", 1)
	pageSize := getIntParam(c, "page_size", service.DefaultPageSize)

	result, err := h.playlistService.ListMine(ctx, userID, page, pageSize)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, result)
}

// ListPublic 浏览公开歌单
// GET /api/playlists/public?search=&page=&page_size=
func (h *PlaylistHandler) ListPublic(c *gin.Context) {
	ctx := c.Request.Context()

	page := getIntParam(c, "page", 1)
	pageSize := getIntParam(c, "page_size", service.DefaultPageSize)

	result, err := h.playlistService.ListPublic(ctx, c.Query("search"), page, pageSize)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, result)
}

// Update 编辑歌单（仅所有者）
// PUT /api/playlists/:id
func (h *PlaylistHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		CoverURL    *string `json:"cover_url"`
		IsPublic    *bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	playlist, err := h.playlistService.Update(ctx, c.Param("id"), userID, &service.UpdatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, playlist)
}

// Delete 删除歌单（仅所有者）
// DELETE /api/playlists/:id
func (h *PlaylistHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)
	playlistID := c.Param("id")

	if err := h.playlistService.Delete(ctx, playlistID, userID); err != nil {
		h.log.WithFields(
			logger.String("request_id", getRequestID(c)),
			logger.String("user_id", userID),
			logger.String("playlist_id", playlistID),
			logger.String("error", err.Error()),
		).Warn("Playlist delete failed")

		handleDomainError(c, err)
		return
	}

	Success(c, gin.H{"message": "Playlist deleted successfully"})
}

// AddSong 添加歌曲到歌单
// POST /api/playlists/:id/songs
// Body: {"song_id": "xxx"}
func (h *PlaylistHandler) AddSong(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	var req struct {
		SongID string `json:"song_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	playlist, err := h.playlistService.AddSong(ctx, c.Param("id"), req.SongID, userID)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, playlist)
}

// RemoveSong 从歌单移除歌曲
// DELETE /api/playlists/:id/songs/:song_id
func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	playlist, err := h.playlistService.RemoveSong(ctx, c.Param("id"), c.Param("song_id"), userID)
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, playlist)
}
