package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"catalog-svc/internal/service"
	"catalog-svc/pkg/logger"
)

// SongHandler 歌曲相关接口处理器
type SongHandler struct {
	songService    *service.SongService
	catalogService *service.CatalogService
	log            logger.Logger
}

// NewSongHandler 创建歌曲处理器
func NewSongHandler(songService *service.SongService, catalogService *service.CatalogService, log logger.Logger) *SongHandler {
	return &SongHandler{
		songService:    songService,
		catalogService: catalogService,
		log:            log,
	}
}

// Upload 上传歌曲
// POST /api/songs (multipart/form-data: audio + 元数据字段)
func (h *SongHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		BadRequest(c, "Missing audio file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "Cannot read audio file")
		return
	}
	defer file.Close()

	duration := 0
	if raw := c.PostForm("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil {
			BadRequest(c, "Invalid duration")
			return
		}
	}
	// 歌曲默认公开，显式传false才私有
	isPublic := c.DefaultPostForm("is_public", "true") != "false"

	song, err := h.songService.Upload(ctx, &service.UploadInput{
		Reader:       file,
		Size:         fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		OriginalName: fileHeader.Filename,
		UserID:       userID,
		Title:        c.PostForm("title"),
		Artist:       c.PostForm("artist"),
		Album:        c.PostForm("album"),
		Genre:        c.PostForm("genre"),
		Duration:     duration,
		IsPublic:     isPublic,
	})
	if err != nil {
		h.log.WithFields(
			logger.String("request_id", getRequestID(c)),
			logger.String("user_id", userID),
			logger.String("error", err.Error()),
		).Warn("Song upload failed")

		handleDomainError(c, err)
		return
	}

	Created(c, song)
}

// ListCatalog 浏览公开目录
// GET /api/songs?search=&genre=&sort_by=&sort_order=&page=&page_size=
func (h *SongHandler) ListCatalog(c *gin.Context) {
	ctx := c.Request.Context()

	page, err := h.catalogService.ListCatalog(ctx, &service.CatalogQuery{
		Search:    c.Query("search"),
		Genre:     c.Query("genre"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      getIntParam(c, "page", 1),
		PageSize:  getIntParam(c, "page_size", service.DefaultPageSize),
	})
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, page)
}

// ListMine 获取本人上传的歌曲（含私有）
// GET /api/songs/my?page=&page_size=
func (h *SongHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	page, err := h.catalogService.ListUserSongs(ctx, userID,
		getIntParam(c, "page", 1), getIntParam(c, "page_size", service.DefaultPageSize))
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, page)
}

// Get 获取单曲详情
// GET /api/songs/:id
func (h *SongHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	song, err := h.songService.Get(ctx, c.Param("id"), getUserID(c))
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, song)
}

// Update 编辑歌曲元数据（仅所有者）
// PUT /api/songs/:id
func (h *SongHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)

	var req struct {
		Title    *string `json:"title"`
		Artist   *string `json:"artist"`
		Album    *string `json:"album"`
		Genre    *string `json:"genre"`
		IsPublic *bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	song, err := h.songService.Update(ctx, c.Param("id"), userID, &service.UpdateSongInput{
		Title:    req.Title,
		Artist:   req.Artist,
		Album:    req.Album,
		Genre:    req.Genre,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, song)
}

// Delete 下架歌曲（仅所有者）
// DELETE /api/songs/:id
func (h *SongHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := getUserID(c)
	songID := c.Param("id")

	if err := h.songService.Retire(ctx, songID, userID); err != nil {
		h.log.WithFields(
			logger.String("request_id", getRequestID(c)),
			logger.String("user_id", userID),
			logger.String("song_id", songID),
			logger.String("error", err.Error()),
		).Warn("Song retire failed")

		handleDomainError(c, err)
		return
	}

	Success(c, gin.H{"message": "Song deleted successfully"})
}

// Play 记录一次播放
// POST /api/songs/:id/play
func (h *SongHandler) Play(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.songService.RecordPlay(ctx, c.Param("id"), getUserID(c))
	if err != nil {
		handleDomainError(c, err)
		return
	}

	Success(c, gin.H{"play_count": count})
}
