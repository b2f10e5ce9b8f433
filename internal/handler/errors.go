package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-svc/internal/domain"
)

// handleDomainError 把领域错误映射为HTTP响应。
// 未识别的错误一律按500处理，不向客户端泄漏内部细节。
func handleDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		Error(c, http.StatusUnsupportedMediaType, 415, err.Error())

	case errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidSongID),
		errors.Is(err, domain.ErrInvalidPlaylistID),
		errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrTitleTooLong),
		errors.Is(err, domain.ErrArtistRequired),
		errors.Is(err, domain.ErrArtistTooLong),
		errors.Is(err, domain.ErrAlbumTooLong),
		errors.Is(err, domain.ErrGenreTooLong),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidFileSize),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrMissingBlobRef),
		errors.Is(err, domain.ErrInvalidPlaylistName),
		errors.Is(err, domain.ErrPlaylistNameTooLong),
		errors.Is(err, domain.ErrPlaylistDescriptionTooLong),
		errors.Is(err, domain.ErrInvalidSortField):
		BadRequest(c, err.Error())

	case errors.Is(err, domain.ErrSongNotFound),
		errors.Is(err, domain.ErrPlaylistNotFound),
		errors.Is(err, domain.ErrSongNotInPlaylist):
		NotFound(c, err.Error())

	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrPrivateSong):
		Forbidden(c, err.Error())

	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(c, err.Error())

	case errors.Is(err, domain.ErrSongAlreadyInPlaylist):
		Conflict(c, err.Error())

	case errors.Is(err, domain.ErrStorageUnavailable):
		ServiceUnavailable(c, "storage temporarily unavailable")

	default:
		InternalError(c, "internal server error")
	}
}
