package domain

import "errors"

var (
	// 通用错误
	ErrInvalidUserID = errors.New("invalid user id")
	ErrInvalidSongID = errors.New("invalid song id")

	// 歌曲元数据错误
	ErrTitleRequired   = errors.New("song title is required")
	ErrTitleTooLong    = errors.New("song title too long")
	ErrArtistRequired  = errors.New("artist name is required")
	ErrArtistTooLong   = errors.New("artist name too long")
	ErrAlbumTooLong    = errors.New("album name too long")
	ErrGenreTooLong    = errors.New("genre too long")
	ErrInvalidDuration = errors.New("duration cannot be negative")
	ErrInvalidFileSize = errors.New("invalid file size")
	ErrFileTooLarge    = errors.New("file too large")
	ErrMissingBlobRef  = errors.New("missing blob reference")

	// 上传相关错误
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrStorageUnavailable   = errors.New("blob storage unavailable")

	// 歌曲相关错误
	ErrSongNotFound = errors.New("song not found")

	// 歌单相关错误
	ErrPlaylistNotFound           = errors.New("playlist not found")
	ErrInvalidPlaylistID          = errors.New("invalid playlist id")
	ErrInvalidPlaylistName        = errors.New("invalid playlist name")
	ErrPlaylistNameTooLong        = errors.New("playlist name too long")
	ErrPlaylistDescriptionTooLong = errors.New("playlist description too long")
	ErrSongAlreadyInPlaylist      = errors.New("song already in playlist")
	ErrSongNotInPlaylist          = errors.New("song not in playlist")
	ErrPrivateSong                = errors.New("cannot add private song to playlist")

	// 查询相关错误
	ErrInvalidSortField = errors.New("invalid sort field")

	// 权限相关错误
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
