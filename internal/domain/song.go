package domain

import "time"

// 允许上传的音频类型
const (
	MimeTypeMPEG = "audio/mpeg"
	MimeTypeWAV  = "audio/wav"
	MimeTypeMP3  = "audio/mp3"
)

// 元数据字段长度限制
const (
	MaxTitleLen       = 200
	MaxArtistLen      = 100
	MaxAlbumLen       = 100
	MaxGenreLen       = 50
	MaxUploadFileSize = 50 * 1024 * 1024 // 50MB
)

// AllowedMimeTypes 音频类型白名单
var AllowedMimeTypes = map[string]bool{
	MimeTypeMPEG: true,
	MimeTypeWAV:  true,
	MimeTypeMP3:  true,
}

// IsAllowedMimeType 判断是否为允许的音频类型
func IsAllowedMimeType(mimeType string) bool {
	return AllowedMimeTypes[mimeType]
}

// Song 歌曲实体，对应一个已上传的音频对象
type Song struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album,omitempty"`
	Genre     string    `json:"genre,omitempty"`
	Duration  int       `json:"duration"` // 秒，客户端上报，不可信
	BlobURL   string    `json:"blob_url"` // 创建后不可变
	BlobKey   string    `json:"-"`        // 创建后不可变
	FileSize  int64     `json:"file_size"`
	MimeType  string    `json:"mime_type"`
	UserID    string    `json:"user_id"` // 创建后不可变
	PlayCount int64     `json:"play_count"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateSongMetadata 验证上传元数据，任何存储访问之前调用
func ValidateSongMetadata(title, artist, album, genre string, duration int) error {
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > MaxTitleLen {
		return ErrTitleTooLong
	}
	if artist == "" {
		return ErrArtistRequired
	}
	if len(artist) > MaxArtistLen {
		return ErrArtistTooLong
	}
	if len(album) > MaxAlbumLen {
		return ErrAlbumTooLong
	}
	if len(genre) > MaxGenreLen {
		return ErrGenreTooLong
	}
	if duration < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Validate 验证完整歌曲记录
func (s *Song) Validate() error {
	if err := ValidateSongMetadata(s.Title, s.Artist, s.Album, s.Genre, s.Duration); err != nil {
		return err
	}
	if s.UserID == "" {
		return ErrInvalidUserID
	}
	if s.BlobURL == "" || s.BlobKey == "" {
		return ErrMissingBlobRef
	}
	if s.FileSize <= 0 {
		return ErrInvalidFileSize
	}
	if !IsAllowedMimeType(s.MimeType) {
		return ErrUnsupportedMediaType
	}
	return nil
}
