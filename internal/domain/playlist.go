package domain

import (
	"encoding/json"
	"time"
)

// 歌单字段长度限制
const (
	MaxPlaylistNameLen = 100
	MaxDescriptionLen  = 500
)

// Playlist 歌单实体，持有对歌曲的非拥有引用
type Playlist struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"` // 创建后不可变
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	songs       []*Song
	songsLoaded bool
}

// SetSongs 装载歌单歌曲，读取路径完成JOIN之后调用
func (p *Playlist) SetSongs(songs []*Song) {
	p.songs = songs
	p.songsLoaded = true
}

// SongsLoaded 歌曲集合是否已装载
func (p *Playlist) SongsLoaded() bool {
	return p.songsLoaded
}

// Songs 返回已装载的歌曲集合
func (p *Playlist) Songs() []*Song {
	return p.songs
}

// SongCount 歌曲数量，未装载时为0
func (p *Playlist) SongCount() int {
	if !p.songsLoaded {
		return 0
	}
	return len(p.songs)
}

// TotalDuration 总时长（秒），未装载时为0
func (p *Playlist) TotalDuration() int {
	if !p.songsLoaded {
		return 0
	}
	total := 0
	for _, s := range p.songs {
		total += s.Duration
	}
	return total
}

// MarshalJSON 序列化时附带派生字段
func (p *Playlist) MarshalJSON() ([]byte, error) {
	type alias Playlist
	out := struct {
		*alias
		Songs         []*Song `json:"songs,omitempty"`
		SongCount     int     `json:"song_count"`
		TotalDuration int     `json:"total_duration"`
	}{
		alias:         (*alias)(p),
		SongCount:     p.SongCount(),
		TotalDuration: p.TotalDuration(),
	}
	if p.songsLoaded {
		out.Songs = p.songs
	}
	return json.Marshal(out)
}

// Validate 验证歌单数据
func (p *Playlist) Validate() error {
	if p.UserID == "" {
		return ErrInvalidUserID
	}
	return ValidatePlaylistFields(p.Name, p.Description)
}

// ValidatePlaylistFields 验证歌单名称与描述
func ValidatePlaylistFields(name, description string) error {
	if name == "" {
		return ErrInvalidPlaylistName
	}
	if len(name) > MaxPlaylistNameLen {
		return ErrPlaylistNameTooLong
	}
	if len(description) > MaxDescriptionLen {
		return ErrPlaylistDescriptionTooLong
	}
	return nil
}

// PlaylistEntry 歌单-歌曲关联实体
type PlaylistEntry struct {
	PlaylistID string    `json:"playlist_id"`
	SongID     string    `json:"song_id"`
	Position   int       `json:"position"` // 追加序，只增不改
	AddedAt    time.Time `json:"added_at"`
}
