package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"catalog-svc/internal/domain"
)

// 领域错误到HTTP状态码的映射
func TestHandleDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported media type", domain.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"title required", domain.ErrTitleRequired, http.StatusBadRequest},
		{"file too large", domain.ErrFileTooLarge, http.StatusBadRequest},
		{"invalid sort field", domain.ErrInvalidSortField, http.StatusBadRequest},
		{"song not found", domain.ErrSongNotFound, http.StatusNotFound},
		{"playlist not found", domain.ErrPlaylistNotFound, http.StatusNotFound},
		{"song not in playlist", domain.ErrSongNotInPlaylist, http.StatusNotFound},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"private song", domain.ErrPrivateSong, http.StatusForbidden},
		{"duplicate in playlist", domain.ErrSongAlreadyInPlaylist, http.StatusConflict},
		{"storage unavailable", domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handleDomainError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

// 包装过的错误同样能映射：上传时存储故障带有底层原因
func TestHandleDomainError_Wrapped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	wrapped := fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, "connection refused")
	handleDomainError(c, wrapped)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// 内部错误细节不回传给客户端
	assert.NotContains(t, w.Body.String(), "connection refused")
}
