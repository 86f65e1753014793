package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maktub/internal/letters"
	"maktub/internal/model"
	"maktub/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticFetcher struct {
	letters []model.LetterRecord
}

func (f *staticFetcher) FetchLetters(ctx context.Context) ([]model.LetterRecord, error) {
	return f.letters, nil
}

func lettersFixture(n int) []model.LetterRecord {
	out := make([]model.LetterRecord, n)
	for i := range out {
		out[i] = model.LetterRecord{
			ID:           fmt.Sprintf("LTR-%03d", i),
			Recipient:    fmt.Sprintf("جهة %d", i),
			ReviewStatus: model.StatusWaiting,
		}
	}
	return out
}

func newLettersRouter(t *testing.T, records []model.LetterRecord) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()
	cache := letters.NewCache(context.Background(), 5*time.Minute, letters.NopStore{}, logger)
	svc := letters.NewService(cache, &staticFetcher{letters: records}, logger)
	h := NewLettersHandler(svc, 20, logger)

	r := gin.New()
	auth := r.Group("/api")
	auth.Use(AuthMiddleware("test-secret"))
	auth.GET("/letters", h.GetLetters)
	return r
}

func authedGet(t *testing.T, r *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := util.GenerateJWT("sara@example.com", "user", "test-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetLettersRequiresToken(t *testing.T) {
	r := newLettersRouter(t, lettersFixture(3))

	req := httptest.NewRequest(http.MethodGet, "/api/letters", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetLettersPaginates(t *testing.T) {
	r := newLettersRouter(t, lettersFixture(45))

	w := authedGet(t, r, "/api/letters?page=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Letters    []model.LetterRecord `json:"letters"`
		Page       int                  `json:"page"`
		TotalItems int                  `json:"totalItems"`
		TotalPages int                  `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 45, body.TotalItems)
	assert.Equal(t, 3, body.TotalPages)
	require.Len(t, body.Letters, 20)
	assert.Equal(t, "LTR-020", body.Letters[0].ID)
}

func TestGetLettersOutOfRangePageClamps(t *testing.T) {
	r := newLettersRouter(t, lettersFixture(45))

	w := authedGet(t, r, "/api/letters?page=99")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Page int `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Page, "invalid page request leaves pagination on page 1")
}

func TestGetLettersSearchShrinksPagination(t *testing.T) {
	records := lettersFixture(45)
	for i := 0; i < 5; i++ {
		records[i*9].Recipient = "مؤسسة احمد"
	}
	r := newLettersRouter(t, records)

	w := authedGet(t, r, "/api/letters?search=احمد")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalItems int `json:"totalItems"`
		TotalPages int `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 5, body.TotalItems)
	assert.Equal(t, 1, body.TotalPages)
}

func TestGetLettersCustomPageSize(t *testing.T) {
	r := newLettersRouter(t, lettersFixture(45))

	w := authedGet(t, r, "/api/letters?itemsPerPage=10&page=5")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Letters    []model.LetterRecord `json:"letters"`
		TotalPages int                  `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 5, body.TotalPages)
	assert.Len(t, body.Letters, 5)
}
