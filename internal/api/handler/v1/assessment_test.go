package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazarkampus/bazar-api/internal/api/middleware"
	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository"
)

type stubUserService struct {
	users map[uint]domain.User
}

func (s *stubUserService) GetUser(_ context.Context, id uint) (domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserService) ListLecturers(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range s.users {
		if u.IsLecturer() {
			out = append(out, u)
		}
	}
	return out, nil
}

type stubAssessmentService struct {
	AssessmentService

	ranking []domain.RankingEntry
}

func (s *stubAssessmentService) ComputeRanking(_ context.Context, _ uint) ([]domain.RankingEntry, error) {
	return s.ranking, nil
}

func TestHandleGetRanking_RoleGate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	users := &stubUserService{users: map[uint]domain.User{
		1: {ID: 1, Name: "Admin", Role: domain.RoleAdmin},
		2: {ID: 2, Name: "Dosen", Role: domain.RoleLecturer},
		3: {ID: 3, Name: "Mahasiswa", Role: domain.RoleUser},
	}}
	svc := &stubAssessmentService{ranking: []domain.RankingEntry{
		{Business: domain.Business{ID: 5, ProductName: "Keripik Pedas"}, Total: 87},
	}}
	handler := NewAssessmentHandler(svc, users)

	doRequest := func(t *testing.T, userID uint) *httptest.ResponseRecorder {
		t.Helper()

		router := gin.New()
		router.GET("/categories/:categoryID/ranking", func(ctx *gin.Context) {
			ctx.Set(middleware.ContextKeyUserID, userID)
			handler.HandleGetRanking(ctx)
		})

		req, err := http.NewRequest(http.MethodGet, "/categories/1/ranking", nil)
		require.NoError(t, err)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("admin reads the ranking", func(t *testing.T) {
		recorder := doRequest(t, 1)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"total":87`)
	})

	t.Run("lecturer reads the ranking", func(t *testing.T) {
		recorder := doRequest(t, 2)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("plain user is forbidden", func(t *testing.T) {
		recorder := doRequest(t, 3)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), `"total"`)
	})
}
