package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"go_5_real_english/internal/handlers"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/service/mocks"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newImmersionRouter(svc *mocks.ImmersionService) http.Handler {
	h := handlers.NewImmersionHandler(svc)
	return newAuthedRouter(func(r chi.Router) {
		r.Get("/immersion/feed", h.GetFeed)
		r.Post("/immersion/shorts/{short_id}/watched", h.MarkWatched)
		r.Post("/immersion/shorts/{short_id}/save", h.ToggleSave)
		r.Get("/immersion/saved", h.GetSaved)
	})
}

func TestImmersionHandler_GetFeed(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		query      string
		setupMock  func(m *mocks.ImmersionService)
		wantStatus int
	}{
		{
			name:  "正常系: クエリなし",
			query: "",
			setupMock: func(m *mocks.ImmersionService) {
				m.On("GetFeed", mock.Anything, userID, model.ShortCategory(""), 0).Return([]model.ShortResponse{}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "正常系: カテゴリと件数",
			query: "?category=funny&limit=5",
			setupMock: func(m *mocks.ImmersionService) {
				m.On("GetFeed", mock.Anything, userID, model.ShortCategoryFunny, 5).Return([]model.ShortResponse{{}}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "異常系: limit が数値でない",
			query:      "?limit=many",
			setupMock:  func(m *mocks.ImmersionService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "異常系: 不正なカテゴリ",
			query: "?category=horror",
			setupMock: func(m *mocks.ImmersionService) {
				m.On("GetFeed", mock.Anything, userID, model.ShortCategory("horror"), 0).
					Return(nil, model.NewAppError("INVALID_CATEGORY", "カテゴリの指定が正しくありません。", "category", model.ErrInvalidInput)).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewImmersionService(t)
			tc.setupMock(svc)

			rr := serve(newImmersionRouter(svc), newRequest(t, http.MethodGet, "/immersion/feed"+tc.query, nil, &userID))
			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestImmersionHandler_MarkWatched(t *testing.T) {
	userID, shortID := uuid.New(), uuid.New()
	path := "/immersion/shorts/" + shortID.String() + "/watched"

	t.Run("正常系", func(t *testing.T) {
		svc := mocks.NewImmersionService(t)
		svc.On("MarkWatched", mock.Anything, userID, shortID).Return(nil).Once()

		rr := serve(newImmersionRouter(svc), newRequest(t, http.MethodPost, path, nil, &userID))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("異常系: 動画が存在しない", func(t *testing.T) {
		svc := mocks.NewImmersionService(t)
		svc.On("MarkWatched", mock.Anything, userID, shortID).Return(notFound("SHORT_NOT_FOUND")).Once()

		rr := serve(newImmersionRouter(svc), newRequest(t, http.MethodPost, path, nil, &userID))
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "SHORT_NOT_FOUND", decodeError(t, rr).Code)
	})
}

func TestImmersionHandler_ToggleSaveAndSaved(t *testing.T) {
	userID, shortID := uuid.New(), uuid.New()
	svc := mocks.NewImmersionService(t)
	svc.On("ToggleSave", mock.Anything, userID, shortID).Return(&model.ToggleSaveResponse{ShortID: shortID, IsSaved: true}, nil).Once()
	svc.On("GetSaved", mock.Anything, userID).Return([]model.ShortResponse{{ImmersionShort: model.ImmersionShort{ID: shortID}, IsSaved: true}}, nil).Once()
	router := newImmersionRouter(svc)

	rr := serve(router, newRequest(t, http.MethodPost, "/immersion/shorts/"+shortID.String()+"/save", nil, &userID))
	require.Equal(t, http.StatusOK, rr.Code)
	var toggled model.ToggleSaveResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &toggled))
	assert.True(t, toggled.IsSaved)

	rr = serve(router, newRequest(t, http.MethodGet, "/immersion/saved", nil, &userID))
	require.Equal(t, http.StatusOK, rr.Code)
	var saved []map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, shortID.String(), saved[0]["id"])
	assert.Equal(t, true, saved[0]["is_saved"])
}
