package handlers

import (
	"net/http"
	"strconv"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/service"
	"go_5_real_english/internal/webutil"
)

type ImmersionHandler struct {
	service service.ImmersionService
}

func NewImmersionHandler(s service.ImmersionService) *ImmersionHandler {
	return &ImmersionHandler{service: s}
}

// GetFeed は未視聴のショートを返します。category と limit はクエリで指定
func (h *ImmersionHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, ok := currentUser(w, r, logger)
	if !ok {
		return
	}

	category := model.ShortCategory(r.URL.Query().Get("category"))
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			webutil.HandleError(w, logger, model.NewAppError("INVALID_QUERY_PARAM", "limitは1以上の整数で指定してください。", "limit", model.ErrInvalidInput))
			return
		}
		limit = n
	}

	feed, err := h.service.GetFeed(r.Context(), userID, category, limit)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, feed, logger)
}

func (h *ImmersionHandler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	shortID, err := webutil.URLParamUUID(r, "short_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.MarkWatched(r.Context(), userID, shortID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "視聴を記録しました。"}, logger)
}

// ToggleSave は保存状態を反転します
func (h *ImmersionHandler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	shortID, err := webutil.URLParamUUID(r, "short_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.ToggleSave(r.Context(), userID, shortID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *ImmersionHandler) GetSaved(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, ok := currentUser(w, r, logger)
	if !ok {
		return
	}

	saved, err := h.service.GetSaved(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, saved, logger)
}
