package handlers

import (
	"net/http"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/service"
	"go_5_real_english/internal/webutil"
)

type ProgressHandler struct {
	service service.CompletionService
}

func NewProgressHandler(s service.CompletionService) *ProgressHandler {
	return &ProgressHandler{service: s}
}

// CompleteTrail はトレイルの完了を記録し、レベルアップの結果を返します
func (h *ProgressHandler) CompleteTrail(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	trailID, err := webutil.URLParamUUID(r, "trail_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.service.CompleteTrail(r.Context(), userID, trailID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Trail completed", "trail_id", trailID, "leveled_up", result.LeveledUp, "new_level", result.NewLevel)
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
