package handlers

import (
	"net/http"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/service"
	"go_5_real_english/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type StoryTrailHandler struct {
	trails service.StoryTrailService
	audio  service.SegmentAudioService
}

func NewStoryTrailHandler(trails service.StoryTrailService, audio service.SegmentAudioService) *StoryTrailHandler {
	return &StoryTrailHandler{trails: trails, audio: audio}
}

// GetNextTrail は指定レベルで未完了のトレイルを返します。なければ生成する
func (h *StoryTrailHandler) GetNextTrail(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	level, err := webutil.URLParamInt(r, "level")
	if err != nil {
		logger.Warn("Invalid level in URL", "level", chi.URLParam(r, "level"))
		webutil.HandleError(w, logger, err)
		return
	}

	trail, err := h.trails.GetNextTrail(r.Context(), level, userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if trail == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	logger.Info("Next trail served", "trail_id", trail.ID, "level", trail.DifficultyLevel)
	webutil.RespondWithJSON(w, http.StatusOK, trail, logger)
}

func (h *StoryTrailHandler) GetTrail(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	trailID, err := webutil.URLParamUUID(r, "trail_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	trail, err := h.trails.GetTrailByID(r.Context(), trailID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, trail, logger)
}

// GetSegmentAudio はナレーションの音声URLを返します。初回は合成に数秒かかる
func (h *StoryTrailHandler) GetSegmentAudio(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	segmentID, err := webutil.URLParamUUID(r, "segment_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	url, err := h.audio.GetAudioURL(r.Context(), segmentID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.SegmentAudioResponse{SegmentID: segmentID, AudioURL: url}, logger)
}
