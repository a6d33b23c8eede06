package handlers

import (
	"errors"
	"io"
	"net/http"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/service"
	"go_5_real_english/internal/webutil"
)

const maxAvatarBytes = 5 << 20

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(s service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: s}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, ok := currentUser(w, r, logger)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

// UpdateProfile は multipart/form-data の full_name と avatar を受け取ります。どちらも省略可
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, ok := currentUser(w, r, logger)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+(1<<20))
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		logger.Warn("Failed to parse multipart form", "error", err)
		webutil.HandleError(w, logger, model.NewAppError("INVALID_REQUEST_BODY", "フォームの形式が正しくないか、ファイルが大きすぎます。", "", model.ErrInvalidInput))
		return
	}

	var input model.UpdateProfileInput
	if values, ok := r.MultipartForm.Value["full_name"]; ok && len(values) > 0 {
		input.FullName = &values[0]
	}

	file, header, err := r.FormFile("avatar")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			logger.Warn("Failed to read avatar", "error", err)
			webutil.HandleError(w, logger, model.NewAppError("INVALID_REQUEST_BODY", "画像を読み込めませんでした。", "avatar", model.ErrInvalidInput))
			return
		}
		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		input.Avatar = &model.AvatarUpload{Data: data, ContentType: contentType}
	case errors.Is(err, http.ErrMissingFile):
	default:
		logger.Warn("Failed to get avatar from form", "error", err)
		webutil.HandleError(w, logger, model.NewAppError("INVALID_REQUEST_BODY", "画像を読み込めませんでした。", "avatar", model.ErrInvalidInput))
		return
	}

	profile, err := h.service.UpdateIdentity(r.Context(), userID, input)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}
