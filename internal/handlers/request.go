package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/webutil"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// bindJSON はボディをデコードしてバリデーションします。失敗時はレスポンスを書いて false を返す
func bindJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := webutil.DecodeJSONBody(r, dst); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return false
	}

	if err := webutil.Validator.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", "errors", validationErrors.Error())
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return false
	}
	return true
}

// currentUser は認証済みユーザーのIDを返します。取れなければ 401 を書いて false
func currentUser(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", "error", err)
		webutil.HandleError(w, logger, err)
		return uuid.Nil, false
	}
	return userID, true
}
