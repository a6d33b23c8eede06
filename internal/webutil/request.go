package webutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go_5_real_english/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DecodeJSONBody はリクエストボディをデコードします。未知のフィールドはエラー
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return nil
}

// URLParamUUID はパスパラメータを UUID として取り出します
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_PATH_PARAM", fmt.Sprintf("%sの形式が正しくありません。", name), name, model.ErrInvalidInput)
	}
	return id, nil
}

// URLParamInt はパスパラメータを整数として取り出します
func URLParamInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewAppError("INVALID_PATH_PARAM", fmt.Sprintf("%sは整数で指定してください。", name), name, model.ErrInvalidInput)
	}
	return n, nil
}
