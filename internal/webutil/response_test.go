package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_5_real_english/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestMapErrorToStatusCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"NotFound", model.ErrNotFound, http.StatusNotFound},
		{"InvalidSegment", model.ErrInvalidSegment, http.StatusUnprocessableEntity},
		{"InvalidInput (ラップ)", fmt.Errorf("x: %w", model.ErrInvalidInput), http.StatusBadRequest},
		{"Conflict", model.ErrConflict, http.StatusConflict},
		{"Unauthorized", model.ErrUnauthorized, http.StatusUnauthorized},
		{"Forbidden", model.ErrForbidden, http.StatusForbidden},
		{"GenerationFailed", model.ErrGenerationFailed, http.StatusBadGateway},
		{"Persistence", model.ErrPersistence, http.StatusInternalServerError},
		{"GenerationFailed は原因の InvalidInput より優先", errors.Join(model.ErrGenerationFailed, fmt.Errorf("x: %w", model.ErrInvalidInput)), http.StatusBadGateway},
		{"Persistence は原因の Conflict より優先", errors.Join(model.ErrPersistence, model.ErrConflict), http.StatusInternalServerError},
		{"不明なエラー", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Run("正常系: AppError の詳細をそのまま返す", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleError(rr, discardLogger, model.NewAppError("TRAIL_NOT_FOUND", "見つかりません。", "trail_id", model.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		var body model.APIErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "TRAIL_NOT_FOUND", body.Error.Code)
		assert.Equal(t, "trail_id", body.Error.Field)
	})

	t.Run("異常系: 素のセンチネルは 500 に丸める", func(t *testing.T) {
		rr := httptest.NewRecorder()
		HandleError(rr, discardLogger, model.ErrNotFound)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		var body model.APIErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
	})
}

func TestNewValidationErrorResponse(t *testing.T) {
	type input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	err := Validator.Struct(input{Email: "bad", Password: "short"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	appErr := NewValidationErrorResponse(verrs)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Detail.Code)
	assert.Equal(t, "email,password", appErr.Detail.Field)
	assert.Contains(t, appErr.Detail.Message, "メールアドレス")
	assert.ErrorIs(t, appErr, model.ErrInvalidInput)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("正常系", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ken"}`))
		var p payload
		require.NoError(t, DecodeJSONBody(req, &p))
		assert.Equal(t, "ken", p.Name)
	})

	t.Run("異常系: 未知のフィールド", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ken","role":"admin"}`))
		var p payload
		assert.ErrorIs(t, DecodeJSONBody(req, &p), model.ErrInvalidInput)
	})

	t.Run("異常系: 壊れたJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var p payload
		assert.ErrorIs(t, DecodeJSONBody(req, &p), model.ErrInvalidInput)
	})
}

func TestURLParams(t *testing.T) {
	r := chi.NewRouter()
	var gotLevel int
	var levelErr, idErr error
	r.Get("/levels/{level}/trails/{trailId}", func(w http.ResponseWriter, req *http.Request) {
		gotLevel, levelErr = URLParamInt(req, "level")
		_, idErr = URLParamUUID(req, "trailId")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/levels/3/trails/not-a-uuid", nil))
	require.NoError(t, levelErr)
	assert.Equal(t, 3, gotLevel)
	assert.ErrorIs(t, idErr, model.ErrInvalidInput)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/levels/x/trails/"+"00000000-0000-0000-0000-000000000001", nil))
	assert.ErrorIs(t, levelErr, model.ErrInvalidInput)
	assert.NoError(t, idErr)
}
