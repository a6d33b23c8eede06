package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestGoogleVerifier_Verify(t *testing.T) {
	payloadFor := func(aud string, claims map[string]interface{}) tokenValidator {
		return func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Audience: aud, Subject: "sub-1", Claims: claims}, nil
		}
	}

	tests := []struct {
		name      string
		clientIDs []string
		validate  tokenValidator
		wantName  string
		wantErr   bool
	}{
		{
			name:      "正常系: 許可されたクライアント",
			clientIDs: []string{"web", "ios"},
			validate:  payloadFor("ios", map[string]interface{}{"email": "a@example.com", "email_verified": true, "name": "Aiko", "picture": "https://p/a.png"}),
			wantName:  "Aiko",
		},
		{
			name:      "正常系: name がなければメールアドレスを使う",
			clientIDs: []string{"web"},
			validate:  payloadFor("web", map[string]interface{}{"email": "b@example.com"}),
			wantName:  "b@example.com",
		},
		{
			name:      "異常系: 想定外の aud",
			clientIDs: []string{"web"},
			validate:  payloadFor("other", map[string]interface{}{"email": "a@example.com"}),
			wantErr:   true,
		},
		{
			name:      "異常系: メール未確認",
			clientIDs: []string{"web"},
			validate:  payloadFor("web", map[string]interface{}{"email": "a@example.com", "email_verified": false}),
			wantErr:   true,
		},
		{
			name:      "異常系: 署名検証の失敗",
			clientIDs: []string{"web"},
			validate: func(context.Context, string, string) (*idtoken.Payload, error) {
				return nil, errors.New("bad signature")
			},
			wantErr: true,
		},
		{
			name:     "異常系: クライアントIDが未設定",
			validate: payloadFor("web", map[string]interface{}{"email": "a@example.com"}),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &GoogleVerifier{clientIDs: tt.clientIDs, validate: tt.validate}
			got, err := v.Verify(context.Background(), "raw")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "sub-1", got.Subject)
			assert.Equal(t, tt.wantName, got.FullName)
		})
	}
}
