package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go_5_real_english/internal/model"

	"google.golang.org/api/idtoken"
)

type tokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier は Google の公開鍵で ID トークンの署名と発行先 (aud) を検証します
type GoogleVerifier struct {
	clientIDs []string
	validate  tokenValidator
}

func NewGoogleVerifier(clientIDs []string) *GoogleVerifier {
	return &GoogleVerifier{clientIDs: clientIDs, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*model.GoogleIdentity, error) {
	if len(v.clientIDs) == 0 {
		return nil, errors.New("google: no client ids configured")
	}
	// aud は複数のクライアント (iOS/Android/Web) があり得るので自前で照合する
	payload, err := v.validate(ctx, rawToken, "")
	if err != nil {
		return nil, fmt.Errorf("google: validate id token: %w", err)
	}
	if !slices.Contains(v.clientIDs, payload.Audience) {
		return nil, fmt.Errorf("google: unexpected audience %q", payload.Audience)
	}
	return identityFromClaims(payload)
}

func identityFromClaims(payload *idtoken.Payload) (*model.GoogleIdentity, error) {
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google: token has no email")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("google: email is not verified")
	}

	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email
	}
	var avatar *string
	if picture, _ := payload.Claims["picture"].(string); picture != "" {
		avatar = &picture
	}
	return &model.GoogleIdentity{
		Subject:   payload.Subject,
		Email:     email,
		FullName:  name,
		AvatarURL: avatar,
	}, nil
}
