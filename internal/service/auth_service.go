//go:generate mockery --name AuthService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go_5_real_english/internal/config"
	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpLength        = 6
	otpTTL           = 10 * time.Minute
	resetTokenTTL    = 1 * time.Hour
	invalidOTPCode   = "INVALID_OTP"
	invalidTokenCode = "INVALID_TOKEN"
)

type AuthService interface {
	SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error)
	SignIn(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	SignInWithGoogle(ctx context.Context, idToken string) (*model.AuthResponse, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	// ForgotPassword は登録済みのメールアドレスに確認コードを送ります。未登録でも成功を返す
	ForgotPassword(ctx context.Context, email string) error
	// VerifyOTP は確認コードを検証し、パスワード再設定用のトークンを返します
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	identityRepo repository.IdentityRepository
	tokenRepo    repository.TokenRepository
	mailer       Mailer
	google       GoogleTokenVerifier
	cfg          *config.Config
}

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	identityRepo repository.IdentityRepository,
	tokenRepo repository.TokenRepository,
	mailer Mailer,
	google GoogleTokenVerifier,
	cfg *config.Config,
) AuthService {
	return &authService{
		db:           db,
		userRepo:     userRepo,
		identityRepo: identityRepo,
		tokenRepo:    tokenRepo,
		mailer:       mailer,
		google:       google,
		cfg:          cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp はメールアドレスとパスワードでユーザーを作成し、トークンを発行します
func (s *authService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	logger := middleware.GetLogger(ctx).With("email", email)
	var newUser *model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.userRepo.FindByEmail(ctx, tx, email)
		if err == nil {
			logger.Warn("Email already exists")
			return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
		}

		user := &model.User{
			ID:       uuid.New(),
			FullName: strings.TrimSpace(req.FullName),
			Email:    email,
			Level:    1,
		}
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during user creation (race condition)", "error", err)
				return model.NewAppError("DUPLICATE_EMAIL", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
			}
			logger.Error("Failed to create user in DB", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}

		hash := string(hashedPassword)
		identity := &model.Identity{
			UserID:       user.ID,
			AuthProvider: model.AuthProviderLocal,
			ProviderID:   email,
			PasswordHash: &hash,
		}
		if err := s.identityRepo.Create(ctx, tx, identity); err != nil {
			logger.Error("Failed to create local identity", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}
		newUser = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User signed up", "user_id", newUser.ID)
	return s.issueToken(ctx, newUser)
}

// SignIn はパスワードを検証し、JWTを返します
func (s *authService) SignIn(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	logger := middleware.GetLogger(ctx).With("email", email)
	authFailed := model.NewAppError("AUTHENTICATION_FAILED", "メールアドレスまたはパスワードが正しくありません。", "", model.ErrUnauthorized)

	user, err := s.userRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Sign-in failed: user not found")
			return nil, authFailed
		}
		logger.Error("Sign-in failed: db error on FindByEmail", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}

	identity, err := s.identityRepo.FindByUserAndProvider(ctx, s.db, user.ID, model.AuthProviderLocal)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Sign-in failed: no password identity", "user_id", user.ID)
			return nil, model.NewAppError("PASSWORD_NOT_SET", "このアカウントはGoogleでログインしてください。", "", model.ErrUnauthorized)
		}
		logger.Error("Sign-in failed: db error on FindByUserAndProvider", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	if identity.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*identity.PasswordHash), []byte(req.Password)) != nil {
		logger.Warn("Sign-in failed: password mismatch", "user_id", user.ID)
		return nil, authFailed
	}

	logger.Info("Sign-in successful", "user_id", user.ID)
	return s.issueToken(ctx, user)
}

// SignInWithGoogle は ID トークンを検証し、初回ならユーザーを作成、既存のメールアドレスなら連携します
func (s *authService) SignInWithGoogle(ctx context.Context, idToken string) (*model.AuthResponse, error) {
	logger := middleware.GetLogger(ctx)

	if s.google == nil {
		return nil, model.NewAppError("GOOGLE_SIGNIN_DISABLED", "Googleログインは利用できません。", "", model.ErrForbidden)
	}
	gid, err := s.google.Verify(ctx, idToken)
	if err != nil {
		logger.Warn("Google ID token verification failed", "error", err)
		return nil, model.NewAppError("INVALID_GOOGLE_TOKEN", "Googleの認証に失敗しました。", "id_token", model.ErrUnauthorized)
	}
	email := normalizeEmail(gid.Email)

	var user *model.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identity, err := s.identityRepo.FindByProvider(ctx, tx, model.AuthProviderGoogle, gid.Subject)
		if err == nil {
			u, err := s.userRepo.FindByID(ctx, tx, identity.UserID)
			if err != nil {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
			}
			user = u
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		// 同じメールアドレスのユーザーがいれば Google を連携する
		u, err := s.userRepo.FindByEmail(ctx, tx, email)
		switch {
		case err == nil:
			user = u
		case errors.Is(err, model.ErrNotFound):
			user = &model.User{
				ID:        uuid.New(),
				FullName:  gid.FullName,
				Email:     email,
				AvatarURL: gid.AvatarURL,
				Level:     1,
			}
			if err := s.userRepo.Create(ctx, tx, user); err != nil {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
			}
			logger.Info("User created via Google sign-in", "user_id", user.ID)
		default:
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}

		if err := s.identityRepo.Create(ctx, tx, &model.Identity{
			UserID:       user.ID,
			AuthProvider: model.AuthProviderGoogle,
			ProviderID:   gid.Subject,
		}); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("DUPLICATE_IDENTITY", "このGoogleアカウントは既に連携されています。", "", model.ErrConflict)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Google sign-in failed", "error", err)
		return nil, err
	}

	logger.Info("Google sign-in successful", "user_id", user.ID)
	return s.issueToken(ctx, user)
}

func (s *authService) GetMe(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	logger := middleware.GetLogger(ctx)
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User not found", "user_id", userID.String())
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding user by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	resp := model.NewUserResponse(user)
	return &resp, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	logger := middleware.GetLogger(ctx).With("email", email)

	user, err := s.userRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// ユーザーが存在しない場合でも、それを悟られないように成功として扱う
			logger.Warn("Password reset requested for non-existent email")
			return nil
		}
		return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}

	code, err := generateOTP()
	if err != nil {
		return model.NewAppError("INTERNAL_SERVER_ERROR", "確認コードの生成に失敗しました。", "", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return model.NewAppError("INTERNAL_SERVER_ERROR", "確認コードの生成に失敗しました。", "", err)
	}
	if err := s.tokenRepo.ReplacePasswordResetOTP(ctx, s.db, &model.PasswordResetOTP{
		UserID:    user.ID,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(otpTTL),
	}); err != nil {
		return model.NewAppError("INTERNAL_SERVER_ERROR", "確認コードの保存に失敗しました。", "", err)
	}

	subject := fmt.Sprintf("【%s】パスワード再設定の確認コード", s.cfg.App.Name)
	body := fmt.Sprintf("パスワード再設定の確認コードは %s です。\n\nこのコードの有効期限は10分です。心当たりがない場合はこのメールを無視してください。", code)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return model.NewAppError("EMAIL_SEND_FAILED", "メールの送信に失敗しました。", "", err)
	}

	logger.Info("Password reset code sent", "user_id", user.ID)
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	email = normalizeEmail(email)
	logger := middleware.GetLogger(ctx).With("email", email)
	invalid := model.NewAppError(invalidOTPCode, "確認コードが正しくないか、有効期限が切れています。", "otp", model.ErrInvalidInput)

	user, err := s.userRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", invalid
		}
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}

	var resetToken string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.tokenRepo.FindLatestPasswordResetOTP(ctx, tx, user.ID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return invalid
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
		if time.Now().After(record.ExpiresAt) {
			logger.Warn("Password reset code expired", "user_id", user.ID)
			return invalid
		}
		if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(otp)) != nil {
			logger.Warn("Password reset code mismatch", "user_id", user.ID)
			return invalid
		}

		token, err := randomToken()
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
		}
		if err := s.tokenRepo.CreatePasswordResetToken(ctx, tx, &model.PasswordResetToken{
			Token:     token,
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(resetTokenTTL),
		}); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの保存に失敗しました。", "", err)
		}
		if err := s.tokenRepo.DeletePasswordResetOTPs(ctx, tx, user.ID); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
		resetToken = token
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info("Password reset code verified", "user_id", user.ID)
	return resetToken, nil
}

func (s *authService) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	logger := middleware.GetLogger(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := s.tokenRepo.FindPasswordResetToken(ctx, tx, tokenString)
		if err != nil {
			return model.NewAppError(invalidTokenCode, "このトークンは無効か、既に使用されています。", "token", model.ErrInvalidInput)
		}
		if time.Now().After(token.ExpiresAt) {
			return model.NewAppError(invalidTokenCode, "このトークンの有効期限が切れています。", "token", model.ErrInvalidInput)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
		}
		hash := string(hashedPassword)

		err = s.identityRepo.UpdatePasswordHash(ctx, tx, token.UserID, hash)
		if errors.Is(err, model.ErrNotFound) {
			// Google のみで登録したユーザーはパスワードを新規に設定する
			user, ferr := s.userRepo.FindByID(ctx, tx, token.UserID)
			if ferr != nil {
				return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの更新に失敗しました。", "", ferr)
			}
			err = s.identityRepo.Create(ctx, tx, &model.Identity{
				UserID:       user.ID,
				AuthProvider: model.AuthProviderLocal,
				ProviderID:   user.Email,
				PasswordHash: &hash,
			})
		}
		if err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの更新に失敗しました。", "", err)
		}

		if err := s.tokenRepo.DeletePasswordResetToken(ctx, tx, tokenString); err != nil {
			logger.Error("Failed to delete used password reset token", "error", err)
		}

		logger.Info("Password reset successfully", "user_id", token.UserID)
		return nil
	})
}

func (s *authService) issueToken(ctx context.Context, user *model.User) (*model.AuthResponse, error) {
	logger := middleware.GetLogger(ctx)

	ttl := s.cfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = config.DefaultAccessTokenTTL
	}
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    s.cfg.App.Name,
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.ID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}
	return &model.AuthResponse{AccessToken: signedToken, User: model.NewUserResponse(user)}, nil
}

// generateOTP は6桁の数字を返します
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n.Int64()), nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
