//go:generate mockery --name ProfileService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go_5_real_english/internal/middleware"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error)
	// UpdateIdentity は指定された項目だけを更新し、更新後のプロフィールを返します
	UpdateIdentity(ctx context.Context, userID uuid.UUID, input model.UpdateProfileInput) (*model.UserProfile, error)
}

type profileService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	progressRepo  repository.ProgressRepository
	immersionRepo repository.ImmersionRepository
	store         BlobStore
	loc           *time.Location
	now           func() time.Time
}

func NewProfileService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	progressRepo repository.ProgressRepository,
	immersionRepo repository.ImmersionRepository,
	store BlobStore,
	loc *time.Location,
) ProfileService {
	if loc == nil {
		loc = time.UTC
	}
	return &profileService{
		db:            db,
		userRepo:      userRepo,
		progressRepo:  progressRepo,
		immersionRepo: immersionRepo,
		store:         store,
		loc:           loc,
		now:           time.Now,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	logger := middleware.GetLogger(ctx)

	var (
		user    *model.User
		stories int64
		shorts  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.userRepo.FindByID(gctx, s.db, userID)
		user = u
		return err
	})
	g.Go(func() error {
		n, err := s.progressRepo.CountCompleted(gctx, s.db, userID)
		stories = n
		return err
	})
	g.Go(func() error {
		n, err := s.immersionRepo.CountWatched(gctx, s.db, userID)
		shorts = n
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to load profile", "error", err, "user_id", userID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}

	return s.buildProfile(user, int(stories), int(shorts)), nil
}

func (s *profileService) buildProfile(user *model.User, stories, shorts int) *model.UserProfile {
	avatar := model.DefaultAvatar
	if user.AvatarURL != nil && *user.AvatarURL != "" {
		avatar = *user.AvatarURL
	}

	active := false
	if user.LastActiveAt != nil {
		active = dayOf(*user.LastActiveAt, s.loc).Equal(dayOf(s.now(), s.loc))
	}

	points := stories*model.PointsPerStory + shorts*model.PointsPerShort
	return &model.UserProfile{
		ID: user.ID,
		Identity: model.ProfileIdentity{
			FullName:  user.FullName,
			AvatarURL: avatar,
			Level:     user.Level,
			JoinedAt:  user.CreatedAt,
		},
		Habit: model.ProfileHabit{
			CurrentStreak:  user.CurrentStreak,
			IsStreakActive: active,
			LastActiveDate: user.LastActiveAt,
		},
		Growth: model.ProfileGrowth{
			TreeStage:   model.TreeStageFor(points),
			TotalPoints: points,
			Stats: model.ProfileStats{
				StoriesCompleted: stories,
				ShortsWatched:    shorts,
			},
		},
	}
}

func (s *profileService) UpdateIdentity(ctx context.Context, userID uuid.UUID, input model.UpdateProfileInput) (*model.UserProfile, error) {
	logger := middleware.GetLogger(ctx)

	var fullName, avatarURL *string
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, model.NewAppError("VALIDATION_ERROR", "氏名を入力してください。", "full_name", model.ErrInvalidInput)
		}
		fullName = &name
	}

	if input.Avatar != nil && len(input.Avatar.Data) > 0 {
		ext, ok := avatarExtension(input.Avatar.ContentType)
		if !ok {
			return nil, model.NewAppError("UNSUPPORTED_IMAGE", "対応していない画像形式です。", "avatar", model.ErrInvalidInput)
		}
		key := fmt.Sprintf("avatars/%s-%d.%s", userID, s.now().Unix(), ext)
		url, err := s.store.Put(ctx, key, input.Avatar.Data, input.Avatar.ContentType)
		if err != nil {
			logger.Error("Failed to upload avatar", "error", err, "user_id", userID)
			return nil, model.NewAppError("UPLOAD_FAILED", "画像のアップロードに失敗しました。", "avatar", errors.Join(model.ErrPersistence, err))
		}
		avatarURL = &url
	}

	if fullName != nil || avatarURL != nil {
		if err := s.userRepo.UpdateProfile(ctx, s.db, userID, fullName, avatarURL); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to update profile", "error", err, "user_id", userID)
			return nil, model.NewAppError("PERSISTENCE_FAILED", "プロフィールの更新に失敗しました。", "", errors.Join(model.ErrPersistence, err))
		}
		logger.Info("Profile updated", "user_id", userID, "name_changed", fullName != nil, "avatar_changed", avatarURL != nil)
	}

	return s.GetProfile(ctx, userID)
}

func avatarExtension(contentType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "image/jpeg", "image/jpg":
		return "jpg", true
	case "image/png":
		return "png", true
	case "image/webp":
		return "webp", true
	case "image/gif":
		return "gif", true
	default:
		return "", false
	}
}
