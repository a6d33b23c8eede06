package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
	gorm "gorm.io/gorm"
)

// UserRepository is a mock type for the UserRepository type
type UserRepository struct {
	mock.Mock
}

func (_m *UserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	ret := _m.Called(ctx, db, user)
	return ret.Error(0)
}

func (_m *UserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	ret := _m.Called(ctx, db, userID)
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	ret := _m.Called(ctx, db, email)
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) UpdateLevel(ctx context.Context, db *gorm.DB, userID uuid.UUID, newLevel int) error {
	ret := _m.Called(ctx, db, userID, newLevel)
	return ret.Error(0)
}

func (_m *UserRepository) FindStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.StreakState, error) {
	ret := _m.Called(ctx, db, userID)
	var r0 *model.StreakState
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.StreakState)
	}
	return r0, ret.Error(1)
}

func (_m *UserRepository) UpdateStreak(ctx context.Context, db *gorm.DB, userID uuid.UUID, state model.StreakState) error {
	ret := _m.Called(ctx, db, userID, state)
	return ret.Error(0)
}

func (_m *UserRepository) UpdateProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID, fullName *string, avatarURL *string) error {
	ret := _m.Called(ctx, db, userID, fullName, avatarURL)
	return ret.Error(0)
}

// NewUserRepository creates a new instance of UserRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserRepository {
	m := &UserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
