package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
	gorm "gorm.io/gorm"
)

// TokenRepository is a mock type for the TokenRepository type
type TokenRepository struct {
	mock.Mock
}

func (_m *TokenRepository) ReplacePasswordResetOTP(ctx context.Context, db *gorm.DB, otp *model.PasswordResetOTP) error {
	ret := _m.Called(ctx, db, otp)
	return ret.Error(0)
}

func (_m *TokenRepository) FindLatestPasswordResetOTP(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.PasswordResetOTP, error) {
	ret := _m.Called(ctx, db, userID)
	var r0 *model.PasswordResetOTP
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.PasswordResetOTP)
	}
	return r0, ret.Error(1)
}

func (_m *TokenRepository) DeletePasswordResetOTPs(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	ret := _m.Called(ctx, db, userID)
	return ret.Error(0)
}

func (_m *TokenRepository) CreatePasswordResetToken(ctx context.Context, db *gorm.DB, token *model.PasswordResetToken) error {
	ret := _m.Called(ctx, db, token)
	return ret.Error(0)
}

func (_m *TokenRepository) FindPasswordResetToken(ctx context.Context, db *gorm.DB, token string) (*model.PasswordResetToken, error) {
	ret := _m.Called(ctx, db, token)
	var r0 *model.PasswordResetToken
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.PasswordResetToken)
	}
	return r0, ret.Error(1)
}

func (_m *TokenRepository) DeletePasswordResetToken(ctx context.Context, db *gorm.DB, token string) error {
	ret := _m.Called(ctx, db, token)
	return ret.Error(0)
}

// NewTokenRepository creates a new instance of TokenRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenRepository {
	m := &TokenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
