package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// AuthService is a mock type for the AuthService type
type AuthService struct {
	mock.Mock
}

func (_m *AuthService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.AuthResponse, error) {
	ret := _m.Called(ctx, req)
	var r0 *model.AuthResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.AuthResponse)
	}
	return r0, ret.Error(1)
}

func (_m *AuthService) SignIn(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	ret := _m.Called(ctx, req)
	var r0 *model.AuthResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.AuthResponse)
	}
	return r0, ret.Error(1)
}

func (_m *AuthService) SignInWithGoogle(ctx context.Context, idToken string) (*model.AuthResponse, error) {
	ret := _m.Called(ctx, idToken)
	var r0 *model.AuthResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.AuthResponse)
	}
	return r0, ret.Error(1)
}

func (_m *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	ret := _m.Called(ctx, userID)
	var r0 *model.UserResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.UserResponse)
	}
	return r0, ret.Error(1)
}

func (_m *AuthService) ForgotPassword(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

func (_m *AuthService) VerifyOTP(ctx context.Context, email string, otp string) (string, error) {
	ret := _m.Called(ctx, email, otp)
	return ret.String(0), ret.Error(1)
}

func (_m *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	ret := _m.Called(ctx, token, newPassword)
	return ret.Error(0)
}

// NewAuthService creates a new instance of AuthService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
