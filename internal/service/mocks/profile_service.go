package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// ProfileService is a mock type for the ProfileService type
type ProfileService struct {
	mock.Mock
}

func (_m *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	ret := _m.Called(ctx, userID)
	var r0 *model.UserProfile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.UserProfile)
	}
	return r0, ret.Error(1)
}

func (_m *ProfileService) UpdateIdentity(ctx context.Context, userID uuid.UUID, input model.UpdateProfileInput) (*model.UserProfile, error) {
	ret := _m.Called(ctx, userID, input)
	var r0 *model.UserProfile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.UserProfile)
	}
	return r0, ret.Error(1)
}

// NewProfileService creates a new instance of ProfileService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewProfileService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProfileService {
	m := &ProfileService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
