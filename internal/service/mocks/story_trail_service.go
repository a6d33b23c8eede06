package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// StoryTrailService is a mock type for the StoryTrailService type
type StoryTrailService struct {
	mock.Mock
}

func (_m *StoryTrailService) GetNextTrail(ctx context.Context, level int, userID uuid.UUID) (*model.Trail, error) {
	ret := _m.Called(ctx, level, userID)
	var r0 *model.Trail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Trail)
	}
	return r0, ret.Error(1)
}

func (_m *StoryTrailService) GetTrailByID(ctx context.Context, trailID uuid.UUID) (*model.Trail, error) {
	ret := _m.Called(ctx, trailID)
	var r0 *model.Trail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Trail)
	}
	return r0, ret.Error(1)
}

// NewStoryTrailService creates a new instance of StoryTrailService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStoryTrailService(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoryTrailService {
	m := &StoryTrailService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
