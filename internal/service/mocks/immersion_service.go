package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// ImmersionService is a mock type for the ImmersionService type
type ImmersionService struct {
	mock.Mock
}

func (_m *ImmersionService) GetFeed(ctx context.Context, userID uuid.UUID, category model.ShortCategory, limit int) ([]model.ShortResponse, error) {
	ret := _m.Called(ctx, userID, category, limit)
	var r0 []model.ShortResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.ShortResponse)
	}
	return r0, ret.Error(1)
}

func (_m *ImmersionService) MarkWatched(ctx context.Context, userID uuid.UUID, shortID uuid.UUID) error {
	ret := _m.Called(ctx, userID, shortID)
	return ret.Error(0)
}

func (_m *ImmersionService) ToggleSave(ctx context.Context, userID uuid.UUID, shortID uuid.UUID) (*model.ToggleSaveResponse, error) {
	ret := _m.Called(ctx, userID, shortID)
	var r0 *model.ToggleSaveResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.ToggleSaveResponse)
	}
	return r0, ret.Error(1)
}

func (_m *ImmersionService) GetSaved(ctx context.Context, userID uuid.UUID) ([]model.ShortResponse, error) {
	ret := _m.Called(ctx, userID)
	var r0 []model.ShortResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.ShortResponse)
	}
	return r0, ret.Error(1)
}

// NewImmersionService creates a new instance of ImmersionService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewImmersionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ImmersionService {
	m := &ImmersionService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
