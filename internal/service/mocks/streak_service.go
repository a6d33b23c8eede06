package mocks

import (
	context "context"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// StreakService is a mock type for the StreakService type
type StreakService struct {
	mock.Mock
}

func (_m *StreakService) RecordActivity(ctx context.Context, userID uuid.UUID) error {
	ret := _m.Called(ctx, userID)
	return ret.Error(0)
}

// NewStreakService creates a new instance of StreakService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStreakService(t interface {
	mock.TestingT
	Cleanup(func())
}) *StreakService {
	m := &StreakService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
