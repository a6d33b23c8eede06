package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// CompletionService is a mock type for the CompletionService type
type CompletionService struct {
	mock.Mock
}

func (_m *CompletionService) CompleteTrail(ctx context.Context, userID uuid.UUID, trailID uuid.UUID) (*model.CompletionResult, error) {
	ret := _m.Called(ctx, userID, trailID)
	var r0 *model.CompletionResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.CompletionResult)
	}
	return r0, ret.Error(1)
}

// NewCompletionService creates a new instance of CompletionService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCompletionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CompletionService {
	m := &CompletionService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
