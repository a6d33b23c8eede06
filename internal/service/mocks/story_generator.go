package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// StoryGenerator is a mock type for the StoryGenerator type
type StoryGenerator struct {
	mock.Mock
}

func (_m *StoryGenerator) GenerateStory(ctx context.Context, level int, previousTitle string) (*model.Trail, error) {
	ret := _m.Called(ctx, level, previousTitle)
	var r0 *model.Trail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Trail)
	}
	return r0, ret.Error(1)
}

// NewStoryGenerator creates a new instance of StoryGenerator. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStoryGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoryGenerator {
	m := &StoryGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
