package mocks

import (
	context "context"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// SegmentAudioService is a mock type for the SegmentAudioService type
type SegmentAudioService struct {
	mock.Mock
}

func (_m *SegmentAudioService) GetAudioURL(ctx context.Context, segmentID uuid.UUID) (string, error) {
	ret := _m.Called(ctx, segmentID)
	return ret.String(0), ret.Error(1)
}

// NewSegmentAudioService creates a new instance of SegmentAudioService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSegmentAudioService(t interface {
	mock.TestingT
	Cleanup(func())
}) *SegmentAudioService {
	m := &SegmentAudioService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
